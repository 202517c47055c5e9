package cli

import (
	stderrors "errors"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/toyz/dudgen/internal/annotations"
	"github.com/toyz/dudgen/internal/errors"
	"github.com/toyz/dudgen/internal/generator"
	"github.com/toyz/dudgen/internal/utils"
)

// ConfigFileName is the configuration file looked up in the working directory
const ConfigFileName = ".dudgen"

// EnvPrefix prefixes environment variables overriding configuration keys
const EnvPrefix = "DUDGEN"

// Config holds the configuration for a generation run
type Config struct {
	// Namespace overrides the namespace generated classes are emitted into
	Namespace string `mapstructure:"namespace"`

	// OutputDir receives every generated file; empty writes next to the source
	OutputDir string `mapstructure:"output_dir"`

	Indent  string `mapstructure:"indent"`  // "tab" or "spaces:N"
	Newline string `mapstructure:"newline"` // "lf" or "crlf"

	Variants        []string `mapstructure:"variants"`
	Markers         []string `mapstructure:"markers"`
	MarkerNamespace string   `mapstructure:"marker_namespace"`
	InheritMembers  bool     `mapstructure:"inherit_members"`
	Concurrency     int      `mapstructure:"concurrency"`
	Manifests       []string `mapstructure:"manifests"`

	Verbose bool `mapstructure:"verbose"`
	Quiet   bool `mapstructure:"quiet"`

	// Debounce delays regeneration after the last change in watch mode
	Debounce time.Duration `mapstructure:"debounce"`
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("namespace", "")
	v.SetDefault("output_dir", "")
	v.SetDefault("indent", "tab")
	v.SetDefault("newline", "lf")
	v.SetDefault("variants", []string{generator.ProxyVariant.Name, generator.DudVariant.Name})
	v.SetDefault("markers", []string{})
	v.SetDefault("marker_namespace", annotations.DefaultNamespace)
	v.SetDefault("inherit_members", true)
	v.SetDefault("concurrency", runtime.NumCPU())
	v.SetDefault("manifests", []string{})
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("debounce", 500*time.Millisecond)
}

// NewViper creates a viper instance reading .dudgen.yaml from dir, or
// configFile when set, with DUDGEN_ environment overrides.
func NewViper(configFile, dir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && stderrors.As(err, &notFound) {
			return v, nil
		}
		return nil, errors.Wrap(errors.ConfigurationErrorCode, "failed to read configuration", err).
			WithContext("file", configFile)
	}
	return v, nil
}

// LoadConfig unmarshals and validates the configuration held by v
func LoadConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ConfigurationErrorCode, "failed to unmarshal configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, _ := LoadConfig(v)
	return cfg
}

// Validate reports every invalid setting
func (c *Config) Validate() error {
	errs := errors.NewMultipleErrors()

	if _, err := c.ResolveVariants(); err != nil {
		errs.Add(err)
	}
	if _, err := c.Format(); err != nil {
		errs.Add(err)
	}
	if c.Concurrency <= 0 {
		errs.Add(errors.NewConfigurationError("concurrency", c.Concurrency, "must be positive"))
	}
	if c.Debounce < 0 {
		errs.Add(errors.NewConfigurationError("debounce", c.Debounce, "cannot be negative"))
	}
	if c.Verbose && c.Quiet {
		errs.Add(errors.NewConfigurationError("quiet", c.Quiet, "cannot be combined with verbose"))
	}
	if _, err := c.MarkerRegistry(); err != nil {
		errs.Add(err)
	}

	return errs.ErrorOrNil()
}

// ResolveVariants returns the configured variants
func (c *Config) ResolveVariants() ([]generator.Variant, error) {
	return generator.NewVariantRegistry().Resolve(c.Variants)
}

// Format parses the indent and newline settings
func (c *Config) Format() (generator.Format, error) {
	var format generator.Format

	indent := strings.ToLower(strings.TrimSpace(c.Indent))
	switch {
	case indent == "" || indent == "tab" || indent == "tabs":
		format.IndentUnit = "\t"
	case strings.HasPrefix(indent, "spaces"):
		count := 4
		if rest := strings.TrimPrefix(indent, "spaces"); rest != "" {
			n, err := strconv.Atoi(strings.TrimPrefix(rest, ":"))
			if err != nil || n <= 0 || n > 16 {
				return format, errors.NewConfigurationError("indent", c.Indent, "expected tab or spaces:N with N between 1 and 16")
			}
			count = n
		}
		format.IndentUnit = strings.Repeat(" ", count)
	default:
		return format, errors.NewConfigurationError("indent", c.Indent, "expected tab or spaces:N")
	}

	switch strings.ToLower(strings.TrimSpace(c.Newline)) {
	case "", "lf":
		format.Newline = "\n"
	case "crlf":
		format.Newline = "\r\n"
	default:
		return format, errors.NewConfigurationError("newline", c.Newline, "expected lf or crlf")
	}

	return format, nil
}

// MarkerRegistry builds the registry of marker attributes: ProxyService in
// the configured namespace plus any extra markers.
func (c *Config) MarkerRegistry() (annotations.MarkerRegistry, error) {
	registry := annotations.NewDefaultRegistry(c.MarkerNamespace)
	if err := annotations.RegisterNames(registry, c.Markers...); err != nil {
		return nil, errors.Wrap(errors.ConfigurationErrorCode, "invalid marker", err).
			WithContext("markers", c.Markers)
	}
	return registry, nil
}

// DiagnosticLevel maps the quiet and verbose flags to a diagnostic level
func (c *Config) DiagnosticLevel() utils.DiagnosticLevel {
	switch {
	case c.Quiet:
		return utils.DiagnosticError
	case c.Verbose:
		return utils.DiagnosticVerbose
	default:
		return utils.DiagnosticInfo
	}
}

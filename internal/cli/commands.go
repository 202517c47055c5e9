package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toyz/dudgen/internal/utils"
)

// Version is the dudgen version, set at build time
var Version = "dev"

// flagKeys maps command flags to the configuration keys they override
var flagKeys = map[string]string{
	"namespace":        "namespace",
	"output-dir":       "output_dir",
	"indent":           "indent",
	"newline":          "newline",
	"variants":         "variants",
	"marker":           "markers",
	"marker-namespace": "marker_namespace",
	"inherit-members":  "inherit_members",
	"concurrency":      "concurrency",
	"manifest":         "manifests",
	"verbose":          "verbose",
	"quiet":            "quiet",
	"debounce":         "debounce",
}

const skipConfigAnnotation = "dudgen/skip-config"

// app holds the state shared by the commands of one invocation
type app struct {
	configFile  string
	dryRun      bool
	config      *Config
	diagnostics *utils.DiagnosticSystem
	reporter    *DiagnosticReporter
	stdout      io.Writer
	stderr      io.Writer
}

// Execute runs the dudgen command line and returns the process exit code
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		reporter := a.reporter
		if reporter == nil {
			reporter = NewDiagnosticReporter(false)
		}
		reporter.SetOutput(stderr)
		reporter.ReportError(err)
		return 1
	}
	return 0
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "dudgen",
		Short: "Generate proxy and dud implementations for C# service interfaces",
		Long: `dudgen scans C# sources for classes marked [ProxyService] and writes two
implementations of the interface each one implements:

  <Name>Proxy.g.cs  a partial class forwarding every member to an inner
                    service through overridable interceptor hooks
  <Name>Dud.g.cs    an inert implementation returning default values

Configuration sources (in order of precedence):
  1. Command line flags
  2. Environment variables (DUDGEN_* prefix)
  3. Project config (./.dudgen.yaml or --config)
  4. Default values`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.loadConfig,
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Configuration file (default ./.dudgen.yaml)")
	root.PersistentFlags().Bool("verbose", false, "Enable verbose output and detailed error reporting")
	root.PersistentFlags().Bool("quiet", false, "Only show errors")

	root.AddCommand(a.generateCommand(), a.cleanCommand(), a.watchCommand(), a.versionCommand())
	return root
}

// loadConfig merges the configuration file, environment and flags
func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipConfigAnnotation] != "" {
		return nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("cannot determine working dir: %w", err)
	}

	v, err := NewViper(a.configFile, wd)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd); err != nil {
		return err
	}

	cfg, err := LoadConfig(v)
	if err != nil {
		return err
	}
	a.config = cfg

	a.diagnostics = utils.NewDiagnosticSystem(cfg.DiagnosticLevel())
	if a.stdout != os.Stdout || a.stderr != os.Stderr {
		a.diagnostics.SetOutput(a.stdout, a.stderr)
	}
	a.reporter = NewDiagnosticReporter(cfg.Verbose)

	if file := v.ConfigFileUsed(); file != "" {
		a.diagnostics.Debug("Using configuration %s", file)
	}
	return nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func addGenerationFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("namespace", "", "Namespace for generated classes (default: the class's namespace)")
	flags.String("output-dir", "", "Directory receiving generated files (default: next to the source)")
	flags.String("indent", "tab", "Indentation: tab or spaces:N")
	flags.String("newline", "lf", "Line terminator: lf or crlf")
	flags.StringSlice("variants", nil, "Variants to generate (default proxy,dud)")
	flags.StringSlice("marker", nil, "Additional attribute names marking classes for generation")
	flags.String("marker-namespace", "", "Namespace declaring the ProxyService attribute")
	flags.Bool("inherit-members", true, "Include members inherited from base interfaces")
	flags.Int("concurrency", 0, "Candidates generated in parallel (default: number of CPUs)")
	flags.StringSlice("manifest", nil, "YAML manifests declaring targets without sources")
}

func (a *app) generateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [paths...]",
		Short: "Generate proxy and dud classes",
		Long: `Scan the given paths for classes marked [ProxyService] and write their generated classes.

Paths accept Go-style patterns:
  ./...             Scan the current directory and all subdirectories
  ./Services/...    Scan Services recursively
  ./Services        Scan only the Services directory
  ./Api/Person.cs   Scan a single file`,
		Example: `  dudgen generate ./...
  dudgen generate --namespace MyApp.Services ./src/...
  dudgen generate --output-dir Generated --indent spaces:4 ./...
  dudgen generate --manifest targets.yaml`,
		RunE: a.runGenerate,
	}
	addGenerationFlags(cmd)
	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, args []string) error {
	a.diagnostics.Section("dudgen")

	generator, err := NewGenerator(a.config, a.diagnostics)
	if err != nil {
		return err
	}

	summary, err := generator.Run(cmd.Context(), args)
	a.diagnostics.Summary("Generation Complete!", summary.Stats())
	if a.config.Verbose && len(summary.Files) > 0 {
		a.diagnostics.Subsection("Generated Files")
		for _, file := range summary.Files {
			a.diagnostics.List("%s", file)
		}
	}
	return err
}

func (a *app) cleanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [paths...]",
		Short: "Remove generated files",
		Long:  "Remove every .g.cs file under the given paths that starts with the generated file header.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.diagnostics.StartProgress("Cleaning generated files")
			removed, err := NewCleaner(a.dryRun).CleanGeneratedFiles(args)
			a.diagnostics.EndProgress(err == nil, pluralize(len(removed), "file"))

			verb := "Removed"
			if a.dryRun {
				verb = "Would remove"
			}
			for _, path := range removed {
				a.diagnostics.List("%s %s", verb, path)
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&a.dryRun, "dry-run", false, "List the files that would be removed")
	return cmd
}

func (a *app) watchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Regenerate whenever C# sources change",
		RunE: func(cmd *cobra.Command, args []string) error {
			generator, err := NewGenerator(a.config, a.diagnostics)
			if err != nil {
				return err
			}
			return NewWatcher(generator, args, a.config.Debounce, a.diagnostics).Watch(cmd.Context())
		},
	}
	addGenerationFlags(cmd)
	cmd.Flags().Duration("debounce", 500*time.Millisecond, "Delay after the last change before regenerating")
	return cmd
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the dudgen version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dudgen %s\n", Version)
		},
	}
}

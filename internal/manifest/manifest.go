package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/toyz/dudgen/internal/errors"
	"github.com/toyz/dudgen/internal/models"
)

// Member kinds accepted in a manifest
const (
	KindMethod   = "method"
	KindProperty = "property"
	KindGetter   = "getter"
	KindSetter   = "setter"
)

// Manifest declares generation targets without C# sources to scan
type Manifest struct {
	Path    string   `yaml:"-"`
	Targets []Target `yaml:"targets"`

	lines []int // source line of each target
}

// Target is one class to generate
type Target struct {
	Name      string   `yaml:"name"`
	Interface string   `yaml:"interface"`
	Module    string   `yaml:"module"`
	Usings    []string `yaml:"usings"`
	OutputDir string   `yaml:"output_dir"`
	Members   []Member `yaml:"members"`
}

// Member is one interface member. Properties expand to a getter and/or setter.
type Member struct {
	Kind           string      `yaml:"kind"`
	Name           string      `yaml:"name"`
	Returns        string      `yaml:"returns"`
	Type           string      `yaml:"type"`
	Access         string      `yaml:"access"`
	Static         bool        `yaml:"static"`
	Get            bool        `yaml:"get"`
	Set            bool        `yaml:"set"`
	TypeParameters []string    `yaml:"type_parameters"`
	Constraints    []string    `yaml:"constraints"`
	Parameters     []Parameter `yaml:"parameters"`
}

// Parameter is one method parameter
type Parameter struct {
	Type     string `yaml:"type"`
	Name     string `yaml:"name"`
	Modifier string `yaml:"modifier"`
}

// Load reads and validates a manifest file
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}
	return Parse(path, data)
}

// Parse decodes and validates manifest content. path is used for
// diagnostics and to resolve relative output directories.
func Parse(path string, data []byte) (*Manifest, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.WrapParseError(path, err).
			WithLocation(errors.SourceLocation{File: path})
	}

	m := &Manifest{Path: path}
	if len(root.Content) == 0 {
		return m, nil
	}
	if err := root.Content[0].Decode(m); err != nil {
		return nil, errors.WrapParseError(path, err).
			WithLocation(errors.SourceLocation{File: path})
	}
	m.lines = targetLines(root.Content[0])

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// targetLines returns the line of every entry under the targets key
func targetLines(doc *yaml.Node) []int {
	if doc.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value != "targets" {
			continue
		}
		seq := doc.Content[i+1]
		lines := make([]int, 0, len(seq.Content))
		for _, item := range seq.Content {
			lines = append(lines, item.Line)
		}
		return lines
	}
	return nil
}

// Validate checks every target and collects all problems found
func (m *Manifest) Validate() error {
	errs := errors.NewMultipleErrors()
	for i, target := range m.Targets {
		for _, problem := range target.problems() {
			errs.Add(m.targetError(i, problem))
		}
	}
	return errs.ErrorOrNil()
}

func (m *Manifest) targetError(index int, problem string) *errors.BaseError {
	loc := errors.SourceLocation{File: m.Path}
	if index < len(m.lines) {
		loc.Line = m.lines[index]
	}

	field := fmt.Sprintf("targets[%d]", index)
	if name := m.Targets[index].Name; name != "" {
		field = fmt.Sprintf("targets[%d] (%s)", index, name)
	}
	return errors.NewValidationError(field, problem).
		WithLocation(loc).
		WithContext("manifest", m.Path).
		WithContext("target", index)
}

func (t Target) problems() []string {
	var problems []string
	if t.Name == "" {
		problems = append(problems, "name is required")
	}
	if t.Interface == "" {
		problems = append(problems, "interface is required")
	}

	for i, member := range t.Members {
		prefix := fmt.Sprintf("members[%d]", i)
		if member.Name == "" {
			problems = append(problems, prefix+": name is required")
		}
		if _, ok := accessibilities[member.access()]; !ok {
			problems = append(problems, fmt.Sprintf("%s: unknown access '%s'", prefix, member.Access))
		}

		switch member.Kind {
		case KindMethod:
			for j, p := range member.Parameters {
				if p.Type == "" || p.Name == "" {
					problems = append(problems, fmt.Sprintf("%s.parameters[%d]: type and name are required", prefix, j))
				}
				switch p.Modifier {
				case "", "ref", "in", "params":
				default:
					problems = append(problems, fmt.Sprintf("%s.parameters[%d]: unsupported modifier '%s'", prefix, j, p.Modifier))
				}
			}
		case KindProperty:
			if member.Type == "" {
				problems = append(problems, prefix+": type is required")
			}
			if !member.Get && !member.Set {
				problems = append(problems, prefix+": property needs get, set or both")
			}
		case KindGetter, KindSetter:
			if member.Type == "" {
				problems = append(problems, prefix+": type is required")
			}
		default:
			problems = append(problems, fmt.Sprintf("%s: unknown kind '%s'", prefix, member.Kind))
		}
	}
	return problems
}

var accessibilities = map[string]models.Accessibility{
	"public":             models.Public,
	"internal":           models.Internal,
	"protected":          models.Protected,
	"protected internal": models.ProtectedOrInternal,
	"private protected":  models.ProtectedAndInternal,
	"private":            models.Private,
}

func (m Member) access() string {
	access := strings.Join(strings.Fields(m.Access), " ")
	if access == "" {
		return "public"
	}
	return access
}

// Descriptors converts the member into generator descriptors
func (m Member) Descriptors() []models.MemberDescriptor {
	access := accessibilities[m.access()]

	var descriptors []models.MemberDescriptor
	switch m.Kind {
	case KindMethod:
		returns := m.Returns
		if returns == "" {
			returns = models.VoidType
		}
		params := make([]models.Parameter, 0, len(m.Parameters))
		for _, p := range m.Parameters {
			params = append(params, models.Parameter{Type: p.Type, Name: p.Name, Modifier: p.Modifier})
		}
		method := models.NewMethod(m.Name, returns, params...)
		method.Accessibility = access
		method.TypeParameters = m.TypeParameters
		method.Constraints = m.Constraints
		descriptors = append(descriptors, method)
	case KindProperty:
		if m.Get {
			descriptors = append(descriptors, models.NewGetter(m.Name, m.Type, access))
		}
		if m.Set {
			descriptors = append(descriptors, models.NewSetter(m.Name, m.Type, access))
		}
	case KindGetter:
		descriptors = append(descriptors, models.NewGetter(m.Name, m.Type, access))
	case KindSetter:
		descriptors = append(descriptors, models.NewSetter(m.Name, m.Type, access))
	}

	for i := range descriptors {
		descriptors[i].IsStatic = m.Static
	}
	return descriptors
}

// Candidates converts the targets into generation candidates. defaultModule
// applies to targets without a module; relative output directories are
// resolved against the manifest's directory.
func (m *Manifest) Candidates(defaultModule string) []models.Candidate {
	baseDir := filepath.Dir(m.Path)

	candidates := make([]models.Candidate, 0, len(m.Targets))
	for i, target := range m.Targets {
		module := target.Module
		if module == "" {
			module = defaultModule
		}

		outDir := target.OutputDir
		switch {
		case outDir == "":
			outDir = baseDir
		case !filepath.IsAbs(outDir):
			outDir = filepath.Join(baseDir, outDir)
		}

		members := make([]models.MemberDescriptor, 0, len(target.Members))
		for _, member := range target.Members {
			members = append(members, member.Descriptors()...)
		}

		loc := errors.SourceLocation{File: m.Path}
		if i < len(m.lines) {
			loc.Line = m.lines[i]
		}

		candidates = append(candidates, models.Candidate{
			Target: models.TargetMetadata{
				Name:      target.Name,
				Interface: target.Interface,
				Module:    module,
				Usings:    target.Usings,
			},
			Members:  members,
			Location: loc,
			OutDir:   outDir,
		})
	}
	return candidates
}

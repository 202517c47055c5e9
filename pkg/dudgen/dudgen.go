// Package dudgen embeds the proxy and dud generator in other Go programs.
//
// Candidates can be built by hand from member descriptors or discovered from
// C# source text:
//
//	engine, err := dudgen.New(dudgen.WithVariants("dud"), dudgen.WithIndent("    "))
//	artifacts, notices, err := engine.GenerateFromSource("Clock.cs", source)
package dudgen

import (
	"context"

	"github.com/toyz/dudgen/internal/annotations"
	"github.com/toyz/dudgen/internal/errors"
	"github.com/toyz/dudgen/internal/generator"
	"github.com/toyz/dudgen/internal/models"
	"github.com/toyz/dudgen/internal/parser"
)

// Engine generates C# proxy and dud classes
type Engine struct {
	codegen   *generator.Generator
	parser    *parser.Parser
	discovery parser.DiscoveryOptions
}

type settings struct {
	variants        []string
	format          generator.Format
	concurrency     int
	markers         []string
	markerNamespace string
	inheritMembers  bool
}

// Option configures an Engine
type Option func(*settings)

// WithVariants selects the variants to generate by name ("proxy", "dud")
func WithVariants(names ...string) Option {
	return func(s *settings) {
		s.variants = names
	}
}

// WithIndent sets the indentation unit of generated bodies
func WithIndent(unit string) Option {
	return func(s *settings) {
		s.format.IndentUnit = unit
	}
}

// WithNewline sets the line terminator of generated files
func WithNewline(newline string) Option {
	return func(s *settings) {
		s.format.Newline = newline
	}
}

// WithConcurrency bounds how many candidates GenerateAll works on at once
func WithConcurrency(n int) Option {
	return func(s *settings) {
		s.concurrency = n
	}
}

// WithMarkers adds attribute names that mark a class for generation
func WithMarkers(names ...string) Option {
	return func(s *settings) {
		s.markers = append(s.markers, names...)
	}
}

// WithMarkerNamespace sets the namespace declaring the ProxyService attribute
func WithMarkerNamespace(namespace string) Option {
	return func(s *settings) {
		s.markerNamespace = namespace
	}
}

// WithInheritedMembers controls whether members of base interfaces are generated
func WithInheritedMembers(inherit bool) Option {
	return func(s *settings) {
		s.inheritMembers = inherit
	}
}

// New creates an engine generating proxies and duds with tab indentation
func New(opts ...Option) (*Engine, error) {
	s := settings{
		markerNamespace: annotations.DefaultNamespace,
		inheritMembers:  true,
	}
	for _, opt := range opts {
		opt(&s)
	}

	variants, err := generator.NewVariantRegistry().Resolve(s.variants)
	if err != nil {
		return nil, err
	}

	markers := annotations.NewDefaultRegistry(s.markerNamespace)
	if err := annotations.RegisterNames(markers, s.markers...); err != nil {
		return nil, errors.Wrap(errors.ConfigurationErrorCode, "invalid marker", err)
	}

	return &Engine{
		codegen: generator.NewGenerator(
			generator.WithVariants(variants...),
			generator.WithFormat(s.format),
			generator.WithConcurrency(s.concurrency),
		),
		parser: parser.NewParser(),
		discovery: parser.DiscoveryOptions{
			Markers:        markers,
			InheritMembers: s.inheritMembers,
		},
	}, nil
}

// Generate renders every configured variant of one candidate
func (e *Engine) Generate(candidate Candidate) ([]GeneratedArtifact, error) {
	return e.codegen.Generate(candidate)
}

// GenerateAll renders every candidate concurrently. Artifacts of the
// candidates that succeeded are returned in input order along with the
// errors of those that failed.
func (e *Engine) GenerateAll(ctx context.Context, candidates []Candidate) ([]GeneratedArtifact, error) {
	var artifacts []GeneratedArtifact
	errs := errors.NewMultipleErrors()

	for _, result := range e.codegen.GenerateAll(ctx, candidates) {
		if result.Err != nil {
			errs.Add(result.Err)
			continue
		}
		artifacts = append(artifacts, result.Artifacts...)
	}
	return artifacts, errs.ErrorOrNil()
}

// GenerateFromSource discovers the marked classes of one C# file and renders
// them. Notices describe classes that were skipped.
func (e *Engine) GenerateFromSource(filename, source string) ([]GeneratedArtifact, []Notice, error) {
	file, err := e.parser.ParseSource(filename, source)
	if err != nil {
		return nil, nil, err
	}

	result := parser.Discover([]*models.SourceFile{file}, e.discovery)
	artifacts, err := e.GenerateAll(context.Background(), result.Candidates)

	errs := errors.NewMultipleErrors()
	errs.Add(result.Errors.ErrorOrNil())
	errs.Add(err)
	return artifacts, result.Notices, errs.ErrorOrNil()
}

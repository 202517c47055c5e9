package generator

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/toyz/dudgen/internal/errors"
	"github.com/toyz/dudgen/internal/models"
)

// Generator implements the CodeGenerator interface
type Generator struct {
	variants    []Variant
	format      Format
	concurrency int
}

// Option configures a Generator
type Option func(*Generator)

// WithVariants selects the variants generated per candidate
func WithVariants(variants ...Variant) Option {
	return func(g *Generator) {
		g.variants = variants
	}
}

// WithFormat sets the indentation unit and line terminator
func WithFormat(format Format) Option {
	return func(g *Generator) {
		g.format = format
	}
}

// WithConcurrency bounds how many candidates are generated at once
func WithConcurrency(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.concurrency = n
		}
	}
}

// NewGenerator creates a generator emitting proxies and duds by default
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		variants:    []Variant{ProxyVariant, DudVariant},
		concurrency: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Result is the outcome of generating one candidate
type Result struct {
	Candidate models.Candidate
	Artifacts []models.GeneratedArtifact
	Err       error
}

// Generate builds the member model once and assembles every variant
func (g *Generator) Generate(candidate models.Candidate) ([]models.GeneratedArtifact, error) {
	model, err := models.BuildMemberModel(candidate.Members)
	if err != nil {
		return nil, g.candidateError(candidate, err)
	}

	artifacts := make([]models.GeneratedArtifact, 0, len(g.variants))
	for _, variant := range g.variants {
		artifact, err := Assemble(candidate.Target, model, variant, g.format)
		if err != nil {
			return nil, g.candidateError(candidate, err)
		}
		artifact.OutDir = candidate.OutDir
		artifacts = append(artifacts, *artifact)
	}

	return artifacts, nil
}

// GenerateAll generates every candidate concurrently. Results are returned in
// input order and a failing candidate never affects the others. Candidates not
// started before ctx is done report ctx.Err().
func (g *Generator) GenerateAll(ctx context.Context, candidates []models.Candidate) []Result {
	results := make([]Result, len(candidates))

	var group errgroup.Group
	group.SetLimit(g.concurrency)

	for i, candidate := range candidates {
		results[i].Candidate = candidate
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Artifacts, results[i].Err = g.Generate(candidate)
			return nil
		})
	}

	_ = group.Wait()
	return results
}

func (g *Generator) candidateError(candidate models.Candidate, err error) error {
	wrapped := errors.Wrapf(errors.CodeOf(err), err, "cannot generate %s", candidate.Target.Name).
		WithContext("target", candidate.Target.Name).
		WithContext("interface", candidate.Target.Interface)
	if !candidate.Location.IsEmpty() {
		wrapped = wrapped.WithLocation(candidate.Location)
	}
	if de, ok := err.(errors.DudgenError); ok {
		wrapped = wrapped.WithSuggestions(de.Suggestions()...)
	}
	return wrapped
}

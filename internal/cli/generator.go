package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/toyz/dudgen/internal/errors"
	"github.com/toyz/dudgen/internal/generator"
	"github.com/toyz/dudgen/internal/manifest"
	"github.com/toyz/dudgen/internal/models"
	"github.com/toyz/dudgen/internal/parser"
	"github.com/toyz/dudgen/internal/utils"
)

// Generator coordinates the CLI generation process: scan, parse, discover,
// generate and write.
type Generator struct {
	config      *Config
	scanner     *DirectoryScanner
	parser      parser.SourceParser
	resolver    *ProjectResolver
	discovery   parser.DiscoveryOptions
	codegen     generator.CodeGenerator
	writer      *FileWriter
	reporter    *DiagnosticReporter
	diagnostics *utils.DiagnosticSystem
}

// GenerationSummary contains information about one generation run
type GenerationSummary struct {
	FilesScanned  int
	FilesParsed   int
	ParseFailures int
	Candidates    int
	Written       int
	Unchanged     int
	Failed        int
	Files         []string // every file written or found current
	Duration      time.Duration
}

// Stats returns the summary as the key/value map printed after a run
func (s GenerationSummary) Stats() map[string]interface{} {
	return map[string]interface{}{
		"Files scanned":     s.FilesScanned,
		"Files skipped":     s.ParseFailures,
		"Candidates found":  s.Candidates,
		"Files written":     s.Written,
		"Files unchanged":   s.Unchanged,
		"Candidates failed": s.Failed,
	}
}

// NewGenerator creates a CLI generator from a validated configuration
func NewGenerator(cfg *Config, diagnostics *utils.DiagnosticSystem) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	variants, _ := cfg.ResolveVariants()
	format, _ := cfg.Format()
	markers, _ := cfg.MarkerRegistry()

	resolver := NewProjectResolver(cfg.Namespace)
	return &Generator{
		config:   cfg,
		scanner:  NewDirectoryScanner(),
		parser:   parser.NewParser(),
		resolver: resolver,
		discovery: parser.DiscoveryOptions{
			Markers:        markers,
			InheritMembers: cfg.InheritMembers,
			Modules:        resolver,
		},
		codegen: generator.NewGenerator(
			generator.WithVariants(variants...),
			generator.WithFormat(format),
			generator.WithConcurrency(cfg.Concurrency),
		),
		writer:      NewFileWriter(cfg.OutputDir),
		reporter:    NewDiagnosticReporter(cfg.Verbose),
		diagnostics: diagnostics,
	}, nil
}

// Reporter returns the reporter used for structured errors
func (g *Generator) Reporter() *DiagnosticReporter {
	return g.reporter
}

// Invalidate drops the cached parse of a changed source file
func (g *Generator) Invalidate(path string) {
	g.parser.Invalidate(path)
}

// ManifestPaths returns the absolute paths of the configured manifests
func (g *Generator) ManifestPaths() []string {
	paths := make([]string, 0, len(g.config.Manifests))
	for _, path := range g.config.Manifests {
		if abs, err := filepath.Abs(path); err == nil {
			paths = append(paths, abs)
		}
	}
	return paths
}

// Run executes the complete generation process. Every candidate that can be
// generated is written; the returned error collects the ones that could not.
func (g *Generator) Run(ctx context.Context, paths []string) (GenerationSummary, error) {
	started := time.Now()
	summary := GenerationSummary{Files: make([]string, 0)}
	failures := errors.NewMultipleErrors()

	g.diagnostics.StartProgress("Scanning for C# sources")
	sources, err := g.scanner.ScanSources(paths)
	if err != nil {
		g.diagnostics.EndProgress(false, "")
		return summary, err
	}
	summary.FilesScanned = len(sources)
	g.diagnostics.EndProgress(true, pluralize(len(sources), "file"))

	g.diagnostics.StartProgress("Parsing declarations")
	files, err := g.parser.ParseFiles(ctx, sources, g.config.Concurrency)
	if err != nil {
		var parseErrs *errors.MultipleErrors
		if !stderrors.As(err, &parseErrs) {
			g.diagnostics.EndProgress(false, "")
			return summary, err
		}
		// a file the grammar cannot read is skipped rather than failing the run
		summary.ParseFailures = parseErrs.Count()
		for _, parseErr := range parseErrs.Errors {
			g.diagnostics.Warn("Skipping %v", parseErr)
		}
	}
	summary.FilesParsed = len(files)
	g.diagnostics.EndProgress(true, pluralize(len(files), "file"))

	g.diagnostics.StartProgress("Discovering candidates")
	result := parser.Discover(files, g.discovery)
	g.diagnostics.EndProgress(true, pluralize(len(result.Candidates), "candidate"))
	g.reportNotices(result.Notices)
	for _, err := range result.Errors.Errors {
		failures.Add(err)
		summary.Failed++
	}

	candidates := result.Candidates
	manifestCandidates, err := g.loadManifests()
	if err != nil {
		failures.Add(err)
	}
	candidates = append(candidates, manifestCandidates...)
	summary.Candidates = len(candidates) + summary.Failed

	if len(candidates) > 0 {
		g.diagnostics.StartProgress("Generating classes")
		results := g.codegen.GenerateAll(ctx, candidates)
		g.diagnostics.EndProgress(true, pluralize(len(results), "candidate"))

		for _, res := range results {
			if res.Err != nil {
				failures.Add(res.Err)
				summary.Failed++
				continue
			}
			for _, artifact := range res.Artifacts {
				written, err := g.writer.Write(artifact)
				if err != nil {
					failures.Add(err)
					continue
				}
				summary.Files = append(summary.Files, written.Path)
				if written.Status == StatusUnchanged {
					summary.Unchanged++
					g.diagnostics.Debug("%s is up to date", written.Path)
				} else {
					summary.Written++
					g.diagnostics.Verbose("Wrote %s", written.Path)
				}
			}
		}
	} else {
		g.diagnostics.Info("No classes marked for generation were found")
	}

	summary.Duration = time.Since(started)
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, failures.ErrorOrNil()
}

// loadManifests reads every configured manifest into candidates
func (g *Generator) loadManifests() ([]models.Candidate, error) {
	var candidates []models.Candidate
	errs := errors.NewMultipleErrors()

	for _, path := range g.config.Manifests {
		m, err := manifest.Load(path)
		if err != nil {
			errs.Add(err)
			continue
		}

		module, err := g.resolver.ResolveDirectory(filepath.Dir(path))
		if err != nil {
			errs.Add(err)
			continue
		}
		loaded := m.Candidates(module)
		if g.config.Namespace != "" {
			for i := range loaded {
				loaded[i].Target.Module = g.config.Namespace
			}
		}
		g.diagnostics.Verbose("Loaded %s from %s", pluralize(len(loaded), "target"), path)
		candidates = append(candidates, loaded...)
	}

	return candidates, errs.ErrorOrNil()
}

func (g *Generator) reportNotices(notices []parser.Notice) {
	for _, notice := range notices {
		message := notice.Message
		if !notice.Location.IsEmpty() {
			message = notice.Location.String() + ": " + message
		}
		if notice.Level == parser.NoticeWarning {
			g.diagnostics.Warn("%s", message)
		} else {
			g.diagnostics.Info("%s", message)
		}
	}
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

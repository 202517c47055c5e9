package parser

import (
	"context"
	stderrors "errors"
	"os"
	"runtime"
	"strings"

	"github.com/alecthomas/participle/v2"
	"golang.org/x/sync/errgroup"

	"github.com/toyz/dudgen/internal/errors"
	"github.com/toyz/dudgen/internal/models"
	"github.com/toyz/dudgen/internal/utils"
)

// Parser parses C# source files into declaration models. Parsed files are
// cached until they change on disk.
type Parser struct {
	grammar *participle.Parser[CompilationUnit]
	cache   *utils.FileCache[*models.SourceFile]
}

// NewParser creates a new parser instance
func NewParser() *Parser {
	return &Parser{
		grammar: newGrammarParser(),
		cache:   utils.NewFileCache[*models.SourceFile](),
	}
}

// ParseSource parses C# source code held in memory
func (p *Parser) ParseSource(filename, source string) (*models.SourceFile, error) {
	source = strings.TrimPrefix(source, "\uFEFF")

	unit, err := p.grammar.ParseString(filename, source)
	if err != nil {
		parseErr := errors.WrapParseError(filename, err)
		var perr participle.Error
		if stderrors.As(err, &perr) {
			pos := perr.Position()
			parseErr = errors.WrapParseError(filename, stderrors.New(perr.Message())).
				WithLocation(errors.SourceLocation{File: filename, Line: pos.Line, Column: pos.Column})
		}
		return nil, parseErr
	}

	return convertUnit(filename, unit), nil
}

// ParseFile parses a file from disk, reusing the cached result when the file
// is unchanged.
func (p *Parser) ParseFile(path string) (*models.SourceFile, error) {
	return p.cache.Load(path, func(path string) (*models.SourceFile, error) {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapFileSystemError("read", path, err)
		}
		return p.ParseSource(path, string(content))
	})
}

// ParseFiles parses files concurrently. Files that fail to parse are left out
// of the result and reported in the returned error; the other files are
// still returned in input order.
func (p *Parser) ParseFiles(ctx context.Context, paths []string, concurrency int) ([]*models.SourceFile, error) {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	parsed := make([]*models.SourceFile, len(paths))
	failures := make([]error, len(paths))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	for i, path := range paths {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			parsed[i], failures[i] = p.ParseFile(path)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	files := make([]*models.SourceFile, 0, len(paths))
	errs := errors.NewMultipleErrors()
	for i := range paths {
		if failures[i] != nil {
			errs.Add(failures[i])
			continue
		}
		files = append(files, parsed[i])
	}
	return files, errs.ErrorOrNil()
}

// Invalidate drops the cached parse of path
func (p *Parser) Invalidate(path string) {
	p.cache.Invalidate(path)
}

// CacheStats returns parse cache statistics
func (p *Parser) CacheStats() utils.CacheStats {
	return p.cache.Stats()
}

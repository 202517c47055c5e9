package parser

import (
	"context"

	"github.com/toyz/dudgen/internal/models"
)

// SourceParser defines the interface for parsing C# files into declaration models
type SourceParser interface {
	ParseSource(filename, source string) (*models.SourceFile, error)
	ParseFile(path string) (*models.SourceFile, error)
	ParseFiles(ctx context.Context, paths []string, concurrency int) ([]*models.SourceFile, error)
	Invalidate(path string)
}

// ModuleResolver resolves the namespace a candidate's artifacts are emitted into
type ModuleResolver interface {
	ResolveModule(class models.ClassDecl) (string, error)
}

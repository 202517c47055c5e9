package generator

import (
	"context"

	"github.com/toyz/dudgen/internal/models"
)

// CodeGenerator produces the generated artifacts for candidates
type CodeGenerator interface {
	Generate(candidate models.Candidate) ([]models.GeneratedArtifact, error)
	GenerateAll(ctx context.Context, candidates []models.Candidate) []Result
}

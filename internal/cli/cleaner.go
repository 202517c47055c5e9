package cli

import (
	"os"

	"github.com/toyz/dudgen/internal/errors"
	"github.com/toyz/dudgen/internal/templates"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	scanner *DirectoryScanner
	dryRun  bool
}

// NewCleaner creates a new cleaner. A dry run reports what would be removed.
func NewCleaner(dryRun bool) *Cleaner {
	return &Cleaner{
		scanner: NewDirectoryScanner(),
		dryRun:  dryRun,
	}
}

// CleanGeneratedFiles removes every .g.cs file under patterns whose first
// line is the generated file header. Other files are never touched.
func (c *Cleaner) CleanGeneratedFiles(patterns []string) ([]string, error) {
	candidates, err := c.scanner.ScanGenerated(patterns)
	if err != nil {
		return nil, err
	}

	removed := make([]string, 0, len(candidates))
	errs := errors.NewMultipleErrors()
	for _, path := range candidates {
		generated, err := isGeneratedFile(path)
		if err != nil {
			errs.Add(err)
			continue
		}
		if !generated {
			continue
		}

		if !c.dryRun {
			if err := os.Remove(path); err != nil {
				errs.Add(errors.WrapFileSystemError("remove", path, err))
				continue
			}
		}
		removed = append(removed, path)
	}

	return removed, errs.ErrorOrNil()
}

func isGeneratedFile(path string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, errors.WrapFileSystemError("read", path, err)
	}
	return templates.IsGeneratedContent(string(content)), nil
}

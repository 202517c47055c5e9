package cli

import (
	"github.com/toyz/dudgen/internal/errors"
	"github.com/toyz/dudgen/internal/utils"
)

// DirectoryScanner resolves path patterns into C# files
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// ScanSources returns the hand-written .cs files matched by patterns.
// Supports Go-style patterns like "./..." for recursive scanning.
func (s *DirectoryScanner) ScanSources(patterns []string) ([]string, error) {
	return s.scan(patterns, utils.DefaultSourceFileFilter())
}

// ScanGenerated returns the .g.cs files matched by patterns
func (s *DirectoryScanner) ScanGenerated(patterns []string) ([]string, error) {
	return s.scan(patterns, utils.GeneratedFileFilter())
}

// WatchDirectories returns every directory a watch on patterns has to cover
func (s *DirectoryScanner) WatchDirectories(patterns []string) ([]string, error) {
	var dirs []string
	seen := make(map[string]bool)

	for _, pattern := range defaultPatterns(patterns) {
		root, recursive := utils.SplitPattern(pattern)
		found, err := s.fileProcessor.ListDirectories(root, recursive)
		if err != nil {
			return nil, errors.WrapFileSystemError("scan", root, err)
		}
		for _, dir := range found {
			if !seen[dir] {
				seen[dir] = true
				dirs = append(dirs, dir)
			}
		}
	}
	return dirs, nil
}

func (s *DirectoryScanner) scan(patterns []string, filter utils.FileFilter) ([]string, error) {
	files, err := s.fileProcessor.ScanSourceFiles(defaultPatterns(patterns), filter)
	if err != nil {
		return nil, errors.Wrap(errors.FileSystemErrorCode, "failed to scan source paths", err).
			WithContext("patterns", patterns)
	}
	return files, nil
}

// defaultPatterns scans the working directory recursively when no path is given
func defaultPatterns(patterns []string) []string {
	if len(patterns) == 0 {
		return []string{"./..."}
	}
	return patterns
}

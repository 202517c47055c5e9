package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SourceExtension is the extension of files scanned for declarations
const SourceExtension = ".cs"

// GeneratedExtension marks files written by the generator
const GeneratedExtension = ".g.cs"

// RecursiveSuffix is the Go-style pattern suffix requesting a recursive scan
const RecursiveSuffix = "/..."

// FileProcessor provides utilities for locating source files
type FileProcessor struct{}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info os.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	Recursive       bool
	SkipErrors      bool
}

// DefaultSourceFileFilter accepts .cs files that were not produced by a generator
func DefaultSourceFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}

		name := info.Name()
		return strings.HasSuffix(name, SourceExtension) &&
			!strings.HasSuffix(name, GeneratedExtension) &&
			!strings.HasSuffix(name, ".Designer.cs")
	}
}

// GeneratedFileFilter accepts generated .g.cs files
func GeneratedFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		return !info.IsDir() && strings.HasSuffix(info.Name(), GeneratedExtension)
	}
}

// DefaultDirectoryFilter skips build output, VCS metadata and hidden directories
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"bin":          true,
		"obj":          true,
		"node_modules": true,
		"packages":     true,
		"vendor":       true,
		"testdata":     true,
		"_examples":    true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}

		return !skipDirs[name]
	}
}

// WalkFiles returns the files under rootDir accepted by the options' filters,
// sorted so scans are deterministic.
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matched []string

	err := filepath.WalkDir(rootDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		if entry.IsDir() {
			if path == rootDir {
				return nil
			}
			if !options.Recursive {
				return filepath.SkipDir
			}
			if options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, entry) {
			matched = append(matched, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(matched)
	return matched, nil
}

// ScanSourceFiles resolves path patterns into source files. A pattern ending
// in "/..." is scanned recursively, a directory is scanned on its own and a
// file is taken as is.
func (fp *FileProcessor) ScanSourceFiles(patterns []string, filter FileFilter) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		root, recursive := SplitPattern(pattern)

		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %s: %w", root, err)
		}

		info, err := os.Stat(absRoot)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", absRoot, err)
		}

		var found []string
		if info.IsDir() {
			found, err = fp.WalkFiles(absRoot, FileWalkOptions{
				FileFilter:      filter,
				DirectoryFilter: DefaultDirectoryFilter(),
				Recursive:       recursive,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to scan %s: %w", absRoot, err)
			}
		} else {
			found = []string{absRoot}
		}

		for _, file := range found {
			if !seen[file] {
				seen[file] = true
				files = append(files, file)
			}
		}
	}

	return files, nil
}

// ListDirectories returns root and, when recursive, every directory below
// it that DefaultDirectoryFilter accepts.
func (fp *FileProcessor) ListDirectories(root string, recursive bool) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{filepath.Dir(absRoot)}, nil
	}

	dirs := []string{absRoot}
	if !recursive {
		return dirs, nil
	}

	filter := DefaultDirectoryFilter()
	err = filepath.WalkDir(absRoot, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() || path == absRoot {
			return nil
		}
		if !filter(path, entry) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}

// SplitPattern separates a "./..." style pattern into its root and recursion flag
func SplitPattern(pattern string) (string, bool) {
	if pattern == "..." {
		return ".", true
	}
	if strings.HasSuffix(pattern, RecursiveSuffix) {
		root := strings.TrimSuffix(pattern, RecursiveSuffix)
		if root == "" {
			root = "."
		}
		return root, true
	}
	return pattern, false
}

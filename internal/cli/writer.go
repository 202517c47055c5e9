package cli

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/toyz/dudgen/internal/errors"
	"github.com/toyz/dudgen/internal/models"
	"github.com/toyz/dudgen/internal/templates"
)

// WriteStatus is the outcome of writing one artifact
type WriteStatus int

const (
	StatusWritten WriteStatus = iota
	StatusUnchanged
)

// String returns the string representation of the status
func (s WriteStatus) String() string {
	if s == StatusUnchanged {
		return "unchanged"
	}
	return "written"
}

// WriteResult records where an artifact went
type WriteResult struct {
	Path   string
	Status WriteStatus
}

// FileWriter writes generated artifacts to disk
type FileWriter struct {
	outputDir string
}

// NewFileWriter creates a writer. A non-empty outputDir receives every
// artifact; otherwise artifacts go to their own OutDir.
func NewFileWriter(outputDir string) *FileWriter {
	return &FileWriter{outputDir: outputDir}
}

// Path returns the file an artifact is written to
func (w *FileWriter) Path(artifact models.GeneratedArtifact) string {
	dir := artifact.OutDir
	if w.outputDir != "" {
		dir = w.outputDir
	}
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, artifact.FileName())
}

// Write stores the artifact, leaving the file untouched when its content is
// already current. A hand-written file with the same name is never replaced.
func (w *FileWriter) Write(artifact models.GeneratedArtifact) (WriteResult, error) {
	path := w.Path(artifact)
	result := WriteResult{Path: path, Status: StatusWritten}

	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if bytes.Equal(existing, []byte(artifact.Content)) {
			result.Status = StatusUnchanged
			return result, nil
		}
		if !templates.IsGeneratedContent(string(existing)) {
			return result, errors.Newf(errors.FileSystemErrorCode, "refusing to overwrite '%s': it was not generated", path).
				WithContext("path", path).
				WithSuggestions("Rename or remove the existing file", "Use --output-dir to write generated files elsewhere")
		}
	case !os.IsNotExist(err):
		return result, errors.WrapFileSystemError("read", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return result, errors.WrapFileSystemError("create directory for", path, err)
	}
	if err := os.WriteFile(path, []byte(artifact.Content), 0644); err != nil {
		return result, errors.WrapFileSystemError("write", path, err)
	}
	return result, nil
}

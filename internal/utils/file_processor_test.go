package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestFileProcessor_ScanSourceFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Person.cs":                  "class Person {}",
		"PersonProxy.g.cs":           "// generated",
		"Form.Designer.cs":           "// designer",
		"README.md":                  "# readme",
		"Services/Service.cs":        "class Service {}",
		"bin/Debug/Compiled.cs":      "class Compiled {}",
		"obj/Generated.cs":           "class Generated {}",
		".hidden/Secret.cs":          "class Secret {}",
		"Services/Deep/Deep.cs":      "class Deep {}",
		"Services/Deep/DeepDud.g.cs": "// generated",
	})

	fp := NewFileProcessor()

	t.Run("single directory", func(t *testing.T) {
		files, err := fp.ScanSourceFiles([]string{root}, DefaultSourceFileFilter())
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "Person.cs")}, files)
	})

	t.Run("recursive pattern", func(t *testing.T) {
		files, err := fp.ScanSourceFiles([]string{root + "/..."}, DefaultSourceFileFilter())
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "Person.cs"),
			filepath.Join(root, "Services", "Deep", "Deep.cs"),
			filepath.Join(root, "Services", "Service.cs"),
		}, files)
	})

	t.Run("generated files", func(t *testing.T) {
		files, err := fp.ScanSourceFiles([]string{root + "/..."}, GeneratedFileFilter())
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "PersonProxy.g.cs"),
			filepath.Join(root, "Services", "Deep", "DeepDud.g.cs"),
		}, files)
	})

	t.Run("explicit file and duplicates", func(t *testing.T) {
		file := filepath.Join(root, "Services", "Service.cs")
		files, err := fp.ScanSourceFiles([]string{file, root + "/Services/..."}, DefaultSourceFileFilter())
		require.NoError(t, err)
		assert.Equal(t, []string{file, filepath.Join(root, "Services", "Deep", "Deep.cs")}, files)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := fp.ScanSourceFiles([]string{filepath.Join(root, "missing")}, DefaultSourceFileFilter())
		assert.Error(t, err)
	})
}

func TestSplitPattern(t *testing.T) {
	tests := []struct {
		pattern   string
		root      string
		recursive bool
	}{
		{"./...", ".", true},
		{"...", ".", true},
		{"/...", ".", true},
		{"src/...", "src", true},
		{"src", "src", false},
		{".", ".", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			root, recursive := SplitPattern(tt.pattern)
			assert.Equal(t, tt.root, root)
			assert.Equal(t, tt.recursive, recursive)
		})
	}
}

func TestFileProcessor_ListDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Person.cs":             "class Person {}",
		"Services/Deep/Deep.cs": "class Deep {}",
		"bin/Debug/Compiled.cs": "class Compiled {}",
		".git/config":           "",
	})

	fp := NewFileProcessor()

	dirs, err := fp.ListDirectories(root, true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		root,
		filepath.Join(root, "Services"),
		filepath.Join(root, "Services", "Deep"),
	}, dirs)

	dirs, err = fp.ListDirectories(root, false)
	require.NoError(t, err)
	assert.Equal(t, []string{root}, dirs)

	dirs, err = fp.ListDirectories(filepath.Join(root, "Person.cs"), true)
	require.NoError(t, err)
	assert.Equal(t, []string{root}, dirs)
}

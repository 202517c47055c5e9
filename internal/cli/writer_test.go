package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/dudgen/internal/errors"
	"github.com/toyz/dudgen/internal/models"
)

const generatedContent = "// <auto-generated/>\n\nnamespace Shop;\n"

func TestFileWriter_Path(t *testing.T) {
	artifact := models.GeneratedArtifact{Key: "OrderServiceProxy", OutDir: filepath.Join("src", "Services")}

	assert.Equal(t, filepath.Join("src", "Services", "OrderServiceProxy.g.cs"), NewFileWriter("").Path(artifact))
	assert.Equal(t, filepath.Join("Generated", "OrderServiceProxy.g.cs"), NewFileWriter("Generated").Path(artifact))
	assert.Equal(t, "OrderServiceProxy.g.cs", NewFileWriter("").Path(models.GeneratedArtifact{Key: "OrderServiceProxy"}))
}

func TestFileWriter_Write(t *testing.T) {
	dir := t.TempDir()
	writer := NewFileWriter("")
	artifact := models.GeneratedArtifact{
		Key:     "OrderServiceDud",
		Content: generatedContent,
		OutDir:  filepath.Join(dir, "Nested"),
	}

	result, err := writer.Write(artifact)
	require.NoError(t, err)
	assert.Equal(t, StatusWritten, result.Status)
	assert.Equal(t, filepath.Join(dir, "Nested", "OrderServiceDud.g.cs"), result.Path)

	written, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Equal(t, generatedContent, string(written))

	result, err = writer.Write(artifact)
	require.NoError(t, err)
	assert.Equal(t, StatusUnchanged, result.Status)

	artifact.Content = generatedContent + "// changed\n"
	result, err = writer.Write(artifact)
	require.NoError(t, err)
	assert.Equal(t, StatusWritten, result.Status)
}

func TestFileWriter_RefusesHandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "OrderServiceProxy.g.cs")
	handWritten := "namespace Shop;\n\npublic class OrderServiceProxy {}\n"
	writeFile(t, path, handWritten)

	_, err := NewFileWriter(dir).Write(models.GeneratedArtifact{Key: "OrderServiceProxy", Content: generatedContent})
	require.Error(t, err)
	assert.Equal(t, errors.FileSystemErrorCode, errors.CodeOf(err))

	kept, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, handWritten, string(kept))
}

func TestWriteStatus_String(t *testing.T) {
	assert.Equal(t, "written", StatusWritten.String())
	assert.Equal(t, "unchanged", StatusUnchanged.String())
}

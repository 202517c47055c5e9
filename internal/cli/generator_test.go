package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/dudgen/internal/errors"
	"github.com/toyz/dudgen/internal/utils"
)

const clockSource = `using System;

namespace Shop;

public interface IClock
{
    DateTime Now { get; }
    void Reset();
}

[ProxyService]
public class Clock : IClock
{
    public DateTime Now => DateTime.UtcNow;
    public void Reset() { }
}
`

func newTestGenerator(t *testing.T, modify func(*Config)) (*Generator, *bytes.Buffer) {
	t.Helper()
	cfg := DefaultConfig()
	if modify != nil {
		modify(cfg)
	}

	var out bytes.Buffer
	diagnostics := utils.NewDiagnosticSystem(utils.DiagnosticDebug)
	diagnostics.SetOutput(&out, &out)

	generator, err := NewGenerator(cfg, diagnostics)
	require.NoError(t, err)
	return generator, &out
}

func TestGenerator_Run(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Clock.cs"), clockSource)
	writeFile(t, filepath.Join(root, "Plain.cs"), "namespace Shop;\npublic class Plain { }\n")

	generator, out := newTestGenerator(t, nil)

	summary, err := generator.Run(context.Background(), []string{root})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.FilesScanned)
	assert.Equal(t, 2, summary.FilesParsed)
	assert.Equal(t, 1, summary.Candidates)
	assert.Equal(t, 2, summary.Written)
	assert.Equal(t, 0, summary.Unchanged)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, []string{
		filepath.Join(root, "ClockProxy.g.cs"),
		filepath.Join(root, "ClockDud.g.cs"),
	}, summary.Files)
	assert.Contains(t, out.String(), "[VERBOSE] Wrote "+filepath.Join(root, "ClockProxy.g.cs"))

	summary, err = generator.Run(context.Background(), []string{root})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Written)
	assert.Equal(t, 2, summary.Unchanged)
}

func TestGenerator_Run_OutputDirAndNamespace(t *testing.T) {
	root := t.TempDir()
	outDir := filepath.Join(root, "Generated")
	writeFile(t, filepath.Join(root, "Clock.cs"), clockSource)

	generator, _ := newTestGenerator(t, func(cfg *Config) {
		cfg.OutputDir = outDir
		cfg.Namespace = "Shop.Generated"
		cfg.Variants = []string{"dud"}
	})

	summary, err := generator.Run(context.Background(), []string{root})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(outDir, "ClockDud.g.cs")}, summary.Files)

	content, err := os.ReadFile(summary.Files[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "namespace Shop.Generated;\n")
	assert.Contains(t, string(content), "using System;\nusing Shop;\n")
}

func TestGenerator_Run_ReportsNotices(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Lonely.cs"), "namespace Shop;\n[ProxyService]\npublic class Lonely { }\n")

	generator, out := newTestGenerator(t, nil)

	summary, err := generator.Run(context.Background(), []string{root})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Candidates)
	assert.Contains(t, out.String(), "[INFO] "+filepath.Join(root, "Lonely.cs")+":3:")
	assert.Contains(t, out.String(), "Lonely has no governing interface, skipped")
	assert.Contains(t, out.String(), "No classes marked for generation were found")
}

func TestGenerator_Run_Manifest(t *testing.T) {
	root := t.TempDir()
	manifestPath := filepath.Join(root, "targets.yaml")
	writeFile(t, manifestPath, `targets:
  - name: Clock
    interface: IClock
    module: Shop
    members:
      - {kind: method, name: Reset}
`)

	generator, _ := newTestGenerator(t, func(cfg *Config) {
		cfg.Manifests = []string{manifestPath}
	})

	summary, err := generator.Run(context.Background(), []string{root})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Candidates)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "ClockProxy.g.cs"),
		filepath.Join(root, "ClockDud.g.cs"),
	}, summary.Files)
}

func TestGenerator_Run_InvalidManifest(t *testing.T) {
	root := t.TempDir()
	manifestPath := filepath.Join(root, "targets.yaml")
	writeFile(t, manifestPath, "targets:\n  - interface: IClock\n")
	writeFile(t, filepath.Join(root, "Clock.cs"), clockSource)

	generator, _ := newTestGenerator(t, func(cfg *Config) {
		cfg.Manifests = []string{manifestPath}
	})

	summary, err := generator.Run(context.Background(), []string{root})
	require.Error(t, err)
	assert.Equal(t, errors.ValidationErrorCode, errors.CodeOf(err))
	assert.Equal(t, 2, summary.Written)
}

func TestGenerator_Run_RefusesHandWrittenOutput(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Clock.cs"), clockSource)
	writeFile(t, filepath.Join(root, "ClockDud.g.cs"), "public class ClockDud { }\n")

	generator, _ := newTestGenerator(t, nil)

	summary, err := generator.Run(context.Background(), []string{root})
	require.Error(t, err)
	assert.Equal(t, errors.FileSystemErrorCode, errors.CodeOf(err))
	assert.Equal(t, 1, summary.Written)
}

func TestGenerator_Run_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Clock.cs"), clockSource)

	generator, _ := newTestGenerator(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := generator.Run(ctx, []string{root})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerationSummary_Stats(t *testing.T) {
	stats := GenerationSummary{FilesScanned: 3, Written: 2, Unchanged: 1}.Stats()
	assert.Equal(t, 3, stats["Files scanned"])
	assert.Equal(t, 2, stats["Files written"])
	assert.Equal(t, 1, stats["Files unchanged"])
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "1 file", pluralize(1, "file"))
	assert.Equal(t, "0 files", pluralize(0, "file"))
	assert.Equal(t, "3 candidates", pluralize(3, "candidate"))
}

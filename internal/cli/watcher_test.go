package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSourceEvent(t *testing.T) {
	tests := []struct {
		name     string
		event    fsnotify.Event
		expected bool
	}{
		{name: "write", event: fsnotify.Event{Name: "Services/Clock.cs", Op: fsnotify.Write}, expected: true},
		{name: "create", event: fsnotify.Event{Name: "Clock.cs", Op: fsnotify.Create}, expected: true},
		{name: "remove", event: fsnotify.Event{Name: "Clock.cs", Op: fsnotify.Remove}, expected: true},
		{name: "rename", event: fsnotify.Event{Name: "Clock.cs", Op: fsnotify.Rename}, expected: true},
		{name: "chmod only", event: fsnotify.Event{Name: "Clock.cs", Op: fsnotify.Chmod}, expected: false},
		{name: "generated file", event: fsnotify.Event{Name: "ClockProxy.g.cs", Op: fsnotify.Write}, expected: false},
		{name: "other extension", event: fsnotify.Event{Name: "Clock.csproj", Op: fsnotify.Write}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsSourceEvent(tt.event))
		})
	}
}

func TestWatcher_RegeneratesOnChange(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "Clock.cs")
	writeFile(t, source, clockSource)

	generator, _ := newTestGenerator(t, func(cfg *Config) {
		cfg.Variants = []string{"dud"}
	})
	watcher := NewWatcher(generator, []string{root + "/..."}, 20*time.Millisecond, generator.diagnostics)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Watch(ctx) }()

	dud := filepath.Join(root, "ClockDud.g.cs")
	require.Eventually(t, func() bool {
		_, err := os.Stat(dud)
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)

	updated := strings.Replace(clockSource, "void Reset();", "void Reset();\n    int Drift();", 1)
	require.NoError(t, os.WriteFile(source, []byte(updated), 0644))

	assert.Eventually(t, func() bool {
		content, err := os.ReadFile(dud)
		return err == nil && strings.Contains(string(content), "public int Drift()")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}

const clockManifest = `targets:
  - name: Clock
    interface: IClock
    module: Shop
    members:
      - {kind: method, name: Reset, returns: void}
`

func TestWatcher_RegeneratesOnManifestChange(t *testing.T) {
	root := t.TempDir()
	sources := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(sources, 0755))
	targets := filepath.Join(root, "contracts", "targets.yaml")
	writeFile(t, targets, clockManifest)

	generator, _ := newTestGenerator(t, func(cfg *Config) {
		cfg.Variants = []string{"dud"}
		cfg.Manifests = []string{targets}
	})
	watcher := NewWatcher(generator, []string{sources}, 20*time.Millisecond, generator.diagnostics)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Watch(ctx) }()

	dud := filepath.Join(root, "contracts", "ClockDud.g.cs")
	require.Eventually(t, func() bool {
		_, err := os.Stat(dud)
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)

	updated := clockManifest + "      - {kind: method, name: Drift, returns: int}\n"
	require.NoError(t, os.WriteFile(targets, []byte(updated), 0644))

	assert.Eventually(t, func() bool {
		content, err := os.ReadFile(dud)
		return err == nil && strings.Contains(string(content), "public int Drift()")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}

package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"clipmark/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Storage defaults to the in-memory backend and playback to the recorder.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Export.OutputDir = filepath.Join(base, "exports")
	cfgVal.Storage.Backend = "memory"
	cfgVal.Playback.Backend = "none"
	cfgVal.Validation.CheckAvailability = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithStorageBackend selects the persistence backend.
func WithStorageBackend(backend string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Storage.Backend = backend
	}
}

// WithMaxValueBytes overrides the storage quota.
func WithMaxValueBytes(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Storage.MaxValueBytes = n
	}
}

// WithDebounceMillis overrides the edit quiescence window.
func WithDebounceMillis(ms int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Editor.DebounceMillis = ms
	}
}

// WithStubbedBinaries writes stub executables and prepends them to PATH.
// scripts maps a binary name to its shell body.
func WithStubbedBinaries(scripts map[string]string) ConfigOption {
	return func(b *configBuilder) {
		StubBinaries(b.t, filepath.Join(b.baseDir, "bin"), scripts)
	}
}

// StubBinaries writes scripts into dir as executables and prepends dir to
// PATH for the duration of the test.
func StubBinaries(t testing.TB, dir string, scripts map[string]string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	for name, body := range scripts {
		script := []byte("#!/bin/sh\n" + body + "\n")
		if err := os.WriteFile(filepath.Join(dir, name), script, 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"clipmark/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if want := filepath.Join(tempHome, ".local", "share", "clipmark"); cfg.Paths.DataDir != want {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, want)
	}
	if cfg.Storage.Backend != "file" {
		t.Fatalf("unexpected default backend %q", cfg.Storage.Backend)
	}
	if cfg.Storage.KeyPrefix != "video_storage_" {
		t.Fatalf("unexpected key prefix %q", cfg.Storage.KeyPrefix)
	}
	if cfg.DebounceWindow() != time.Second {
		t.Fatalf("unexpected debounce window %v", cfg.DebounceWindow())
	}
	if cfg.StorageTTL() != 30*24*time.Hour {
		t.Fatalf("unexpected ttl %v", cfg.StorageTTL())
	}
	if cfg.Editor.PlaceholderDuration != 100 {
		t.Fatalf("unexpected placeholder duration %v", cfg.Editor.PlaceholderDuration)
	}
}

func TestLoadCustomConfigFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("CLIPMARK_REDIS_PASSWORD", "from-env")

	custom := config.Default()
	custom.Paths.DataDir = "~/clips"
	custom.Storage.Backend = "Redis"
	custom.Storage.RedisAddr = "cache:6379"
	custom.Editor.DebounceMillis = 250
	custom.Logging.Format = "JSON"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(tempHome, "clipmark.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution %q %v", resolved, exists)
	}
	if cfg.Paths.DataDir != filepath.Join(tempHome, "clips") {
		t.Fatalf("unexpected data dir %q", cfg.Paths.DataDir)
	}
	if cfg.Storage.Backend != "redis" || cfg.Storage.RedisPassword != "from-env" {
		t.Fatalf("unexpected storage config %#v", cfg.Storage)
	}
	if cfg.DebounceWindow() != 250*time.Millisecond {
		t.Fatalf("unexpected debounce %v", cfg.DebounceWindow())
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized log format, got %q", cfg.Logging.Format)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"backend", func(c *config.Config) { c.Storage.Backend = "cookie" }, "storage.backend"},
		{"redis addr", func(c *config.Config) { c.Storage.Backend = "redis"; c.Storage.RedisAddr = "" }, "storage.redis_addr"},
		{"ttl", func(c *config.Config) { c.Storage.TTLDays = 0 }, "storage.ttl_days"},
		{"debounce", func(c *config.Config) { c.Editor.DebounceMillis = 0 }, "editor.debounce_ms"},
		{"mpv socket", func(c *config.Config) { c.Playback.Backend = "mpv" }, "playback.mpv_socket"},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config failed to load: exists=%v err=%v", exists, err)
	}
}

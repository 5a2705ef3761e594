package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"clipmark/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
	APIBind string `toml:"api_bind"`
}

// Storage selects and tunes the persistence adapter.
type Storage struct {
	// Backend is one of "file", "sqlite", "redis", or "memory".
	Backend       string `toml:"backend"`
	KeyPrefix     string `toml:"key_prefix"`
	TTLDays       int    `toml:"ttl_days"`
	MaxValueBytes int    `toml:"max_value_bytes"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// Editor contains clip editing behaviour.
type Editor struct {
	DebounceMillis int `toml:"debounce_ms"`
	// PlaceholderDuration is used until the player reports the real duration.
	PlaceholderDuration float64 `toml:"placeholder_duration"`
}

// Playback wires the external player.
type Playback struct {
	// Backend is "none" (headless recorder) or "mpv".
	Backend   string `toml:"backend"`
	MPVSocket string `toml:"mpv_socket"`
	SeekAhead bool   `toml:"seek_ahead"`
}

// Validation configures video identifier checks.
type Validation struct {
	CheckAvailability bool   `toml:"check_availability"`
	OEmbedURL         string `toml:"oembed_url"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
}

// Export configures clip export through ffmpeg.
type Export struct {
	OutputDir string `toml:"output_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for clipmark.
//
// Configuration sections by subsystem:
//   - Paths: data and log directories, local API bind address
//   - Storage: persistence adapter selection, key prefix, TTL, quota
//   - Editor: debounce window and placeholder duration
//   - Playback: external player wiring
//   - Validation: video identifier availability checks
//   - Export: clip export output directory
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Storage    Storage    `toml:"storage"`
	Editor     Editor     `toml:"editor"`
	Playback   Playback   `toml:"playback"`
	Validation Validation `toml:"validation"`
	Export     Export     `toml:"export"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("clipmark.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DebounceWindow returns the quiescence window for persisted clip edits.
func (c *Config) DebounceWindow() time.Duration {
	return time.Duration(c.Editor.DebounceMillis) * time.Millisecond
}

// StorageTTL returns how long persisted entries live.
func (c *Config) StorageTTL() time.Duration {
	return time.Duration(c.Storage.TTLDays) * 24 * time.Hour
}

// ValidationTimeout returns the availability check timeout.
func (c *Config) ValidationTimeout() time.Duration {
	return time.Duration(c.Validation.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := fileutil.WriteFileAtomic(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

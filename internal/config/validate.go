package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateEditor(); err != nil {
		return err
	}
	if err := c.validatePlayback(); err != nil {
		return err
	}
	if err := c.validateValidation(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case "file", "sqlite", "memory":
	case "redis":
		if c.Storage.RedisAddr == "" {
			return errors.New("storage.redis_addr must be set when storage.backend is redis")
		}
		if c.Storage.RedisDB < 0 {
			return errors.New("storage.redis_db must be non-negative")
		}
	default:
		return fmt.Errorf("storage.backend: unsupported value %q (use file, sqlite, redis, or memory)", c.Storage.Backend)
	}
	if c.Storage.TTLDays <= 0 {
		return errors.New("storage.ttl_days must be positive")
	}
	if c.Storage.MaxValueBytes < 0 {
		return errors.New("storage.max_value_bytes must be zero (unlimited) or positive")
	}
	return nil
}

func (c *Config) validateEditor() error {
	if c.Editor.DebounceMillis <= 0 {
		return errors.New("editor.debounce_ms must be positive")
	}
	if c.Editor.PlaceholderDuration <= 0 {
		return errors.New("editor.placeholder_duration must be positive")
	}
	return nil
}

func (c *Config) validatePlayback() error {
	switch c.Playback.Backend {
	case "none":
		return nil
	case "mpv":
		if strings.TrimSpace(c.Playback.MPVSocket) == "" {
			return errors.New("playback.mpv_socket must be set when playback.backend is mpv")
		}
		return nil
	default:
		return fmt.Errorf("playback.backend: unsupported value %q (use none or mpv)", c.Playback.Backend)
	}
}

func (c *Config) validateValidation() error {
	if c.Validation.CheckAvailability && c.Validation.OEmbedURL == "" {
		return errors.New("validation.oembed_url must be set when validation.check_availability is true")
	}
	if c.Validation.TimeoutSeconds <= 0 {
		return errors.New("validation.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

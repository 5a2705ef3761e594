package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStorage()
	c.normalizePlayback()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	if strings.TrimSpace(c.Export.OutputDir) == "" {
		c.Export.OutputDir = defaultExportDir
	}
	if c.Export.OutputDir, err = expandPath(c.Export.OutputDir); err != nil {
		return fmt.Errorf("export.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Playback.MPVSocket) != "" {
		if c.Playback.MPVSocket, err = expandPath(c.Playback.MPVSocket); err != nil {
			return fmt.Errorf("playback.mpv_socket: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeStorage() {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaultStorageBackend
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = defaultKeyPrefix
	}
	c.Storage.RedisAddr = strings.TrimSpace(c.Storage.RedisAddr)
	if c.Storage.RedisPassword == "" {
		if value, ok := os.LookupEnv("CLIPMARK_REDIS_PASSWORD"); ok {
			c.Storage.RedisPassword = strings.TrimSpace(value)
		}
	}
	if value, ok := os.LookupEnv("CLIPMARK_REDIS_ADDR"); ok && strings.TrimSpace(value) != "" {
		c.Storage.RedisAddr = strings.TrimSpace(value)
	}
}

func (c *Config) normalizePlayback() {
	c.Playback.Backend = strings.ToLower(strings.TrimSpace(c.Playback.Backend))
	if c.Playback.Backend == "" {
		c.Playback.Backend = defaultPlaybackBackend
	}
	c.Validation.OEmbedURL = strings.TrimSpace(c.Validation.OEmbedURL)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

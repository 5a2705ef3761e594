package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"clipmark/internal/clips"
	"clipmark/internal/config"
	"clipmark/internal/export"
	"clipmark/internal/library"
	"clipmark/internal/logging"
	"clipmark/internal/storage"
	"clipmark/internal/timecode"
	"clipmark/internal/videoid"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// openLibrary opens the configured storage and returns a library plus the
// function that closes the adapter.
func (c *commandContext) openLibrary(ctx context.Context, logger *slog.Logger) (*library.Library, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	adapter, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	lib := library.FromConfig(cfg, adapter, logger)
	return lib, func() { _ = adapter.Close() }, nil
}

// withLibrary runs fn with a library backed by the configured storage,
// logging to stderr and the log file.
func (c *commandContext) withLibrary(cmd *cobra.Command, fn func(*library.Library, *slog.Logger) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	lib, closeFn, err := c.openLibrary(cmd.Context(), logger)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(lib, logger)
}

// resolveVideo turns user input into a video id and initial metadata. A
// path to a local file is accepted as is and probed for its duration;
// anything else must be a valid video id or URL.
func (c *commandContext) resolveVideo(ctx context.Context, input string, logger *slog.Logger) (string, clips.Metadata, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", clips.Metadata{}, err
	}
	meta := clips.Metadata{Duration: cfg.Editor.PlaceholderDuration}

	if info, statErr := os.Stat(input); statErr == nil && info.Mode().IsRegular() {
		abs, err := filepath.Abs(input)
		if err != nil {
			return "", clips.Metadata{}, fmt.Errorf("resolve %s: %w", input, err)
		}
		meta.VideoID = abs
		meta.Name = filepath.Base(abs)
		if duration, err := export.Probe(ctx, abs); err != nil {
			logging.WarnWithContext(logger, "media probe failed", "probe_failed",
				logging.String("path", abs),
				logging.Error(err),
				logging.String(logging.FieldImpact, "clips are bounded by the placeholder duration"),
				logging.String(logging.FieldErrorHint, "install ffprobe or set editor.placeholder_duration"))
		} else {
			meta.Duration = duration
		}
		return abs, meta, nil
	}

	var opts []videoid.Option
	if !cfg.Validation.CheckAvailability {
		opts = append(opts, videoid.WithoutAvailabilityCheck())
	}
	validator := videoid.NewValidator(cfg.Validation.OEmbedURL, cfg.ValidationTimeout(), opts...)
	res := validator.Validate(ctx, input)
	if !res.Valid {
		return "", clips.Metadata{}, fmt.Errorf("video %q: %s", input, res.Error)
	}
	meta.VideoID = res.ID
	return res.ID, meta, nil
}

// parseSeconds accepts either HH:MM:SS.mmm or plain seconds.
func parseSeconds(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if strings.Contains(value, ":") {
		return timecode.Parse(value), nil
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: use seconds or HH:MM:SS.mmm", value)
	}
	return seconds, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

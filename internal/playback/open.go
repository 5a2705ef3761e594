package playback

import (
	"fmt"
	"log/slog"

	"clipmark/internal/config"
)

// Open builds the surface selected by cfg.Playback.Backend. The "none"
// backend returns a Recorder, which never reports a duration on its own.
func Open(cfg *config.Config, logger *slog.Logger) (Surface, error) {
	switch cfg.Playback.Backend {
	case "none", "":
		return NewRecorder(0), nil
	case "mpv":
		return DialMPV(cfg.Playback.MPVSocket, logger)
	default:
		return nil, fmt.Errorf("playback: unsupported backend %q", cfg.Playback.Backend)
	}
}

package testsupport

import (
	"context"
	"testing"

	"clipmark/internal/clips"
	"clipmark/internal/config"
	"clipmark/internal/library"
	"clipmark/internal/logging"
	"clipmark/internal/storage"
)

// MustOpenLibrary opens the configured adapter and wraps it in a Library.
// The adapter is closed on cleanup.
func MustOpenLibrary(t testing.TB, cfg *config.Config) (*library.Library, storage.Adapter) {
	t.Helper()

	adapter, err := storage.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = adapter.Close()
	})
	return library.FromConfig(cfg, adapter, logging.NewNop()), adapter
}

// MustOpenVideo opens videoID with the given duration and adds clips.
func MustOpenVideo(t testing.TB, lib *library.Library, videoID string, duration float64, seed ...clips.Clip) {
	t.Helper()

	ctx := context.Background()
	if _, err := lib.Open(ctx, videoID, clips.Metadata{Duration: duration}); err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	for _, c := range seed {
		if err := lib.AddClip(ctx, videoID, c); err != nil {
			t.Fatalf("library.AddClip %s: %v", c.ID, err)
		}
	}
}

package editsync

import (
	"context"
	"errors"
	"testing"
	"time"

	"clipmark/internal/clips"
	"clipmark/internal/library"
	"clipmark/internal/logging"
	"clipmark/internal/storage"
)

func TestWriteTakenBeforeCloseIsDropped(t *testing.T) {
	ctx := context.Background()
	lib := library.New(nil, storage.NewMemory(), library.Options{Logger: logging.NewNop()})
	if _, err := lib.Open(ctx, "v1", clips.Metadata{Duration: 100}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := lib.AddClip(ctx, "v1", clips.Clip{ID: "c1", Start: 0, End: 100}); err != nil {
		t.Fatalf("AddClip: %v", err)
	}
	c, err := New(Options{VideoID: "v1", Library: lib, Debounce: time.Hour, Logger: logging.NewNop()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Select(ctx, "c1"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if _, err := c.ApplyValue("c1", Start, 30); err != nil {
		t.Fatalf("ApplyValue: %v", err)
	}

	// A timer that already fired holds its slot while Close runs.
	c.mu.Lock()
	slot := c.takeLocked("c1")
	c.mu.Unlock()
	if slot == nil {
		t.Fatal("expected a pending slot")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := c.write(ctx, slot); !errors.Is(err, ErrClosed) {
		t.Fatalf("write after close = %v, want ErrClosed", err)
	}
	v, _, err := lib.Stored(ctx, "v1")
	if err != nil {
		t.Fatalf("Stored: %v", err)
	}
	if len(v.Clips) != 1 || v.Clips[0].Start != 0 {
		t.Fatalf("stored clips changed after close: %+v", v.Clips)
	}
}

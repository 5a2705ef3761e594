package playback_test

import (
	"errors"
	"testing"

	"clipmark/internal/playback"
)

func TestStateLabels(t *testing.T) {
	tests := []struct {
		state    playback.State
		label    string
		active   bool
		inactive bool
	}{
		{playback.Unstarted, "Unstarted", false, true},
		{playback.Ended, "Ended", false, true},
		{playback.Playing, "Playing", true, false},
		{playback.Paused, "Paused", false, false},
		{playback.Buffering, "Buffering", false, false},
		{playback.Cued, "Cued", false, false},
	}
	for _, tc := range tests {
		if got := tc.state.Label(); got != tc.label {
			t.Fatalf("%d label = %q, want %q", int(tc.state), got, tc.label)
		}
		if tc.state.Active() != tc.active || tc.state.Inactive() != tc.inactive {
			t.Fatalf("%s active/inactive mismatch", tc.state)
		}
	}
	if got, err := playback.ParseState("5"); err != nil || got != playback.Cued {
		t.Fatalf("ParseState(5) = %v, %v", got, err)
	}
	if got, err := playback.ParseState(" Paused "); err != nil || got != playback.Paused {
		t.Fatalf("ParseState(Paused) = %v, %v", got, err)
	}
	if _, err := playback.ParseState("rewinding"); err == nil {
		t.Fatal("expected error for unknown state")
	}
}

func TestHandleWithoutSurface(t *testing.T) {
	h := playback.NewHandle()
	if err := h.Seek(1, true); !errors.Is(err, playback.ErrNoSurface) {
		t.Fatalf("Seek: expected ErrNoSurface, got %v", err)
	}
	if _, err := h.State(); !errors.Is(err, playback.ErrNoSurface) {
		t.Fatalf("State: expected ErrNoSurface, got %v", err)
	}
	if err := h.Play(); !errors.Is(err, playback.ErrNoSurface) {
		t.Fatalf("Play: expected ErrNoSurface, got %v", err)
	}
	if _, err := h.Duration(); !errors.Is(err, playback.ErrNoSurface) {
		t.Fatalf("Duration: expected ErrNoSurface, got %v", err)
	}
}

func TestHandleAcquireRelease(t *testing.T) {
	h := playback.NewHandle()
	rec := playback.NewRecorder(90)
	if err := h.Acquire(rec); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := h.Acquire(playback.NewRecorder(1)); !errors.Is(err, playback.ErrSurfaceAttached) {
		t.Fatalf("expected ErrSurfaceAttached, got %v", err)
	}
	if err := h.Seek(12.5, false); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if got, _ := rec.LastSeek(); got != (playback.SeekCall{Seconds: 12.5}) {
		t.Fatalf("unexpected seek %+v", got)
	}
	if released := h.Release(); released != rec {
		t.Fatalf("Release returned %v", released)
	}
	if h.Attached() {
		t.Fatal("handle should be empty after release")
	}
	if err := h.Play(); !errors.Is(err, playback.ErrNoSurface) {
		t.Fatalf("expected ErrNoSurface after release, got %v", err)
	}
}

func TestRecorderNotifications(t *testing.T) {
	rec := playback.NewRecorder(212)
	var events []playback.Event
	rec.Notify(func(ev playback.Event) { events = append(events, ev) })

	if err := rec.LoadByID("dQw4w9WgXcQ"); err != nil {
		t.Fatalf("LoadByID: %v", err)
	}
	_ = rec.Play()
	_ = rec.Play()
	_ = rec.Stop()

	want := []playback.Event{
		{Kind: playback.EventStateChange, State: playback.Buffering},
		{Kind: playback.EventReady, Duration: 212},
		{Kind: playback.EventStateChange, State: playback.Playing},
		{Kind: playback.EventStateChange, State: playback.Ended},
	}
	if len(events) != len(want) {
		t.Fatalf("events = %+v, want %+v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("event %d = %+v, want %+v", i, events[i], want[i])
		}
	}
	if rec.Loaded() != "dQw4w9WgXcQ" {
		t.Fatalf("unexpected loaded id %q", rec.Loaded())
	}
}

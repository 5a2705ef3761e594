package tui_test

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"clipmark/internal/clips"
	"clipmark/internal/editsync"
	"clipmark/internal/library"
	"clipmark/internal/logging"
	"clipmark/internal/playback"
	"clipmark/internal/storage"
	"clipmark/internal/testsupport"
	"clipmark/internal/tui"
)

type session struct {
	lib      *library.Library
	recorder *playback.Recorder
	ctrl     *editsync.Controller
}

func newSession(t *testing.T, duration float64, seed ...clips.Clip) *session {
	t.Helper()
	lib := library.New(nil, storage.NewMemory(), library.Options{Logger: logging.NewNop()})
	testsupport.MustOpenVideo(t, lib, "v1", duration, seed...)

	recorder := playback.NewRecorder(duration)
	handle := playback.NewHandle()
	if err := handle.Acquire(recorder); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	ctrl, err := editsync.New(editsync.Options{
		VideoID:  "v1",
		Library:  lib,
		Player:   handle,
		Debounce: time.Second,
		Clock:    testsupport.NewFakeClock(),
		Logger:   logging.NewNop(),
	})
	if err != nil {
		t.Fatalf("editsync.New: %v", err)
	}
	t.Cleanup(func() { _ = ctrl.Close() })
	return &session{lib: lib, recorder: recorder, ctrl: ctrl}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m tui.Model, keys ...string) (tui.Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(tui.Model)
	}
	return m, cmd
}

func (s *session) clip(t *testing.T, id string) clips.Clip {
	t.Helper()
	c, ok := s.ctrl.Clip(id)
	if !ok {
		t.Fatalf("clip %s missing", id)
	}
	return c
}

func TestNewModelSelectsFirstClip(t *testing.T) {
	s := newSession(t, 3600, clips.Clip{ID: "a", End: 60}, clips.Clip{ID: "b", Start: 90, End: 120})
	tui.NewModel(s.ctrl)
	if got := s.ctrl.Selected(); got != "a" {
		t.Fatalf("expected a selected, got %q", got)
	}
}

func TestDigitsEditActiveEndpoint(t *testing.T) {
	s := newSession(t, 3600, clips.Clip{ID: "a", End: 60})
	m := tui.NewModel(s.ctrl)

	m, _ = press(t, m, "tab", "0", "0", "1")
	if m.Endpoint() != editsync.End {
		t.Fatalf("expected end endpoint after tab")
	}
	if got := s.clip(t, "a"); got.End != 660 || got.Start != 0 {
		t.Fatalf("expected end 00:11:00.000, got %+v", got)
	}
	if m.Cursor() != 4 {
		t.Fatalf("expected cursor on minute units, got %d", m.Cursor())
	}
	if len(s.ctrl.Pending()) != 1 {
		t.Fatalf("expected a pending write")
	}
}

func TestStepAndClear(t *testing.T) {
	s := newSession(t, 3600, clips.Clip{ID: "a", Start: 10, End: 600})
	m := tui.NewModel(s.ctrl)

	m, _ = press(t, m, "right", "right", "right", "up")
	if got := s.clip(t, "a"); got.Start != 70 {
		t.Fatalf("expected start stepped by a minute to 70, got %+v", got)
	}
	m, _ = press(t, m, "down", "down")
	if got := s.clip(t, "a"); got.Start != 0 {
		t.Fatalf("expected start clamped at 0, got %+v", got)
	}

	m, _ = press(t, m, "tab", "right", "right", "backspace")
	if got := s.clip(t, "a"); got.End != 0 {
		t.Fatalf("expected minute tens cleared to 0, got %+v", got)
	}
	if m.Cursor() != 1 {
		t.Fatalf("expected cursor to move left after clear, got %d", m.Cursor())
	}
}

func TestSelectionKeys(t *testing.T) {
	s := newSession(t, 3600, clips.Clip{ID: "a", End: 60}, clips.Clip{ID: "b", Start: 90, End: 120})
	m := tui.NewModel(s.ctrl)

	m, _ = press(t, m, "j")
	if got := s.ctrl.Selected(); got != "b" {
		t.Fatalf("expected b, got %q", got)
	}
	m, _ = press(t, m, "j")
	if got := s.ctrl.Selected(); got != "b" {
		t.Fatalf("selection should stop at the last clip, got %q", got)
	}
	press(t, m, "k")
	if got := s.ctrl.Selected(); got != "a" {
		t.Fatalf("expected a, got %q", got)
	}
}

func TestAddAndDelete(t *testing.T) {
	s := newSession(t, 300)
	m := tui.NewModel(s.ctrl)

	m, _ = press(t, m, "a")
	list := s.ctrl.Clips()
	if len(list) != 1 || list[0].End != 300 {
		t.Fatalf("expected one full-length clip, got %+v", list)
	}
	if s.ctrl.Selected() != list[0].ID {
		t.Fatalf("expected the new clip to be selected")
	}
	if m.Err != nil || !strings.HasPrefix(m.Status, "added clip") {
		t.Fatalf("unexpected status %q err %v", m.Status, m.Err)
	}

	m, _ = press(t, m, "x")
	if len(s.ctrl.Clips()) != 0 || s.ctrl.Selected() != "" {
		t.Fatalf("expected clip removed and selection cleared")
	}
	if !strings.HasPrefix(m.Status, "removed clip") {
		t.Fatalf("unexpected status %q", m.Status)
	}
}

func TestSpaceTogglesPlayback(t *testing.T) {
	s := newSession(t, 300, clips.Clip{ID: "a", End: 60})
	m := tui.NewModel(s.ctrl)

	m, _ = press(t, m, "space")
	if s.recorder.Loaded() != "v1" || s.recorder.State() != playback.Playing {
		t.Fatalf("expected v1 loaded and playing, got %q %v", s.recorder.Loaded(), s.recorder.State())
	}
	press(t, m, "space")
	if s.recorder.State() == playback.Playing {
		t.Fatalf("expected playback stopped")
	}
}

func TestQuitFlushesPendingEdits(t *testing.T) {
	s := newSession(t, 3600, clips.Clip{ID: "a", End: 60})
	m := tui.NewModel(s.ctrl)
	m, _ = press(t, m, "tab", "0", "0", "1")

	m, cmd := press(t, m, "q")
	if cmd == nil || !m.Quitting {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	stored, _, err := s.lib.Stored(context.Background(), "v1")
	if err != nil {
		t.Fatalf("Stored: %v", err)
	}
	if stored.Clips[0].End != 660 {
		t.Fatalf("expected flushed end 660, got %+v", stored.Clips[0])
	}
	if m.View() != "" {
		t.Fatalf("expected empty view after quit")
	}
}

func TestViewListsClips(t *testing.T) {
	s := newSession(t, 3600, clips.Clip{ID: "a", Start: 5, End: 65.25})
	view := tui.NewModel(s.ctrl).View()
	for _, want := range []string{"v1", "00:00:05.000", "00:01:05.250"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

package playback_test

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"clipmark/internal/logging"
	"clipmark/internal/playback"
	"clipmark/internal/videoid"
)

type fakeMPV struct {
	listener net.Listener
	commands chan []any
}

func startFakeMPV(t *testing.T) (*fakeMPV, string) {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "mpv.sock")
	listener, err := net.Listen("unix", socket)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping mpv ipc test: %v", err)
		}
		t.Fatalf("listen: %v", err)
	}
	f := &fakeMPV{listener: listener, commands: make(chan []any, 16)}
	t.Cleanup(func() { _ = listener.Close() })
	go f.serve()
	return f, socket
}

func (f *fakeMPV) serve() {
	conn, err := f.listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var req struct {
			Command   []any `json:"command"`
			RequestID int64 `json:"request_id"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			continue
		}
		f.commands <- req.Command
		fmt.Fprintf(conn, "{\"request_id\":%d,\"error\":\"success\"}\n", req.RequestID)
		switch req.Command[0] {
		case "loadfile":
			fmt.Fprint(conn, "{\"event\":\"start-file\"}\n")
			fmt.Fprint(conn, "{\"event\":\"property-change\",\"id\":1,\"name\":\"duration\",\"data\":212.5}\n")
			fmt.Fprint(conn, "{\"event\":\"file-loaded\"}\n")
		case "stop":
			fmt.Fprint(conn, "{\"event\":\"end-file\"}\n")
		}
	}
}

func (f *fakeMPV) next(t *testing.T) []any {
	t.Helper()
	select {
	case cmd := <-f.commands:
		return cmd
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for mpv command")
		return nil
	}
}

func waitEvent(t *testing.T, events <-chan playback.Event, want playback.Event) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %+v", want)
		}
	}
}

func TestMPVCommandsAndEvents(t *testing.T) {
	fake, socket := startFakeMPV(t)
	m, err := playback.DialMPV(socket, logging.NewNop())
	if err != nil {
		t.Fatalf("DialMPV: %v", err)
	}
	defer m.Close()

	if cmd := fake.next(t); cmd[0] != "observe_property" || cmd[2] != "duration" {
		t.Fatalf("unexpected first command %v", cmd)
	}
	if cmd := fake.next(t); cmd[0] != "observe_property" || cmd[2] != "pause" {
		t.Fatalf("unexpected second command %v", cmd)
	}

	events := make(chan playback.Event, 16)
	m.Notify(func(ev playback.Event) { events <- ev })

	if err := m.LoadByID("dQw4w9WgXcQ"); err != nil {
		t.Fatalf("LoadByID: %v", err)
	}
	if cmd := fake.next(t); cmd[1] != videoid.WatchURL("dQw4w9WgXcQ") || cmd[2] != "replace" {
		t.Fatalf("unexpected loadfile %v", cmd)
	}
	waitEvent(t, events, playback.Event{Kind: playback.EventReady, Duration: 212.5})
	waitEvent(t, events, playback.Event{Kind: playback.EventStateChange, State: playback.Playing})
	if m.Duration() != 212.5 {
		t.Fatalf("duration = %v", m.Duration())
	}

	if err := m.Seek(12.5, true); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if cmd := fake.next(t); cmd[0] != "seek" || cmd[1] != 12.5 || cmd[2] != "absolute+exact" {
		t.Fatalf("unexpected seek %v", cmd)
	}
	if err := m.Seek(3, false); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if cmd := fake.next(t); cmd[2] != "absolute+keyframes" {
		t.Fatalf("unexpected seek flags %v", cmd)
	}

	if err := m.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	fake.next(t)
	waitEvent(t, events, playback.Event{Kind: playback.EventStateChange, State: playback.Ended})
	if m.State() != playback.Ended {
		t.Fatalf("state = %s", m.State())
	}
}

func TestMPVCommandAfterClose(t *testing.T) {
	fake, socket := startFakeMPV(t)
	m, err := playback.DialMPV(socket, nil)
	if err != nil {
		t.Fatalf("DialMPV: %v", err)
	}
	fake.next(t)
	fake.next(t)
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := m.Play(); err != playback.ErrMPVClosed {
		t.Fatalf("expected ErrMPVClosed, got %v", err)
	}
}

package playback

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"clipmark/internal/logging"
	"clipmark/internal/videoid"
)

const (
	mpvDialTimeout    = 2 * time.Second
	mpvCommandTimeout = 3 * time.Second
)

// Observed property ids.
const (
	observeDuration = iota + 1
	observePause
)

// ErrMPVClosed is returned once the IPC connection is gone.
var ErrMPVClosed = errors.New("mpv connection closed")

type mpvRequest struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

type mpvMessage struct {
	RequestID *int64          `json:"request_id,omitempty"`
	Error     string          `json:"error,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Event     string          `json:"event,omitempty"`
	Name      string          `json:"name,omitempty"`
}

// MPV drives an mpv instance started with --input-ipc-server.
type MPV struct {
	conn    net.Conn
	logger  *slog.Logger
	timeout time.Duration

	writeMu sync.Mutex
	mu      sync.Mutex
	nextID  int64
	waiting map[int64]chan mpvMessage
	closed  bool

	state     State
	paused    bool
	duration  float64
	listeners []func(Event)

	// events decouples listener callbacks from readLoop so a listener may
	// issue commands of its own.
	events chan Event
	done   chan struct{}
}

// DialMPV connects to the socket and subscribes to duration and pause changes.
func DialMPV(socket string, logger *slog.Logger) (*MPV, error) {
	conn, err := net.DialTimeout("unix", socket, mpvDialTimeout)
	if err != nil {
		return nil, fmt.Errorf("dial mpv %s: %w", socket, err)
	}
	m := &MPV{
		conn:    conn,
		logger:  logging.NewComponentLogger(logger, "mpv"),
		timeout: mpvCommandTimeout,
		waiting: make(map[int64]chan mpvMessage),
		state:   Unstarted,
		events:  make(chan Event, 32),
		done:    make(chan struct{}),
	}
	go m.dispatch()
	go m.readLoop()

	if _, err := m.command("observe_property", observeDuration, "duration"); err != nil {
		_ = m.Close()
		return nil, err
	}
	if _, err := m.command("observe_property", observePause, "pause"); err != nil {
		_ = m.Close()
		return nil, err
	}
	return m, nil
}

// Close drops the IPC connection. mpv itself keeps running.
func (m *MPV) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()
	err := m.conn.Close()
	<-m.done
	return err
}

func (m *MPV) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *MPV) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *MPV) Play() error {
	_, err := m.command("set_property", "pause", false)
	return err
}

func (m *MPV) Stop() error {
	_, err := m.command("stop")
	return err
}

// Seek maps allowSeekAhead to an exact seek; otherwise mpv snaps to the
// nearest keyframe, which never needs data past the buffer.
func (m *MPV) Seek(seconds float64, allowSeekAhead bool) error {
	flags := "absolute+keyframes"
	if allowSeekAhead {
		flags = "absolute+exact"
	}
	_, err := m.command("seek", seconds, flags)
	return err
}

// LoadByID loads a local path as is and anything else as a YouTube id.
func (m *MPV) LoadByID(id string) error {
	target := id
	if _, err := os.Stat(id); err != nil && !strings.Contains(id, "://") {
		target = videoid.WatchURL(id)
	}
	_, err := m.command("loadfile", target, "replace")
	return err
}

func (m *MPV) Notify(fn func(Event)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

func (m *MPV) command(args ...any) (json.RawMessage, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrMPVClosed
	}
	m.nextID++
	id := m.nextID
	reply := make(chan mpvMessage, 1)
	m.waiting[id] = reply
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.waiting, id)
		m.mu.Unlock()
	}()

	payload, err := json.Marshal(mpvRequest{Command: args, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("encode mpv command: %w", err)
	}
	m.writeMu.Lock()
	_ = m.conn.SetWriteDeadline(time.Now().Add(m.timeout))
	_, err = m.conn.Write(append(payload, '\n'))
	m.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("send mpv %v: %w", args[0], err)
	}

	select {
	case msg := <-reply:
		if msg.Error != "" && msg.Error != "success" {
			return nil, fmt.Errorf("mpv %v: %s", args[0], msg.Error)
		}
		return msg.Data, nil
	case <-m.done:
		return nil, ErrMPVClosed
	case <-time.After(m.timeout):
		return nil, fmt.Errorf("mpv %v: timed out after %s", args[0], m.timeout)
	}
}

func (m *MPV) readLoop() {
	defer close(m.done)
	defer close(m.events)
	scanner := bufio.NewScanner(m.conn)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var msg mpvMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			m.logger.Debug("ignoring malformed mpv message", logging.Error(err))
			continue
		}
		if msg.Event != "" {
			m.handleEvent(msg)
			continue
		}
		if msg.RequestID == nil {
			continue
		}
		m.mu.Lock()
		reply, ok := m.waiting[*msg.RequestID]
		m.mu.Unlock()
		if ok {
			reply <- msg
		}
	}
}

func (m *MPV) handleEvent(msg mpvMessage) {
	switch msg.Event {
	case "property-change":
		switch msg.Name {
		case "duration":
			var d float64
			if json.Unmarshal(msg.Data, &d) == nil && d > 0 {
				m.mu.Lock()
				m.duration = d
				m.mu.Unlock()
				m.emit(Event{Kind: EventReady, Duration: d})
			}
		case "pause":
			var paused bool
			if json.Unmarshal(msg.Data, &paused) != nil {
				return
			}
			m.mu.Lock()
			m.paused = paused
			current := m.state
			m.mu.Unlock()
			if current == Playing || current == Paused {
				m.setState(playingOrPaused(paused))
			}
		}
	case "start-file":
		m.setState(Buffering)
	case "file-loaded", "playback-restart":
		m.mu.Lock()
		paused := m.paused
		m.mu.Unlock()
		m.setState(playingOrPaused(paused))
	case "end-file", "idle":
		m.setState(Ended)
	}
}

func playingOrPaused(paused bool) State {
	if paused {
		return Paused
	}
	return Playing
}

func (m *MPV) setState(s State) {
	m.mu.Lock()
	changed := m.state != s
	m.state = s
	m.mu.Unlock()
	if changed {
		m.emit(Event{Kind: EventStateChange, State: s})
	}
}

func (m *MPV) emit(ev Event) {
	m.events <- ev
}

func (m *MPV) dispatch() {
	for ev := range m.events {
		m.mu.Lock()
		listeners := slices.Clone(m.listeners)
		m.mu.Unlock()
		for _, fn := range listeners {
			fn(ev)
		}
	}
}

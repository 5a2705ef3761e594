package playback

import (
	"errors"
	"sync"
)

var (
	// ErrNoSurface is returned by a Handle with no attached surface.
	ErrNoSurface = errors.New("no playback surface attached")
	// ErrSurfaceAttached is returned when acquiring an occupied Handle.
	ErrSurfaceAttached = errors.New("playback surface already attached")
)

// Surface is the player contract consumed by the editor.
type Surface interface {
	State() State
	Play() error
	Stop() error
	// Seek jumps to seconds. allowSeekAhead permits the player to fetch
	// media beyond what is buffered, trading latency for precision.
	Seek(seconds float64, allowSeekAhead bool) error
	LoadByID(id string) error
	Duration() float64
}

// EventKind distinguishes player notifications.
type EventKind int

const (
	// EventReady carries the media duration once the player knows it.
	EventReady EventKind = iota + 1
	// EventStateChange carries the new player state.
	EventStateChange
)

// Event is a player notification.
type Event struct {
	Kind     EventKind
	Duration float64
	State    State
}

// Notifier is implemented by surfaces that push notifications.
type Notifier interface {
	Notify(fn func(Event))
}

// Handle is an explicit reference to at most one surface.
type Handle struct {
	mu      sync.RWMutex
	surface Surface
}

// NewHandle returns an empty handle.
func NewHandle() *Handle { return &Handle{} }

// Acquire attaches s. It fails when a surface is already attached.
func (h *Handle) Acquire(s Surface) error {
	if s == nil {
		return ErrNoSurface
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.surface != nil {
		return ErrSurfaceAttached
	}
	h.surface = s
	return nil
}

// Release detaches the current surface and returns it, or nil.
func (h *Handle) Release() Surface {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.surface
	h.surface = nil
	return s
}

// Attached reports whether a surface is attached.
func (h *Handle) Attached() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.surface != nil
}

func (h *Handle) current() (Surface, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.surface == nil {
		return nil, ErrNoSurface
	}
	return h.surface, nil
}

func (h *Handle) State() (State, error) {
	s, err := h.current()
	if err != nil {
		return Unstarted, err
	}
	return s.State(), nil
}

func (h *Handle) Play() error {
	s, err := h.current()
	if err != nil {
		return err
	}
	return s.Play()
}

func (h *Handle) Stop() error {
	s, err := h.current()
	if err != nil {
		return err
	}
	return s.Stop()
}

func (h *Handle) Seek(seconds float64, allowSeekAhead bool) error {
	s, err := h.current()
	if err != nil {
		return err
	}
	return s.Seek(seconds, allowSeekAhead)
}

func (h *Handle) LoadByID(id string) error {
	s, err := h.current()
	if err != nil {
		return err
	}
	return s.LoadByID(id)
}

func (h *Handle) Duration() (float64, error) {
	s, err := h.current()
	if err != nil {
		return 0, err
	}
	return s.Duration(), nil
}

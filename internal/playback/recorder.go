package playback

import (
	"slices"
	"sync"
)

// SeekCall is one recorded seek.
type SeekCall struct {
	Seconds        float64
	AllowSeekAhead bool
}

// Recorder is an in-memory Surface. Loading a video moves it to Buffering
// and, when a duration is configured, reports ready; Play and Stop switch
// between Playing and Ended.
type Recorder struct {
	mu        sync.Mutex
	state     State
	duration  float64
	loaded    string
	seeks     []SeekCall
	listeners []func(Event)
}

// NewRecorder returns an unstarted recorder that reports duration when loaded.
func NewRecorder(duration float64) *Recorder {
	return &Recorder{state: Unstarted, duration: duration}
}

func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Recorder) Duration() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.duration
}

func (r *Recorder) Play() error {
	r.SetState(Playing)
	return nil
}

func (r *Recorder) Stop() error {
	r.SetState(Ended)
	return nil
}

func (r *Recorder) Seek(seconds float64, allowSeekAhead bool) error {
	r.mu.Lock()
	r.seeks = append(r.seeks, SeekCall{Seconds: seconds, AllowSeekAhead: allowSeekAhead})
	r.mu.Unlock()
	return nil
}

func (r *Recorder) LoadByID(id string) error {
	r.mu.Lock()
	r.loaded = id
	duration := r.duration
	r.mu.Unlock()

	r.SetState(Buffering)
	if duration > 0 {
		r.emit(Event{Kind: EventReady, Duration: duration})
	}
	return nil
}

func (r *Recorder) Notify(fn func(Event)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

// SetState changes the state and notifies listeners when it differs.
func (r *Recorder) SetState(s State) {
	r.mu.Lock()
	changed := r.state != s
	r.state = s
	r.mu.Unlock()
	if changed {
		r.emit(Event{Kind: EventStateChange, State: s})
	}
}

// SetDuration reports a new media duration to listeners.
func (r *Recorder) SetDuration(d float64) {
	r.mu.Lock()
	r.duration = d
	r.mu.Unlock()
	r.emit(Event{Kind: EventReady, Duration: d})
}

// Seeks returns the recorded seeks in call order.
func (r *Recorder) Seeks() []SeekCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.seeks)
}

// LastSeek returns the most recent seek, if any.
func (r *Recorder) LastSeek() (SeekCall, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.seeks) == 0 {
		return SeekCall{}, false
	}
	return r.seeks[len(r.seeks)-1], true
}

// Loaded returns the id passed to the last LoadByID.
func (r *Recorder) Loaded() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

func (r *Recorder) emit(ev Event) {
	r.mu.Lock()
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()
	for _, fn := range listeners {
		fn(ev)
	}
}

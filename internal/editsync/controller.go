package editsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"clipmark/internal/clips"
	"clipmark/internal/library"
	"clipmark/internal/logging"
	"clipmark/internal/playback"
)

// DefaultDebounce is the quiescence window before an edit is persisted.
const DefaultDebounce = time.Second

const writeTimeout = 10 * time.Second

// ErrClosed is returned by a Controller after Close.
var ErrClosed = errors.New("edit session closed")

// Options configures a Controller.
type Options struct {
	VideoID  string
	Library  *library.Library
	Player   *playback.Handle
	Debounce time.Duration
	Clock    Clock
	Logger   *slog.Logger
	// SeekAhead is passed to every seek.
	SeekAhead bool
	// OnPersist, when set, is called after every debounced or flushed write.
	OnPersist func(clipID string, err error)
}

// Controller is the edit session for one video.
type Controller struct {
	videoID   string
	lib       *library.Library
	player    *playback.Handle
	debounce  time.Duration
	clock     Clock
	logger    *slog.Logger
	seekAhead bool
	onPersist func(string, error)

	mu       sync.Mutex
	selected string
	pending  map[string]*pendingSlot
	gen      uint64
	state    playback.State
	closed   bool
	lastErr  error

	// writeMu orders writes; written tracks the newest generation stored
	// per clip so a stale write never lands after a newer one.
	writeMu sync.Mutex
	written map[string]uint64
}

// New returns a controller for an already opened video.
func New(opts Options) (*Controller, error) {
	if opts.Library == nil {
		return nil, errors.New("editsync: library is required")
	}
	if _, ok := opts.Library.Registry().Metadata(opts.VideoID); !ok {
		return nil, fmt.Errorf("editsync: %w: %s", clips.ErrUnknownVideo, opts.VideoID)
	}
	if opts.Player == nil {
		opts.Player = playback.NewHandle()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	logger := logging.NewComponentLogger(opts.Logger, "editsync").
		With(logging.String(logging.FieldVideoID, opts.VideoID))
	return &Controller{
		videoID:   opts.VideoID,
		lib:       opts.Library,
		player:    opts.Player,
		debounce:  opts.Debounce,
		clock:     opts.Clock,
		logger:    logger,
		seekAhead: opts.SeekAhead,
		onPersist: opts.OnPersist,
		pending:   make(map[string]*pendingSlot),
		state:     playback.Unstarted,
		written:   make(map[string]uint64),
	}, nil
}

// VideoID returns the video this session edits.
func (c *Controller) VideoID() string { return c.videoID }

// Clips returns a snapshot of the video's clips.
func (c *Controller) Clips() []clips.Clip { return c.lib.Registry().GetClips(c.videoID) }

// Clip returns one clip of the video.
func (c *Controller) Clip(clipID string) (clips.Clip, bool) {
	return c.lib.Registry().GetClip(c.videoID, clipID)
}

// ClipsInRange returns the clips overlapping [from, to].
func (c *Controller) ClipsInRange(from, to float64) []clips.Clip {
	return c.lib.Registry().GetClipsInTimeRange(c.videoID, from, to)
}

// Duration returns the known media duration.
func (c *Controller) Duration() float64 {
	meta, _ := c.lib.Registry().Metadata(c.videoID)
	return meta.Duration
}

// Selected returns the selected clip id, or "" when none is selected.
func (c *Controller) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Select makes clipID the editable clip. A pending write for the previously
// selected clip is flushed synchronously using its latest in-memory bounds.
// An empty clipID clears the selection.
func (c *Controller) Select(ctx context.Context, clipID string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if clipID == c.selected {
		c.mu.Unlock()
		return nil
	}
	if clipID != "" {
		if _, ok := c.lib.Registry().GetClip(c.videoID, clipID); !ok {
			c.mu.Unlock()
			return fmt.Errorf("select clip %s: %w", clipID, clips.ErrNotFound)
		}
	}
	previous := c.selected
	slot := c.takeLocked(previous)
	c.selected = clipID
	c.mu.Unlock()

	c.logger.Debug("selection changed",
		logging.String("previous", previous),
		logging.String(logging.FieldClipID, clipID))
	if slot != nil {
		_ = c.write(ctx, slot)
	}
	return nil
}

// Apply takes a slider change for clipID. The moved endpoint is inferred by
// diffing against the clip's current bounds. It reports false when the clip
// is not selected and the change was dropped.
func (c *Controller) Apply(clipID string, next Range) (bool, error) {
	current, ok := c.lib.Registry().GetClip(c.videoID, clipID)
	if !ok {
		return false, fmt.Errorf("apply to clip %s: %w", clipID, clips.ErrNotFound)
	}
	endpoint, value := MovedEndpoint(RangeOf(current), next)
	return c.ApplyValue(clipID, endpoint, value)
}

// ApplyValue sets one endpoint of clipID. The value is clamped to the media
// duration and to the other endpoint, so start never passes end. A value
// that leaves the bounds unchanged is accepted without a seek or a write.
func (c *Controller) ApplyValue(clipID string, endpoint Endpoint, value float64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false, ErrClosed
	}
	if clipID != c.selected {
		c.logger.Debug("dropping edit for unselected clip",
			logging.String(logging.FieldClipID, clipID),
			logging.String("selected", c.selected))
		return false, nil
	}
	registry := c.lib.Registry()
	current, ok := registry.GetClip(c.videoID, clipID)
	if !ok {
		return false, fmt.Errorf("apply to clip %s: %w", clipID, clips.ErrNotFound)
	}
	if math.IsNaN(value) {
		return false, fmt.Errorf("apply to clip %s: %w: NaN", clipID, clips.ErrInvalidBounds)
	}

	meta, _ := registry.Metadata(c.videoID)
	value = max(value, 0)
	if meta.Duration > 0 {
		value = min(value, meta.Duration)
	}
	next := RangeOf(current)
	if endpoint == Start {
		next.Start = min(value, current.End)
		value = next.Start
	} else {
		next.End = max(value, current.Start)
		value = next.End
	}
	if next == RangeOf(current) {
		return true, nil
	}

	if err := c.player.Seek(value, c.seekAhead); err != nil && !errors.Is(err, playback.ErrNoSurface) {
		logging.WarnWithContext(c.logger, "seek failed", "seek_failed",
			logging.String(logging.FieldClipID, clipID),
			logging.Float64("seconds", value),
			logging.Error(err),
			logging.String(logging.FieldImpact, "player position is not synchronized with the edit"))
	}

	if _, err := registry.UpdateClip(c.videoID, clipID, clips.Bounds(next.Start, next.End)); err != nil {
		return false, err
	}
	c.scheduleLocked(clipID, clips.Bounds(next.Start, next.End))
	return true, nil
}

// AddClip creates a clip spanning the whole video and selects it. A
// persistence failure is returned with the new clip, which stays in memory.
func (c *Controller) AddClip(ctx context.Context) (clips.Clip, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return clips.Clip{}, ErrClosed
	}

	clip := clips.Clip{ID: c.lib.NewClipID(), Start: 0, End: c.Duration()}
	persistErr := c.lib.AddClip(ctx, c.videoID, clip)
	if persistErr != nil && !isStorageError(persistErr) {
		return clips.Clip{}, persistErr
	}
	c.recordResult(clip.ID, persistErr)
	if err := c.Select(ctx, clip.ID); err != nil {
		return clip, err
	}
	c.logger.Info("clip added",
		logging.String(logging.FieldClipID, clip.ID),
		logging.Float64("end", clip.End))
	return clip, persistErr
}

// RemoveClip drops a clip, cancelling its pending write and clearing the
// selection when it was selected.
func (c *Controller) RemoveClip(ctx context.Context, clipID string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.takeLocked(clipID)
	if c.selected == clipID {
		c.selected = ""
	}
	c.mu.Unlock()

	err := c.lib.RemoveClip(ctx, c.videoID, clipID)
	if err != nil && !isStorageError(err) {
		return err
	}
	c.recordResult(clipID, err)
	c.logger.Info("clip removed", logging.String(logging.FieldClipID, clipID))
	return err
}

// SetDuration handles the player's ready notification. Existing clips are
// clamped into the new duration and pending writes follow the clamp.
func (c *Controller) SetDuration(ctx context.Context, duration float64) error {
	if duration <= 0 || math.IsNaN(duration) {
		return nil
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	changed, err := c.lib.SetDuration(ctx, c.videoID, duration)
	for _, clip := range changed {
		if slot, ok := c.pending[clip.ID]; ok {
			slot.Update = clips.Bounds(clip.Start, clip.End)
		}
	}
	c.mu.Unlock()

	if err != nil && !isStorageError(err) {
		return err
	}
	c.recordResult("", err)
	c.logger.Info("duration updated",
		logging.Float64("duration", duration),
		logging.Int("clamped_clips", len(changed)))
	return err
}

// OnStateChange records the player state.
func (c *Controller) OnStateChange(state playback.State) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

// State returns the last reported player state.
func (c *Controller) State() playback.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Active reports whether the player is playing.
func (c *Controller) Active() bool { return c.State().Active() }

// TogglePlayback stops an active player; otherwise it loads the video when
// nothing was started (or playback ended) and plays.
func (c *Controller) TogglePlayback() error {
	state, err := c.player.State()
	if err != nil {
		return err
	}
	if state.Active() {
		return c.player.Stop()
	}
	if state.Inactive() {
		if err := c.player.LoadByID(c.videoID); err != nil {
			return fmt.Errorf("load %s: %w", c.videoID, err)
		}
	}
	return c.player.Play()
}

// Attach subscribes the controller to a surface's notifications.
func (c *Controller) Attach(n playback.Notifier) {
	n.Notify(func(ev playback.Event) {
		switch ev.Kind {
		case playback.EventReady:
			_ = c.SetDuration(context.Background(), ev.Duration)
		case playback.EventStateChange:
			c.OnStateChange(ev.State)
		}
	})
}

// Pending returns the scheduled writes ordered by clip id.
func (c *Controller) Pending() []PendingWrite {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]PendingWrite, 0, len(c.pending))
	for _, slot := range c.pending {
		out = append(out, slot.PendingWrite)
	}
	slices.SortFunc(out, func(a, b PendingWrite) int {
		switch {
		case a.ClipID < b.ClipID:
			return -1
		case a.ClipID > b.ClipID:
			return 1
		}
		return 0
	})
	return out
}

// Flush writes every pending edit now.
func (c *Controller) Flush(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	slots := make([]*pendingSlot, 0, len(c.pending))
	for id := range c.pending {
		slots = append(slots, c.takeLocked(id))
	}
	c.mu.Unlock()

	var errs []error
	for _, slot := range slots {
		if err := c.write(ctx, slot); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close cancels every pending write and waits for an in-flight write to
// finish. Nothing is written after Close returns.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	cancelled := len(c.pending)
	for id := range c.pending {
		c.takeLocked(id)
	}
	c.mu.Unlock()

	c.writeMu.Lock()
	c.writeMu.Unlock()
	if cancelled > 0 {
		c.logger.Info("edit session closed with unsaved edits", logging.Int("cancelled", cancelled))
	}
	return nil
}

// Err returns the most recent persistence error, or nil once a later write
// succeeds.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Controller) scheduleLocked(clipID string, update clips.Update) {
	if slot, ok := c.pending[clipID]; ok {
		slot.timer.Stop()
	}
	c.gen++
	gen := c.gen
	slot := &pendingSlot{
		PendingWrite: PendingWrite{ClipID: clipID, Update: update, ScheduledAt: c.clock.Now()},
		gen:          gen,
	}
	slot.timer = c.clock.AfterFunc(c.debounce, func() { c.fire(clipID, gen) })
	c.pending[clipID] = slot
}

// takeLocked removes and stops the pending slot for clipID.
func (c *Controller) takeLocked(clipID string) *pendingSlot {
	slot, ok := c.pending[clipID]
	if !ok {
		return nil
	}
	slot.timer.Stop()
	delete(c.pending, clipID)
	return slot
}

func (c *Controller) fire(clipID string, gen uint64) {
	c.mu.Lock()
	slot, ok := c.pending[clipID]
	if c.closed || !ok || slot.gen != gen {
		c.mu.Unlock()
		return
	}
	delete(c.pending, clipID)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	_ = c.write(ctx, slot)
}

func (c *Controller) write(ctx context.Context, slot *pendingSlot) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	// Close may have run between taking the slot and acquiring writeMu.
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if slot.gen <= c.written[slot.ClipID] {
		return nil
	}
	c.written[slot.ClipID] = slot.gen

	err := c.lib.PersistClip(ctx, c.videoID, slot.ClipID, slot.Update)
	c.recordResult(slot.ClipID, err)
	if err == nil {
		c.logger.Debug("clip persisted",
			logging.String(logging.FieldClipID, slot.ClipID),
			logging.Duration("waited", c.clock.Now().Sub(slot.ScheduledAt)))
	}
	if c.onPersist != nil {
		c.onPersist(slot.ClipID, err)
	}
	return err
}

func (c *Controller) recordResult(clipID string, err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
	if err == nil {
		return
	}
	logging.WarnWithContext(c.logger, "clip edit not persisted", "persist_failed",
		logging.String(logging.FieldClipID, clipID),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "edits are kept in memory and retried on the next change"),
		logging.String(logging.FieldImpact, "edits may not survive a restart"))
}

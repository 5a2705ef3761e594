package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"clipmark/internal/clips"
	"clipmark/internal/config"
	"clipmark/internal/logging"
	"clipmark/internal/storage"
)

// DefaultKeyPrefix namespaces persisted entries.
const DefaultKeyPrefix = "video_storage_"

// DefaultTTL is how long an untouched entry survives.
const DefaultTTL = 30 * 24 * time.Hour

// Options configures a Library.
type Options struct {
	KeyPrefix string
	TTL       time.Duration
	Logger    *slog.Logger
}

// Library owns the registry and persists its entries through an adapter.
type Library struct {
	registry *clips.Registry
	adapter  storage.Adapter
	prefix   string
	ttl      time.Duration
	logger   *slog.Logger

	// locks serializes the read-modify-write cycle per video so a stale
	// payload is never written over a newer one.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New wires a registry to an adapter. A nil registry gets a fresh one.
func New(registry *clips.Registry, adapter storage.Adapter, opts Options) *Library {
	if registry == nil {
		registry = clips.NewRegistry()
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = DefaultKeyPrefix
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	return &Library{
		registry: registry,
		adapter:  adapter,
		prefix:   opts.KeyPrefix,
		ttl:      opts.TTL,
		logger:   logging.NewComponentLogger(opts.Logger, "library"),
		locks:    make(map[string]*sync.Mutex),
	}
}

// FromConfig builds a Library using the storage settings in cfg.
func FromConfig(cfg *config.Config, adapter storage.Adapter, logger *slog.Logger) *Library {
	return New(nil, adapter, Options{
		KeyPrefix: cfg.Storage.KeyPrefix,
		TTL:       cfg.StorageTTL(),
		Logger:    logger,
	})
}

// Registry exposes the in-memory registry for reads.
func (l *Library) Registry() *clips.Registry { return l.registry }

// Key derives the storage key for videoID.
func (l *Library) Key(videoID string) string { return l.prefix + videoID }

// NewClipID returns a fresh unique clip identifier.
func (l *Library) NewClipID() string { return uuid.NewString() }

// Open makes videoID available in the registry. An entry already in memory
// is returned as is; otherwise the persisted entry is loaded, and when none
// exists a new one is created from meta and persisted.
func (l *Library) Open(ctx context.Context, videoID string, meta clips.Metadata) (clips.Video, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return clips.Video{}, errors.New("open video: empty video id")
	}
	if v, ok := l.registry.Snapshot(videoID); ok {
		return v, nil
	}

	unlock := l.lockVideo(videoID)
	defer unlock()
	if v, ok := l.registry.Snapshot(videoID); ok {
		return v, nil
	}
	persisted, found, err := l.load(ctx, videoID)
	if err != nil && !errors.Is(err, errCorrupt) {
		return clips.Video{}, err
	}
	if found {
		if err := l.registry.Restore(videoID, persisted); err != nil {
			l.warnCorrupt(videoID, err)
		} else {
			v, _ := l.registry.Snapshot(videoID)
			l.logger.Debug("video loaded",
				logging.String(logging.FieldVideoID, videoID),
				logging.Int("clips", len(v.Clips)))
			return v, nil
		}
	}

	l.registry.InitVideo(videoID, meta)
	v, _ := l.registry.Snapshot(videoID)
	if err := l.write(ctx, videoID, v); err != nil {
		return v, err
	}
	l.logger.Info("video initialized",
		logging.String(logging.FieldVideoID, videoID),
		logging.Float64("duration", v.Metadata.Duration))
	return v, nil
}

// AddClip appends clip in memory and writes it through.
func (l *Library) AddClip(ctx context.Context, videoID string, clip clips.Clip) error {
	if err := l.registry.AddClip(videoID, clip, nil); err != nil {
		return err
	}
	return l.persist(ctx, videoID, func(scratch *clips.Registry) error {
		return upsert(scratch, videoID, clip)
	})
}

// RemoveClip deletes a clip in memory and writes the removal through.
func (l *Library) RemoveClip(ctx context.Context, videoID, clipID string) error {
	if err := l.registry.RemoveClip(videoID, clipID); err != nil {
		return err
	}
	return l.persist(ctx, videoID, func(scratch *clips.Registry) error {
		if err := scratch.RemoveClip(videoID, clipID); err != nil && !errors.Is(err, clips.ErrNotFound) {
			return err
		}
		return nil
	})
}

// ClearClips empties the clip list and persists the empty list.
func (l *Library) ClearClips(ctx context.Context, videoID string) error {
	if err := l.registry.ClearClips(videoID); err != nil {
		return err
	}
	return l.persist(ctx, videoID, func(scratch *clips.Registry) error {
		return scratch.ClearClips(videoID)
	})
}

// DeleteVideo drops the entry only when its clip list is empty, reporting
// whether anything was deleted.
func (l *Library) DeleteVideo(ctx context.Context, videoID string) (bool, error) {
	unlock := l.lockVideo(videoID)
	defer unlock()
	if !l.registry.DeleteVideo(videoID) {
		return false, nil
	}
	if err := l.adapter.Delete(ctx, l.Key(videoID)); err != nil {
		return true, fmt.Errorf("delete video %s: %w", videoID, err)
	}
	return true, nil
}

// ClearVideo unconditionally drops the entry from memory and storage.
func (l *Library) ClearVideo(ctx context.Context, videoID string) error {
	unlock := l.lockVideo(videoID)
	defer unlock()
	l.registry.ClearVideo(videoID)
	if err := l.adapter.Delete(ctx, l.Key(videoID)); err != nil {
		return fmt.Errorf("clear video %s: %w", videoID, err)
	}
	return nil
}

// SetDuration records the real media duration, clamping existing clips, and
// persists the result. It returns the clips whose bounds changed.
func (l *Library) SetDuration(ctx context.Context, videoID string, duration float64) ([]clips.Clip, error) {
	changed, err := l.registry.SetDuration(videoID, duration)
	if err != nil {
		return nil, err
	}
	err = l.persist(ctx, videoID, func(scratch *clips.Registry) error {
		_, err := scratch.SetDuration(videoID, duration)
		return err
	})
	return changed, err
}

// PersistClip writes the given update for one clip into the persisted copy.
// A clip that no longer exists in memory is skipped.
func (l *Library) PersistClip(ctx context.Context, videoID, clipID string, u clips.Update) error {
	unlock := l.lockVideo(videoID)
	defer unlock()
	// Checked under the lock: a removal updates memory before it persists.
	current, ok := l.registry.GetClip(videoID, clipID)
	if !ok {
		l.logger.Debug("skipping write for removed clip",
			logging.String(logging.FieldVideoID, videoID),
			logging.String(logging.FieldClipID, clipID))
		return nil
	}
	if meta, ok := l.registry.Metadata(videoID); ok && meta.Duration > 0 {
		u = clampUpdate(u, meta.Duration)
	}
	return l.persistLocked(ctx, videoID, func(scratch *clips.Registry) error {
		if _, err := scratch.UpdateClip(videoID, clipID, u); err == nil || !errors.Is(err, clips.ErrNotFound) {
			return err
		}
		return scratch.AddClip(videoID, applyUpdate(current, u), nil)
	})
}

// Stored reads the persisted entry without touching the registry.
func (l *Library) Stored(ctx context.Context, videoID string) (clips.Video, bool, error) {
	return l.load(ctx, videoID)
}

var errCorrupt = errors.New("corrupt persisted entry")

func (l *Library) load(ctx context.Context, videoID string) (clips.Video, bool, error) {
	raw, found, err := l.adapter.Read(ctx, l.Key(videoID))
	if err != nil {
		return clips.Video{}, false, fmt.Errorf("read video %s: %w", videoID, err)
	}
	if !found {
		return clips.Video{}, false, nil
	}
	v, err := clips.Unmarshal([]byte(raw))
	if err != nil {
		l.warnCorrupt(videoID, err)
		return clips.Video{}, false, fmt.Errorf("%w: %w", errCorrupt, err)
	}
	return v, true, nil
}

func (l *Library) lockVideo(videoID string) func() {
	l.locksMu.Lock()
	mu, ok := l.locks[videoID]
	if !ok {
		mu = &sync.Mutex{}
		l.locks[videoID] = mu
	}
	l.locksMu.Unlock()
	mu.Lock()
	return mu.Unlock
}

func (l *Library) persist(ctx context.Context, videoID string, op func(*clips.Registry) error) error {
	unlock := l.lockVideo(videoID)
	defer unlock()
	return l.persistLocked(ctx, videoID, op)
}

func (l *Library) persistLocked(ctx context.Context, videoID string, op func(*clips.Registry) error) error {
	current, ok := l.registry.Snapshot(videoID)
	if !ok {
		return fmt.Errorf("persist: %w: %s", clips.ErrUnknownVideo, videoID)
	}

	scratch := clips.NewRegistry()
	persisted, found, err := l.load(ctx, videoID)
	if err != nil && !errors.Is(err, errCorrupt) {
		return err
	}
	if !found || scratch.Restore(videoID, persisted) != nil {
		if err := scratch.Restore(videoID, current); err != nil {
			return fmt.Errorf("persist %s: %w", videoID, err)
		}
	}
	if err := scratch.UpdateMetadata(videoID, current.Metadata); err != nil {
		return fmt.Errorf("persist %s: %w", videoID, err)
	}
	if err := op(scratch); err != nil {
		return fmt.Errorf("persist %s: %w", videoID, err)
	}
	next, _ := scratch.Snapshot(videoID)
	return l.write(ctx, videoID, next)
}

func (l *Library) write(ctx context.Context, videoID string, v clips.Video) error {
	data, err := clips.Marshal(v)
	if err != nil {
		return err
	}
	if err := l.adapter.Write(ctx, l.Key(videoID), string(data), l.ttl); err != nil {
		return fmt.Errorf("write video %s: %w", videoID, err)
	}
	l.logger.Debug("video persisted",
		logging.String(logging.FieldVideoID, videoID),
		logging.Int("clips", len(v.Clips)),
		logging.Int("bytes", len(data)))
	return nil
}

func (l *Library) warnCorrupt(videoID string, err error) {
	logging.WarnWithContext(l.logger, "persisted video entry unreadable", "library_decode_failed",
		logging.String(logging.FieldVideoID, videoID),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "the entry is rebuilt from memory on the next write"),
		logging.String(logging.FieldImpact, "previously saved clips for this video are ignored"))
}

func upsert(scratch *clips.Registry, videoID string, clip clips.Clip) error {
	_, err := scratch.UpdateClip(videoID, clip.ID, clips.Bounds(clip.Start, clip.End))
	if errors.Is(err, clips.ErrNotFound) {
		return scratch.AddClip(videoID, clip, nil)
	}
	return err
}

func applyUpdate(c clips.Clip, u clips.Update) clips.Clip {
	if u.Start != nil {
		c.Start = *u.Start
	}
	if u.End != nil {
		c.End = *u.End
	}
	return c
}

// clampUpdate keeps an in-flight update inside a duration set after it was
// scheduled.
func clampUpdate(u clips.Update, duration float64) clips.Update {
	if u.Start != nil {
		v := min(*u.Start, duration)
		u.Start = &v
	}
	if u.End != nil {
		v := min(*u.End, duration)
		u.End = &v
	}
	return u
}

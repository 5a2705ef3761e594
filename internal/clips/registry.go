package clips

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
)

type entry struct {
	meta  Metadata
	clips []Clip
}

// Registry holds the clip list of every known video. It is safe for
// concurrent use; each operation runs to completion under the registry lock.
type Registry struct {
	mu     sync.RWMutex
	videos map[string]*entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{videos: make(map[string]*entry)}
}

// InitVideo creates an empty entry for videoID. It is a no-op when an entry
// already exists and reports whether one was created.
func (r *Registry) InitVideo(videoID string, meta Metadata) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[videoID]; ok {
		return false
	}
	r.videos[videoID] = newEntry(videoID, meta)
	return true
}

func newEntry(videoID string, meta Metadata) *entry {
	if strings.TrimSpace(meta.VideoID) == "" {
		meta.VideoID = videoID
	}
	return &entry{meta: meta, clips: []Clip{}}
}

// AddClip appends clip to the video. When the video has no entry, meta is
// used to create one; without meta the call fails with ErrUnknownVideo.
func (r *Registry) AddClip(videoID string, clip Clip, meta *Metadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.videos[videoID]
	if !ok && meta == nil {
		return fmt.Errorf("add clip %s: %w: %s", clip.ID, ErrUnknownVideo, videoID)
	}
	if strings.TrimSpace(clip.ID) == "" {
		return fmt.Errorf("add clip: %w: empty id", ErrInvalidBounds)
	}
	duration := 0.0
	if ok {
		duration = e.meta.Duration
	} else {
		duration = meta.Duration
	}
	if err := validate(clip, duration); err != nil {
		return fmt.Errorf("add clip: %w", err)
	}
	if ok && e.index(clip.ID) >= 0 {
		return fmt.Errorf("add clip %s to %s: %w", clip.ID, videoID, ErrDuplicateID)
	}
	if !ok {
		e = newEntry(videoID, *meta)
		r.videos[videoID] = e
	}
	e.clips = append(e.clips, clip)
	return nil
}

// RemoveClip deletes a clip. An emptied clip list keeps the video entry.
func (r *Registry) RemoveClip(videoID, clipID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.lookup(videoID)
	if err != nil {
		return fmt.Errorf("remove clip %s: %w", clipID, err)
	}
	idx := e.index(clipID)
	if idx < 0 {
		return fmt.Errorf("remove clip %s from %s: %w", clipID, videoID, ErrNotFound)
	}
	e.clips = slices.Delete(e.clips, idx, idx+1)
	return nil
}

// UpdateClip merges the non-nil fields of u into the clip and returns the
// result. The merged clip must still satisfy the bounds invariant.
func (r *Registry) UpdateClip(videoID, clipID string, u Update) (Clip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.lookup(videoID)
	if err != nil {
		return Clip{}, fmt.Errorf("update clip %s: %w", clipID, err)
	}
	idx := e.index(clipID)
	if idx < 0 {
		return Clip{}, fmt.Errorf("update clip %s in %s: %w", clipID, videoID, ErrNotFound)
	}
	if u.ID != nil && *u.ID != clipID {
		return Clip{}, fmt.Errorf("update clip %s: %w", clipID, ErrImmutableID)
	}
	merged := u.apply(e.clips[idx])
	if err := validate(merged, e.meta.Duration); err != nil {
		return Clip{}, fmt.Errorf("update clip: %w", err)
	}
	e.clips[idx] = merged
	return merged, nil
}

// GetClip returns a copy of one clip.
func (r *Registry) GetClip(videoID, clipID string) (Clip, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.videos[videoID]
	if !ok {
		return Clip{}, false
	}
	idx := e.index(clipID)
	if idx < 0 {
		return Clip{}, false
	}
	return e.clips[idx], true
}

// GetClips returns a snapshot of the video's clips in stored order. Unknown
// videos yield an empty slice.
func (r *Registry) GetClips(videoID string) []Clip {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.videos[videoID]
	if !ok {
		return []Clip{}
	}
	return slices.Clone(e.clips)
}

// GetClipsInTimeRange returns every clip overlapping [from, to] inclusively.
func (r *Registry) GetClipsInTimeRange(videoID string, from, to float64) []Clip {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Clip{}
	e, ok := r.videos[videoID]
	if !ok {
		return out
	}
	for _, c := range e.clips {
		if c.Overlaps(from, to) {
			out = append(out, c)
		}
	}
	return out
}

// SortByStartTime reorders the stored clips ascending by start, keeping the
// relative order of equal starts.
func (r *Registry) SortByStartTime(videoID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.videos[videoID]
	if !ok {
		return
	}
	sort.SliceStable(e.clips, func(i, j int) bool {
		return e.clips[i].Start < e.clips[j].Start
	})
}

// ClearClips empties the clip list but keeps the entry and its metadata.
func (r *Registry) ClearClips(videoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.lookup(videoID)
	if err != nil {
		return fmt.Errorf("clear clips: %w", err)
	}
	e.clips = []Clip{}
	return nil
}

// ClearVideo unconditionally drops the entry, clips and metadata alike.
func (r *Registry) ClearVideo(videoID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.videos, videoID)
}

// DeleteVideo drops the entry only when it holds no clips and reports
// whether it did.
func (r *Registry) DeleteVideo(videoID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.videos[videoID]
	if !ok || len(e.clips) > 0 {
		return false
	}
	delete(r.videos, videoID)
	return true
}

// Metadata returns the video's metadata.
func (r *Registry) Metadata(videoID string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.videos[videoID]
	if !ok {
		return Metadata{}, false
	}
	return e.meta, true
}

// UpdateMetadata replaces the metadata without touching clip bounds.
func (r *Registry) UpdateMetadata(videoID string, meta Metadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.lookup(videoID)
	if err != nil {
		return fmt.Errorf("update metadata: %w", err)
	}
	if strings.TrimSpace(meta.VideoID) == "" {
		meta.VideoID = videoID
	}
	e.meta = meta
	return nil
}

// SetDuration records the real media duration and clamps every clip into
// [0, duration]. It returns the clips whose bounds changed.
func (r *Registry) SetDuration(videoID string, duration float64) ([]Clip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.lookup(videoID)
	if err != nil {
		return nil, fmt.Errorf("set duration: %w", err)
	}
	e.meta.Duration = duration
	if duration <= 0 {
		return nil, nil
	}
	var changed []Clip
	for i, c := range e.clips {
		clamped := c
		clamped.End = min(clamped.End, duration)
		clamped.Start = min(clamped.Start, clamped.End)
		if clamped != c {
			e.clips[i] = clamped
			changed = append(changed, clamped)
		}
	}
	return changed, nil
}

// Snapshot returns a deep copy of the entry.
func (r *Registry) Snapshot(videoID string) (Video, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.videos[videoID]
	if !ok {
		return Video{}, false
	}
	return Video{Metadata: e.meta, Clips: slices.Clone(e.clips)}, true
}

// Restore installs v as the entry for videoID, replacing any existing one.
// Clips are checked for duplicate ids; bounds are taken as persisted.
func (r *Registry) Restore(videoID string, v Video) error {
	seen := make(map[string]struct{}, len(v.Clips))
	for _, c := range v.Clips {
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("restore %s: clip %s: %w", videoID, c.ID, ErrDuplicateID)
		}
		seen[c.ID] = struct{}{}
	}
	e := newEntry(videoID, v.Metadata)
	if v.Clips != nil {
		e.clips = slices.Clone(v.Clips)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.videos[videoID] = e
	return nil
}

// Videos lists the ids of every entry, sorted.
func (r *Registry) Videos() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.videos))
	for id := range r.videos {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) lookup(videoID string) (*entry, error) {
	e, ok := r.videos[videoID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVideo, videoID)
	}
	return e, nil
}

func (e *entry) index(clipID string) int {
	return slices.IndexFunc(e.clips, func(c Clip) bool { return c.ID == clipID })
}

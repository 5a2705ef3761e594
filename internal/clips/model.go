package clips

import (
	"fmt"
	"math"
)

// Clip is a (start, end) sub-interval of a video in seconds.
type Clip struct {
	ID    string  `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Length returns the clip duration in seconds.
func (c Clip) Length() float64 { return c.End - c.Start }

// Overlaps reports inclusive overlap with [from, to].
func (c Clip) Overlaps(from, to float64) bool {
	return c.Start <= to && c.End >= from
}

// Metadata describes the source video.
type Metadata struct {
	VideoID  string  `json:"videoId,omitempty"`
	Name     string  `json:"name,omitempty"`
	Duration float64 `json:"duration"`
}

// Video is a complete registry entry and the persisted payload shape.
type Video struct {
	Metadata Metadata `json:"metadata"`
	Clips    []Clip   `json:"clips"`
}

// Update is a shallow partial clip update. Nil fields are left untouched.
type Update struct {
	ID    *string  `json:"id,omitempty"`
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
}

// Bounds builds an update that sets both endpoints.
func Bounds(start, end float64) Update {
	return Update{Start: &start, End: &end}
}

// IsZero reports whether the update changes nothing.
func (u Update) IsZero() bool {
	return u.ID == nil && u.Start == nil && u.End == nil
}

// Merge layers later on top of u; fields set in later win.
func (u Update) Merge(later Update) Update {
	if later.ID != nil {
		u.ID = later.ID
	}
	if later.Start != nil {
		u.Start = later.Start
	}
	if later.End != nil {
		u.End = later.End
	}
	return u
}

func (u Update) apply(c Clip) Clip {
	if u.Start != nil {
		c.Start = *u.Start
	}
	if u.End != nil {
		c.End = *u.End
	}
	return c
}

// validate checks the clip bounds. A non-positive duration means the length
// of the media is not known yet and only the lower invariants apply.
func validate(c Clip, duration float64) error {
	if math.IsNaN(c.Start) || math.IsNaN(c.End) {
		return fmt.Errorf("%w: clip %s has NaN bounds", ErrInvalidBounds, c.ID)
	}
	if c.Start < 0 || c.Start > c.End {
		return fmt.Errorf("%w: clip %s start=%v end=%v", ErrInvalidBounds, c.ID, c.Start, c.End)
	}
	if duration > 0 && c.End > duration {
		return fmt.Errorf("%w: clip %s end=%v exceeds duration %v", ErrInvalidBounds, c.ID, c.End, duration)
	}
	return nil
}

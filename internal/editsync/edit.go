package editsync

import (
	"fmt"
	"time"

	"clipmark/internal/clips"
)

// Endpoint names one bound of a clip.
type Endpoint int

const (
	Start Endpoint = iota
	End
)

func (e Endpoint) String() string {
	if e == Start {
		return "start"
	}
	return "end"
}

// ParseEndpoint accepts "start" or "end".
func ParseEndpoint(s string) (Endpoint, error) {
	switch s {
	case "start":
		return Start, nil
	case "end":
		return End, nil
	default:
		return Start, fmt.Errorf("unknown endpoint %q", s)
	}
}

// Range is a two-thumb slider value.
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// RangeOf returns the bounds of c.
func RangeOf(c clips.Clip) Range { return Range{Start: c.Start, End: c.End} }

// MovedEndpoint infers which bound a slider change moved. The slider reports
// both values without saying which thumb moved: when the low value differs
// from before, the start moved; otherwise the end did.
func MovedEndpoint(prev, next Range) (Endpoint, float64) {
	if next.Start != prev.Start {
		return Start, next.Start
	}
	return End, next.End
}

// PendingWrite is a scheduled persistence of one clip's bounds.
type PendingWrite struct {
	ClipID      string
	Update      clips.Update
	ScheduledAt time.Time
}

type pendingSlot struct {
	PendingWrite
	gen   uint64
	timer Timer
}

package api

import (
	"clipmark/internal/clips"
	"clipmark/internal/editsync"
	"clipmark/internal/timecode"
)

// Clip is the transport representation of a clip.
type Clip struct {
	ID            string  `json:"id"`
	Start         float64 `json:"start"`
	End           float64 `json:"end"`
	StartTimecode string  `json:"startTimecode"`
	EndTimecode   string  `json:"endTimecode"`
	Selected      bool    `json:"selected"`
}

// Video is the transport representation of an edit session.
type Video struct {
	VideoID       string  `json:"videoId"`
	Duration      float64 `json:"duration"`
	Selected      string  `json:"selected,omitempty"`
	Clips         []Clip  `json:"clips"`
	PendingWrites int     `json:"pendingWrites"`
	PersistError  string  `json:"persistError,omitempty"`
}

// Timecode pairs seconds with their formatted text.
type Timecode struct {
	Seconds float64 `json:"seconds"`
	Text    string  `json:"text"`
}

// Health reports server liveness.
type Health struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

type selectionRequest struct {
	ClipID string `json:"clipId"`
}

type boundsRequest struct {
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

type durationRequest struct {
	Duration float64 `json:"duration" binding:"required"`
}

// FromClip converts a registry clip.
func FromClip(c clips.Clip, selected string) Clip {
	return Clip{
		ID:            c.ID,
		Start:         c.Start,
		End:           c.End,
		StartTimecode: timecode.Format(c.Start),
		EndTimecode:   timecode.Format(c.End),
		Selected:      c.ID == selected,
	}
}

// FromClips converts a clip list, preserving order.
func FromClips(list []clips.Clip, selected string) []Clip {
	out := make([]Clip, 0, len(list))
	for _, c := range list {
		out = append(out, FromClip(c, selected))
	}
	return out
}

// FromController summarizes an edit session.
func FromController(ctrl *editsync.Controller) Video {
	selected := ctrl.Selected()
	v := Video{
		VideoID:       ctrl.VideoID(),
		Duration:      ctrl.Duration(),
		Selected:      selected,
		Clips:         FromClips(ctrl.Clips(), selected),
		PendingWrites: len(ctrl.Pending()),
	}
	if err := ctrl.Err(); err != nil {
		v.PersistError = err.Error()
	}
	return v
}

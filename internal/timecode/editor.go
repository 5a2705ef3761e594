package timecode

import "math"

// DefaultMax bounds edits when no media duration is known yet.
const DefaultMax = 86400

// Editor is the per-field cursor state machine over the 12-character layout.
// It never holds the edited value; callers pass the current value in and
// receive the replacement plus a flag telling whether a change must be
// emitted.
type Editor struct {
	pos int
	max float64
}

// NewEditor returns an editor with the cursor on the first digit. A
// non-positive max means the duration is unknown and DefaultMax applies.
func NewEditor(max float64) *Editor {
	e := &Editor{}
	e.SetMax(max)
	return e
}

// Position returns the active character index, always within [0, Width-1].
func (e *Editor) Position() int { return e.pos }

// Max returns the upper bound applied to every emitted value.
func (e *Editor) Max() float64 { return e.max }

// SetMax replaces the upper bound, typically when the real media duration
// becomes known. Callers re-clamp their live value with Clamp afterwards.
func (e *Editor) SetMax(max float64) {
	if max <= 0 || math.IsNaN(max) || math.IsInf(max, 0) {
		max = DefaultMax
	}
	e.max = max
}

// Clamp bounds value to [0, Max].
func (e *Editor) Clamp(value float64) float64 {
	switch {
	case math.IsNaN(value) || value < 0:
		return 0
	case value > e.max:
		return e.max
	default:
		return value
	}
}

// Focus places the cursor at pos, snapping forward past literals the way a
// click inside the field does.
func (e *Editor) Focus(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos >= Width {
		pos = Width - 1
	}
	if next, ok := nextEditable(pos); ok {
		e.pos = next
		return
	}
	if prev, ok := prevEditable(pos); ok {
		e.pos = prev
	}
}

// MoveLeft moves to the previous editable position; it stays put at the
// left boundary.
func (e *Editor) MoveLeft() {
	if prev, ok := prevEditable(e.pos - 1); ok {
		e.pos = prev
	}
}

// MoveRight moves to the next editable position; it stays put at the right
// boundary.
func (e *Editor) MoveRight() {
	if next, ok := nextEditable(e.pos + 1); ok {
		e.pos = next
	}
}

// Digit types d at the cursor. The digit is bounded per position, spliced
// into the formatted value, reparsed and clamped. The cursor then advances to
// the next editable position. Digits outside 0-9 are ignored.
func (e *Editor) Digit(value float64, d int) (float64, bool) {
	if d < 0 || d > 9 || IsLiteral(e.pos) {
		return value, false
	}
	text := Format(value)
	digit := clampDigit(e.pos, byte('0'+d), text)
	next := e.Clamp(Parse(splice(text, e.pos, digit)))
	e.MoveRight()
	return next, next != value
}

// Step adds dir times the active position's weight to value. The cursor
// does not move.
func (e *Editor) Step(value float64, dir int) (float64, bool) {
	switch {
	case dir > 0:
		dir = 1
	case dir < 0:
		dir = -1
	default:
		return value, false
	}
	next := e.Clamp(RoundMillis(RoundMillis(value) + float64(dir)*Weight(e.pos)))
	return next, next != value
}

// Clear zeroes the digit at the cursor and moves one editable position left,
// mirroring backspace.
func (e *Editor) Clear(value float64) (float64, bool) {
	if IsLiteral(e.pos) {
		return value, false
	}
	next := e.Clamp(Parse(splice(Format(value), e.pos, '0')))
	e.MoveLeft()
	return next, next != value
}

func splice(text string, pos int, c byte) string {
	b := []byte(text)
	b[pos] = c
	return string(b)
}

func nextEditable(pos int) (int, bool) {
	for ; pos < Width; pos++ {
		if pos >= 0 && !IsLiteral(pos) {
			return pos, true
		}
	}
	return 0, false
}

func prevEditable(pos int) (int, bool) {
	for ; pos >= 0; pos-- {
		if pos < Width && !IsLiteral(pos) {
			return pos, true
		}
	}
	return 0, false
}

package timecode

// position describes one character slot of the layout.
type position struct {
	literal byte
	max     byte
	weight  float64
}

var layout = [Width]position{
	{max: '2', weight: 36000},
	{max: '9', weight: 3600},
	{literal: ':'},
	{max: '5', weight: 600},
	{max: '9', weight: 60},
	{literal: ':'},
	{max: '5', weight: 10},
	{max: '9', weight: 1},
	{literal: '.'},
	{max: '9', weight: 0.1},
	{max: '9', weight: 0.01},
	{max: '9', weight: 0.001},
}

// IsLiteral reports whether pos holds a separator that is never editable.
// Positions outside the layout are treated as literal.
func IsLiteral(pos int) bool {
	if pos < 0 || pos >= Width {
		return true
	}
	return layout[pos].literal != 0
}

// Weight returns the decimal weight in seconds of the digit at pos, or zero
// for literal positions.
func Weight(pos int) float64 {
	if IsLiteral(pos) {
		return 0
	}
	return layout[pos].weight
}

// clampDigit applies the per-position digit bound. text is the current display
// string; the hour-units bound depends on the hour-tens digit it holds.
func clampDigit(pos int, digit byte, text string) byte {
	limit := layout[pos].max
	if pos == 1 && len(text) > 0 && text[0] == '2' {
		limit = '3'
	}
	if digit > limit {
		return limit
	}
	return digit
}

package timecode

import (
	"math"
	"strconv"
	"strings"
)

// Width is the length of every formatted timecode.
const Width = 12

// maxFormattable is the largest value the two-digit hour field can show.
const maxFormattable = 99*3600 + 59*60 + 59 + 0.999

// RoundMillis rounds seconds to millisecond resolution.
func RoundMillis(seconds float64) float64 {
	return math.Round(seconds*1000) / 1000
}

// Format renders seconds as HH:MM:SS.mmm.
func Format(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	if seconds > maxFormattable {
		seconds = maxFormattable
	}
	total := int64(math.Round(seconds * 1000))
	millis := total % 1000
	secs := total / 1000
	hours := secs / 3600
	minutes := (secs % 3600) / 60
	secs %= 60

	var b strings.Builder
	b.Grow(Width)
	pad(&b, hours, 2)
	b.WriteByte(':')
	pad(&b, minutes, 2)
	b.WriteByte(':')
	pad(&b, secs, 2)
	b.WriteByte('.')
	pad(&b, millis, 3)
	return b.String()
}

func pad(b *strings.Builder, v int64, width int) {
	s := strconv.FormatInt(v, 10)
	for i := len(s); i < width; i++ {
		b.WriteByte('0')
	}
	b.WriteString(s)
}

// Parse converts HH:MM:SS.mmm back to seconds. Fields that fail to parse
// count as zero.
func Parse(text string) float64 {
	clock, fraction, _ := strings.Cut(text, ".")
	parts := strings.Split(clock, ":")
	var hours, minutes, secs int64
	if len(parts) == 3 {
		hours = atoi(parts[0])
		minutes = atoi(parts[1])
		secs = atoi(parts[2])
	}
	millis := atoi(fraction)
	total := (hours*3600+minutes*60+secs)*1000 + millis
	return float64(total) / 1000
}

func atoi(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

package timecode_test

import (
	"testing"

	"clipmark/internal/timecode"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00.000"},
		{1.5, "00:00:01.500"},
		{61.25, "00:01:01.250"},
		{3600, "01:00:00.000"},
		{86400, "24:00:00.000"},
		{212.0456, "00:03:32.046"},
		{59.9996, "00:01:00.000"},
		{-4, "00:00:00.000"},
		{1e9, "99:59:59.999"},
	}
	for _, tc := range cases {
		got := timecode.Format(tc.seconds)
		if got != tc.want {
			t.Fatalf("Format(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
		if len(got) != timecode.Width {
			t.Fatalf("Format(%v) produced %d characters", tc.seconds, len(got))
		}
	}
}

func TestParse(t *testing.T) {
	cases := map[string]float64{
		"00:00:00.000": 0,
		"00:00:01.500": 1.5,
		"01:02:03.004": 3723.004,
		"24:00:00.000": 86400,
	}
	for text, want := range cases {
		if got := timecode.Parse(text); got != want {
			t.Fatalf("Parse(%q) = %v, want %v", text, got, want)
		}
	}
}

func TestRoundTripAtMillisecondResolution(t *testing.T) {
	const maxDuration = 7322.5
	for ms := int64(0); ms <= int64(maxDuration*1000); ms += 997 {
		s := float64(ms) / 1000
		if got := timecode.Parse(timecode.Format(s)); got != s {
			t.Fatalf("round trip of %v returned %v", s, got)
		}
	}
	for _, s := range []float64{0.0004, 0.0005, 10.12345, 3599.9999} {
		if got, want := timecode.Parse(timecode.Format(s)), timecode.RoundMillis(s); got != want {
			t.Fatalf("round trip of %v returned %v, want %v", s, got, want)
		}
	}
}

func TestWeightAndLiterals(t *testing.T) {
	weights := map[int]float64{0: 36000, 1: 3600, 3: 600, 4: 60, 6: 10, 7: 1, 9: 0.1, 10: 0.01, 11: 0.001}
	for pos := 0; pos < timecode.Width; pos++ {
		want, editable := weights[pos]
		if timecode.IsLiteral(pos) == editable {
			t.Fatalf("position %d literal mismatch", pos)
		}
		if got := timecode.Weight(pos); got != want {
			t.Fatalf("Weight(%d) = %v, want %v", pos, got, want)
		}
	}
	if !timecode.IsLiteral(-1) || !timecode.IsLiteral(timecode.Width) {
		t.Fatal("out of range positions must be literal")
	}
}

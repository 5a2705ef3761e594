package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "talk", want: "talk"},
		{name: "timecode", in: "00:01:05.250", want: "00-01-05.250"},
		{name: "separators", in: "a/b\\c", want: "a-b-c"},
		{name: "removed", in: `what?"<>|`, want: "what"},
		{name: "spaces", in: "  my   talk  ", want: "my_talk"},
		{name: "dots only", in: "..", want: "clip"},
		{name: "empty", in: "   ", want: "clip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFileName(tt.in, "clip"); got != tt.want {
				t.Fatalf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

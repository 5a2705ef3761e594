package playback

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// State mirrors the embedded player's numeric state codes.
type State int

const (
	Unstarted State = -1
	Ended     State = 0
	Playing   State = 1
	Paused    State = 2
	Buffering State = 3
	Cued      State = 5
)

var stateNames = map[State]string{
	Unstarted: "unstarted",
	Ended:     "ended",
	Playing:   "playing",
	Paused:    "paused",
	Buffering: "buffering",
	Cued:      "cued",
}

var titleCaser = cases.Title(language.English)

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Label is the display form used in tables and the terminal editor.
func (s State) Label() string {
	return titleCaser.String(s.String())
}

// Active reports whether the player is playing.
func (s State) Active() bool { return s == Playing }

// Inactive reports whether nothing has been started yet or playback finished.
// A toggle from an inactive state loads the video before playing.
func (s State) Inactive() bool { return s == Unstarted || s == Ended }

// ParseState accepts either the name or the numeric code.
func ParseState(value string) (State, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for state, name := range stateNames {
		if name == value || fmt.Sprint(int(state)) == value {
			return state, nil
		}
	}
	return Unstarted, fmt.Errorf("unknown playback state %q", value)
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

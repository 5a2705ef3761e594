// Package deps reports whether the external programs clipmark shells out to
// are installed.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"clipmark/internal/config"
)

// Requirement defines an external dependency clipmark relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// Requirements lists the binaries the configuration needs. mpv is required
// only when it is the playback backend.
func Requirements(cfg *config.Config) []Requirement {
	reqs := []Requirement{
		{Name: "FFmpeg", Command: "ffmpeg", Description: "Cuts clips for export", Optional: true},
		{Name: "FFprobe", Command: "ffprobe", Description: "Reads the duration of local media", Optional: true},
	}
	mpv := Requirement{Name: "mpv", Command: "mpv", Description: "Playback surface", Optional: true}
	if cfg != nil && cfg.Playback.Backend == "mpv" {
		mpv.Optional = false
	}
	return append(reqs, mpv)
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Command = path
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var out []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			out = append(out, s)
		}
	}
	return out
}

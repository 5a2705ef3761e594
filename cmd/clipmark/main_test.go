package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipmark/internal/clips"
)

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

// writeTestConfig points every directory into a temp dir and uses the
// file backend so state survives between command invocations.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	path := filepath.Join(base, "clipmark.toml")
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[storage]
backend = "file"

[validation]
check_availability = false

[export]
output_dir = %q

[logging]
level = "error"
`, filepath.Join(base, "data"), filepath.Join(base, "logs"), filepath.Join(base, "exports"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestTimecodeCommands(t *testing.T) {
	out, _, err := runCLI(t, []string{"timecode", "format", "3725.5"}, "")
	if err != nil {
		t.Fatalf("timecode format: %v", err)
	}
	requireContains(t, out, "01:02:05.500")

	out, _, err = runCLI(t, []string{"--json", "timecode", "parse", "00:01:30.250"}, "")
	if err != nil {
		t.Fatalf("timecode parse: %v", err)
	}
	var got struct {
		Seconds float64 `json:"seconds"`
		Text    string  `json:"text"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.Seconds != 90.25 || got.Text != "00:01:30.250" {
		t.Fatalf("unexpected parse result: %+v", got)
	}

	if _, _, err := runCLI(t, []string{"timecode", "format", "abc"}, ""); err == nil {
		t.Fatalf("expected an error for non-numeric seconds")
	}
}

func TestVideoAndClipWorkflow(t *testing.T) {
	configPath := writeTestConfig(t)
	const video = "https://youtu.be/dQw4w9WgXcQ"

	out, _, err := runCLI(t, []string{"video", "open", video, "--duration", "120"}, configPath)
	if err != nil {
		t.Fatalf("video open: %v", err)
	}
	requireContains(t, out, "dQw4w9WgXcQ")
	requireContains(t, out, "00:02:00.000")

	out, _, err = runCLI(t, []string{"--json", "clip", "add", "dQw4w9WgXcQ", "--start", "10", "--end", "00:00:20"}, configPath)
	if err != nil {
		t.Fatalf("clip add: %v", err)
	}
	var added clips.Clip
	if err := json.Unmarshal([]byte(out), &added); err != nil {
		t.Fatalf("decode clip: %v", err)
	}
	if added.ID == "" || added.Start != 10 || added.End != 20 {
		t.Fatalf("unexpected clip: %+v", added)
	}

	out, _, err = runCLI(t, []string{"clip", "set", "dQw4w9WgXcQ", added.ID, "--start", "30", "--end", "40"}, configPath)
	if err != nil {
		t.Fatalf("clip set: %v", err)
	}
	requireContains(t, out, "00:00:30.000 → 00:00:40.000")

	out, _, err = runCLI(t, []string{"--json", "video", "show", video}, configPath)
	if err != nil {
		t.Fatalf("video show: %v", err)
	}
	var shown videoOutput
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("decode video: %v", err)
	}
	if len(shown.Clips) != 1 || shown.Clips[0].Start != 30 || shown.Clips[0].End != 40 {
		t.Fatalf("unexpected stored clips: %+v", shown.Clips)
	}

	out, _, err = runCLI(t, []string{"clip", "list", "dQw4w9WgXcQ", "--from", "0", "--to", "5"}, configPath)
	if err != nil {
		t.Fatalf("clip list: %v", err)
	}
	requireContains(t, out, "No clips")

	if _, _, err := runCLI(t, []string{"video", "delete", "dQw4w9WgXcQ"}, configPath); err == nil {
		t.Fatalf("expected delete to refuse a video with clips")
	}

	if _, _, err := runCLI(t, []string{"clip", "rm", "dQw4w9WgXcQ", added.ID}, configPath); err != nil {
		t.Fatalf("clip rm: %v", err)
	}
	out, _, err = runCLI(t, []string{"video", "delete", "dQw4w9WgXcQ"}, configPath)
	if err != nil {
		t.Fatalf("video delete: %v", err)
	}
	requireContains(t, out, "Deleted dQw4w9WgXcQ")

	if _, _, err := runCLI(t, []string{"video", "show", "dQw4w9WgXcQ"}, configPath); err == nil {
		t.Fatalf("expected show to fail after delete")
	}
}

func TestVideoOpenRejectsInvalidID(t *testing.T) {
	configPath := writeTestConfig(t)
	_, _, err := runCLI(t, []string{"video", "open", "not a video"}, configPath)
	if err == nil {
		t.Fatalf("expected invalid id error")
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	configPath := writeTestConfig(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Storage backend: file")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatalf("expected init to refuse overwriting")
	}
}

func TestStatusReportsStorage(t *testing.T) {
	configPath := writeTestConfig(t)
	out, _, err := runCLI(t, []string{"status"}, configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Storage:  file (ok)")
	requireContains(t, out, "FFmpeg")
}

package deps

import (
	"os"
	"path/filepath"
	"testing"

	"clipmark/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}
	if got := Missing(results); len(got) != 2 {
		t.Fatalf("expected two missing required binaries, got %#v", got)
	}
}

func TestRequirementsFollowPlaybackBackend(t *testing.T) {
	cfg := config.Default()
	for _, req := range Requirements(&cfg) {
		if !req.Optional {
			t.Fatalf("expected every requirement optional for headless playback, got %#v", req)
		}
	}

	cfg.Playback.Backend = "mpv"
	var mpv *Requirement
	reqs := Requirements(&cfg)
	for i := range reqs {
		if reqs[i].Command == "mpv" {
			mpv = &reqs[i]
		}
	}
	if mpv == nil || mpv.Optional {
		t.Fatalf("expected mpv to be required, got %#v", mpv)
	}
}

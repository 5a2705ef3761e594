package export_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"clipmark/internal/clips"
	"clipmark/internal/export"
	"clipmark/internal/logging"
	"clipmark/internal/testsupport"
)

func TestCommandArgs(t *testing.T) {
	args := export.Command("in.mp4", "out.mp4", clips.Clip{ID: "c1", Start: 65.25, End: 70.5}).GetArgs()

	for _, pair := range [][2]string{{"-ss", "65.250"}, {"-i", "in.mp4"}, {"-t", "5.250"}, {"-c", "copy"}} {
		idx := slices.Index(args, pair[0])
		if idx < 0 || idx+1 >= len(args) || args[idx+1] != pair[1] {
			t.Fatalf("expected %s %s in %v", pair[0], pair[1], args)
		}
	}
	if slices.Index(args, "-ss") > slices.Index(args, "-i") {
		t.Fatalf("seek must precede the input: %v", args)
	}
	if !slices.Contains(args, "-y") || !slices.Contains(args, "out.mp4") {
		t.Fatalf("expected overwrite and output in %v", args)
	}
}

func TestOutputPath(t *testing.T) {
	e := export.New("/exports", logging.NewNop())
	got := e.OutputPath("/videos/talk.mp4", clips.Clip{Start: 65.25, End: 120})
	want := filepath.Join("/exports", "talk_00-01-05.250_00-02-00.000.mp4")
	if got != want {
		t.Fatalf("OutputPath = %q, want %q", got, want)
	}
}

func TestProbeReadsDuration(t *testing.T) {
	testsupport.StubBinaries(t, filepath.Join(t.TempDir(), "bin"), map[string]string{
		"ffprobe": `echo '{"format":{"duration":"212.480000"}}'`,
	})
	got, err := export.Probe(context.Background(), "talk.mp4")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if got != 212.48 {
		t.Fatalf("duration = %v", got)
	}
}

func TestExportRunsFFmpeg(t *testing.T) {
	base := t.TempDir()
	testsupport.StubBinaries(t, filepath.Join(base, "bin"), map[string]string{
		"ffmpeg": `out=""; for a; do case "$a" in *.mp4) out="$a";; esac; done; : > "$out"`,
	})
	src := filepath.Join(base, "talk.mp4")
	if err := os.WriteFile(src, []byte("media"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	e := export.New(filepath.Join(base, "out"), nil)
	paths, err := e.ExportAll(context.Background(), src, []clips.Clip{
		{ID: "a", Start: 0, End: 5},
		{ID: "empty", Start: 7, End: 7},
		{ID: "b", Start: 10, End: 12.5},
	})
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected two exports, got %v", paths)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s to exist: %v", p, err)
		}
	}
}

func TestExportRejectsEmptyClip(t *testing.T) {
	e := export.New(t.TempDir(), nil)
	_, err := e.Export(context.Background(), "talk.mp4", clips.Clip{ID: "z", Start: 3, End: 3})
	if !errors.Is(err, export.ErrEmptyClip) {
		t.Fatalf("expected ErrEmptyClip, got %v", err)
	}
}

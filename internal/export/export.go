package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"clipmark/internal/clips"
	"clipmark/internal/logging"
	"clipmark/internal/textutil"
	"clipmark/internal/timecode"
)

const defaultProbeTimeout = 30 * time.Second

// ErrEmptyClip rejects clips with no length.
var ErrEmptyClip = errors.New("clip has zero length")

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe returns the duration of the media at path in seconds.
func Probe(ctx context.Context, path string) (float64, error) {
	timeout := defaultProbeTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	raw, err := ffmpeg.ProbeWithTimeout(path, timeout, ffmpeg.KwArgs{})
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return 0, fmt.Errorf("decode ffprobe output: %w", err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(out.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", out.Format.Duration, err)
	}
	return duration, nil
}

// Command builds the ffmpeg invocation that copies clip out of src into dst.
func Command(src, dst string, clip clips.Clip) *ffmpeg.Stream {
	return ffmpeg.Input(src, ffmpeg.KwArgs{"ss": seconds(clip.Start)}).
		Output(dst, ffmpeg.KwArgs{
			"t":                 seconds(clip.Length()),
			"c":                 "copy",
			"avoid_negative_ts": "make_zero",
		}).
		OverWriteOutput()
}

// Run executes a compiled ffmpeg stream, killing it when ctx ends.
func Run(ctx context.Context, stream *ffmpeg.Stream) error {
	compiled := stream.Compile()
	cmd := exec.CommandContext(ctx, compiled.Path, compiled.Args[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w: %s", err, lastLine(stderr.String()))
	}
	return nil
}

// Exporter writes clips into an output directory.
type Exporter struct {
	outputDir string
	logger    *slog.Logger
}

// New returns an exporter writing into outputDir.
func New(outputDir string, logger *slog.Logger) *Exporter {
	return &Exporter{outputDir: outputDir, logger: logging.NewComponentLogger(logger, "export")}
}

// OutputPath names the file for clip, e.g. talk_00-01-05.250_00-02-00.000.mp4.
func (e *Exporter) OutputPath(src string, clip clips.Clip) string {
	ext := filepath.Ext(src)
	base := textutil.SanitizeFileName(strings.TrimSuffix(filepath.Base(src), ext), "clip")
	name := fmt.Sprintf("%s_%s_%s%s", base, stamp(clip.Start), stamp(clip.End), ext)
	return filepath.Join(e.outputDir, name)
}

// Export cuts one clip and returns the written path.
func (e *Exporter) Export(ctx context.Context, src string, clip clips.Clip) (string, error) {
	if clip.Length() <= 0 {
		return "", fmt.Errorf("export clip %s: %w", clip.ID, ErrEmptyClip)
	}
	if _, err := os.Stat(src); err != nil {
		return "", fmt.Errorf("export source: %w", err)
	}
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	dst := e.OutputPath(src, clip)
	started := time.Now()
	if err := Run(ctx, Command(src, dst, clip)); err != nil {
		return "", fmt.Errorf("export clip %s: %w", clip.ID, err)
	}
	e.logger.Info("clip exported",
		logging.String(logging.FieldClipID, clip.ID),
		logging.String("path", dst),
		logging.Duration("elapsed", time.Since(started)))
	return dst, nil
}

// ExportAll exports every non-empty clip, stopping at the first failure.
func (e *Exporter) ExportAll(ctx context.Context, src string, list []clips.Clip) ([]string, error) {
	paths := make([]string, 0, len(list))
	for _, clip := range list {
		if clip.Length() <= 0 {
			e.logger.Debug("skipping empty clip", logging.String(logging.FieldClipID, clip.ID))
			continue
		}
		path, err := e.Export(ctx, src, clip)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func seconds(v float64) string {
	return strconv.FormatFloat(timecode.RoundMillis(v), 'f', 3, 64)
}

func stamp(v float64) string {
	return textutil.SanitizeFileName(timecode.Format(v), "0")
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.LastIndexByte(s, '\n'); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

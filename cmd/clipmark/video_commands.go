package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"clipmark/internal/clips"
	"clipmark/internal/library"
	"clipmark/internal/timecode"
	"clipmark/internal/videoid"
)

func newVideoCommand(ctx *commandContext) *cobra.Command {
	videoCmd := &cobra.Command{
		Use:   "video",
		Short: "Open, inspect, and remove stored videos",
	}
	videoCmd.AddCommand(newVideoOpenCommand(ctx))
	videoCmd.AddCommand(newVideoShowCommand(ctx))
	videoCmd.AddCommand(newVideoClearCommand(ctx))
	videoCmd.AddCommand(newVideoDeleteCommand(ctx))
	return videoCmd
}

func newVideoOpenCommand(ctx *commandContext) *cobra.Command {
	var duration float64
	cmd := &cobra.Command{
		Use:   "open <video-id|url|file>",
		Short: "Validate a video and create its stored entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(lib *library.Library, logger *slog.Logger) error {
				id, meta, err := ctx.resolveVideo(cmd.Context(), args[0], logger)
				if err != nil {
					return err
				}
				if duration > 0 {
					meta.Duration = duration
				}
				video, err := lib.Open(cmd.Context(), id, meta)
				if err != nil {
					return err
				}
				if duration > 0 && video.Metadata.Duration != duration {
					if _, err := lib.SetDuration(cmd.Context(), id, duration); err != nil {
						return err
					}
					video, _ = lib.Registry().Snapshot(id)
				}
				return printVideo(cmd, ctx, id, video)
			})
		},
	}
	cmd.Flags().Float64Var(&duration, "duration", 0, "Media duration in seconds, when known")
	return cmd
}

func newVideoShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <video>",
		Short: "Show the stored clips of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(lib *library.Library, _ *slog.Logger) error {
				id := normalizeID(args[0])
				video, found, err := lib.Stored(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("video %s: %w", id, clips.ErrUnknownVideo)
				}
				return printVideo(cmd, ctx, id, video)
			})
		},
	}
}

func newVideoClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <video>",
		Short: "Remove every clip of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(lib *library.Library, _ *slog.Logger) error {
				id, err := openStored(cmd, lib, args[0])
				if err != nil {
					return err
				}
				if err := lib.ClearClips(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared clips of %s\n", id)
				return nil
			})
		},
	}
}

func newVideoDeleteCommand(ctx *commandContext) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "delete <video>",
		Short: "Delete a stored video (it must have no clips unless --force)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(lib *library.Library, _ *slog.Logger) error {
				id, err := openStored(cmd, lib, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if force {
					if err := lib.ClearVideo(cmd.Context(), id); err != nil {
						return err
					}
					fmt.Fprintf(out, "Deleted %s\n", id)
					return nil
				}
				deleted, err := lib.DeleteVideo(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !deleted {
					return fmt.Errorf("video %s still has clips; clear them first or pass --force", id)
				}
				fmt.Fprintf(out, "Deleted %s\n", id)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Delete even when clips remain")
	return cmd
}

// openStored loads an existing stored video into the registry.
func openStored(cmd *cobra.Command, lib *library.Library, input string) (string, error) {
	id := normalizeID(input)
	video, found, err := lib.Stored(cmd.Context(), id)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("video %s: %w", id, clips.ErrUnknownVideo)
	}
	if _, err := lib.Open(cmd.Context(), id, video.Metadata); err != nil {
		return "", err
	}
	return id, nil
}

// normalizeID maps user input onto the stored id without network access.
func normalizeID(input string) string {
	if info, err := os.Stat(input); err == nil && info.Mode().IsRegular() {
		if abs, err := filepath.Abs(input); err == nil {
			return abs
		}
	}
	if id := videoid.Extract(input); id != "" {
		return id
	}
	return input
}

type videoOutput struct {
	VideoID  string       `json:"videoId"`
	Name     string       `json:"name,omitempty"`
	Duration float64      `json:"duration"`
	Clips    []clips.Clip `json:"clips"`
}

func printVideo(cmd *cobra.Command, ctx *commandContext, id string, video clips.Video) error {
	if ctx.jsonOutput() {
		list := video.Clips
		if list == nil {
			list = []clips.Clip{}
		}
		return writeJSON(cmd, videoOutput{
			VideoID:  id,
			Name:     video.Metadata.Name,
			Duration: video.Metadata.Duration,
			Clips:    list,
		})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Video:    %s\n", id)
	if video.Metadata.Name != "" {
		fmt.Fprintf(out, "Name:     %s\n", video.Metadata.Name)
	}
	fmt.Fprintf(out, "Duration: %s\n", timecode.Format(video.Metadata.Duration))
	if len(video.Clips) == 0 {
		fmt.Fprintln(out, "No clips")
		return nil
	}
	fmt.Fprintln(out, renderClips(out, video.Clips))
	return nil
}

func renderClips(out io.Writer, list []clips.Clip) string {
	rows := make([][]string, 0, len(list))
	for i, c := range list {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.ID,
			timecode.Format(c.Start),
			timecode.Format(c.End),
			timecode.Format(c.Length()),
		})
	}
	return renderTable(out, []string{"#", "Clip", "Start", "End", "Length"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight})
}

package main

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/spf13/cobra"

	"clipmark/internal/clips"
	"clipmark/internal/editsync"
	"clipmark/internal/library"
	"clipmark/internal/timecode"
)

func newClipCommand(ctx *commandContext) *cobra.Command {
	clipCmd := &cobra.Command{
		Use:   "clip",
		Short: "List and edit the clips of a stored video",
	}
	clipCmd.AddCommand(newClipListCommand(ctx))
	clipCmd.AddCommand(newClipAddCommand(ctx))
	clipCmd.AddCommand(newClipSetCommand(ctx))
	clipCmd.AddCommand(newClipRemoveCommand(ctx))
	return clipCmd
}

func newClipListCommand(ctx *commandContext) *cobra.Command {
	var fromFlag, toFlag string
	cmd := &cobra.Command{
		Use:   "list <video>",
		Short: "List clips, optionally only those overlapping --from/--to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(lib *library.Library, _ *slog.Logger) error {
				id, err := openStored(cmd, lib, args[0])
				if err != nil {
					return err
				}
				list := lib.Registry().GetClips(id)
				if fromFlag != "" || toFlag != "" {
					from, to := 0.0, math.Inf(1)
					if fromFlag != "" {
						if from, err = parseSeconds(fromFlag); err != nil {
							return err
						}
					}
					if toFlag != "" {
						if to, err = parseSeconds(toFlag); err != nil {
							return err
						}
					}
					list = lib.Registry().GetClipsInTimeRange(id, from, to)
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, list)
				}
				out := cmd.OutOrStdout()
				if len(list) == 0 {
					fmt.Fprintln(out, "No clips")
					return nil
				}
				fmt.Fprintln(out, renderClips(out, list))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&fromFlag, "from", "", "Range start (seconds or HH:MM:SS.mmm)")
	cmd.Flags().StringVar(&toFlag, "to", "", "Range end (seconds or HH:MM:SS.mmm)")
	return cmd
}

func newClipAddCommand(ctx *commandContext) *cobra.Command {
	var startFlag, endFlag string
	cmd := &cobra.Command{
		Use:   "add <video>",
		Short: "Add a clip (defaults to the whole video)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(lib *library.Library, _ *slog.Logger) error {
				id, err := openStored(cmd, lib, args[0])
				if err != nil {
					return err
				}
				meta, _ := lib.Registry().Metadata(id)
				clip := clips.Clip{ID: lib.NewClipID(), Start: 0, End: meta.Duration}
				if startFlag != "" {
					if clip.Start, err = parseSeconds(startFlag); err != nil {
						return err
					}
				}
				if endFlag != "" {
					if clip.End, err = parseSeconds(endFlag); err != nil {
						return err
					}
				}
				if err := lib.AddClip(cmd.Context(), id, clip); err != nil {
					return err
				}
				return printClip(cmd, ctx, clip)
			})
		},
	}
	cmd.Flags().StringVar(&startFlag, "start", "", "Clip start (seconds or HH:MM:SS.mmm)")
	cmd.Flags().StringVar(&endFlag, "end", "", "Clip end (seconds or HH:MM:SS.mmm)")
	return cmd
}

func newClipSetCommand(ctx *commandContext) *cobra.Command {
	var startFlag, endFlag string
	cmd := &cobra.Command{
		Use:   "set <video> <clip>",
		Short: "Move the start and/or end of a clip",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if startFlag == "" && endFlag == "" {
				return fmt.Errorf("nothing to change: pass --start and/or --end")
			}
			return ctx.withLibrary(cmd, func(lib *library.Library, logger *slog.Logger) error {
				id, err := openStored(cmd, lib, args[0])
				if err != nil {
					return err
				}
				clipID := args[1]
				ctrl, err := editsync.New(editsync.Options{VideoID: id, Library: lib, Logger: logger})
				if err != nil {
					return err
				}
				defer ctrl.Close()
				if err := ctrl.Select(cmd.Context(), clipID); err != nil {
					return err
				}

				edits, err := clipEdits(ctrl, clipID, startFlag, endFlag)
				if err != nil {
					return err
				}
				for _, e := range edits {
					if _, err := ctrl.ApplyValue(clipID, e.endpoint, e.value); err != nil {
						return err
					}
				}
				if err := ctrl.Flush(cmd.Context()); err != nil {
					return err
				}
				clip, _ := ctrl.Clip(clipID)
				return printClip(cmd, ctx, clip)
			})
		},
	}
	cmd.Flags().StringVar(&startFlag, "start", "", "New start (seconds or HH:MM:SS.mmm)")
	cmd.Flags().StringVar(&endFlag, "end", "", "New end (seconds or HH:MM:SS.mmm)")
	return cmd
}

type endpointEdit struct {
	endpoint editsync.Endpoint
	value    float64
}

// clipEdits orders the requested endpoint moves so that a start moved past
// the current end is applied after the end has moved out of the way.
func clipEdits(ctrl *editsync.Controller, clipID, startFlag, endFlag string) ([]endpointEdit, error) {
	current, ok := ctrl.Clip(clipID)
	if !ok {
		return nil, fmt.Errorf("clip %s: %w", clipID, clips.ErrNotFound)
	}
	var edits []endpointEdit
	if startFlag != "" {
		v, err := parseSeconds(startFlag)
		if err != nil {
			return nil, err
		}
		edits = append(edits, endpointEdit{editsync.Start, v})
	}
	if endFlag != "" {
		v, err := parseSeconds(endFlag)
		if err != nil {
			return nil, err
		}
		edits = append(edits, endpointEdit{editsync.End, v})
	}
	if len(edits) == 2 && edits[0].value > current.End {
		edits[0], edits[1] = edits[1], edits[0]
	}
	return edits, nil
}

func newClipRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <video> <clip>",
		Aliases: []string{"remove"},
		Short:   "Remove a clip",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(lib *library.Library, _ *slog.Logger) error {
				id, err := openStored(cmd, lib, args[0])
				if err != nil {
					return err
				}
				if err := lib.RemoveClip(cmd.Context(), id, args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed clip %s\n", args[1])
				return nil
			})
		},
	}
}

func printClip(cmd *cobra.Command, ctx *commandContext, clip clips.Clip) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, clip)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s → %s\n", clip.ID, timecode.Format(clip.Start), timecode.Format(clip.End))
	return nil
}

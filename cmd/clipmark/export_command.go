package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"clipmark/internal/clips"
	"clipmark/internal/export"
	"clipmark/internal/library"
)

const exportLong = `Cut the clips of a video out of a local media file with ffmpeg.
Clips are stream copies, so each starts on the nearest keyframe.`

func newExportCommand(ctx *commandContext) *cobra.Command {
	var clipIDs []string
	var outputDir string
	cmd := &cobra.Command{
		Use:   "export <video> <source-file>",
		Short: "Cut the clips of a video out of a local media file",
		Long:  exportLong,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withLibrary(cmd, func(lib *library.Library, logger *slog.Logger) error {
				id, err := openStored(cmd, lib, args[0])
				if err != nil {
					return err
				}
				list := lib.Registry().GetClips(id)
				if len(clipIDs) > 0 {
					list = list[:0:0]
					for _, clipID := range clipIDs {
						clip, ok := lib.Registry().GetClip(id, clipID)
						if !ok {
							return fmt.Errorf("clip %s: %w", clipID, clips.ErrNotFound)
						}
						list = append(list, clip)
					}
				}
				if len(list) == 0 {
					return fmt.Errorf("video %s has no clips to export", id)
				}

				dir := outputDir
				if dir == "" {
					dir = cfg.Export.OutputDir
				}
				paths, err := export.New(dir, logger).ExportAll(cmd.Context(), args[1], list)
				if ctx.jsonOutput() {
					if jsonErr := writeJSON(cmd, paths); jsonErr != nil {
						return jsonErr
					}
				} else {
					for _, p := range paths {
						fmt.Fprintln(cmd.OutOrStdout(), p)
					}
				}
				return err
			})
		},
	}
	cmd.Flags().StringSliceVar(&clipIDs, "clip", nil, "Export only these clip ids")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (defaults to export.output_dir)")
	return cmd
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"clipmark/internal/timecode"
)

func newTimecodeCommand(ctx *commandContext) *cobra.Command {
	timecodeCmd := &cobra.Command{
		Use:         "timecode",
		Short:       "Convert between seconds and HH:MM:SS.mmm",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}

	timecodeCmd.AddCommand(&cobra.Command{
		Use:   "format <seconds>",
		Short: "Format seconds as a timecode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid seconds %q: %w", args[0], err)
			}
			return printTimecode(cmd, ctx, seconds)
		},
	})
	timecodeCmd.AddCommand(&cobra.Command{
		Use:   "parse <HH:MM:SS.mmm>",
		Short: "Parse a timecode into seconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printTimecode(cmd, ctx, timecode.Parse(args[0]))
		},
	})
	return timecodeCmd
}

func printTimecode(cmd *cobra.Command, ctx *commandContext, seconds float64) error {
	text := timecode.Format(seconds)
	if ctx.jsonOutput() {
		return writeJSON(cmd, map[string]any{"seconds": timecode.RoundMillis(seconds), "text": text})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", text, strconv.FormatFloat(timecode.RoundMillis(seconds), 'f', -1, 64))
	return nil
}

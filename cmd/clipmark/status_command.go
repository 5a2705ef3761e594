package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipmark/internal/deps"
	"clipmark/internal/storage"
)

type statusOutput struct {
	Storage      string        `json:"storage"`
	StorageError string        `json:"storageError,omitempty"`
	Playback     string        `json:"playback"`
	Dependencies []deps.Status `json:"dependencies"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check storage and external programs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			report := statusOutput{
				Storage:      cfg.Storage.Backend,
				Playback:     cfg.Playback.Backend,
				Dependencies: deps.CheckBinaries(deps.Requirements(cfg)),
			}
			if adapter, err := storage.Open(cmd.Context(), cfg); err != nil {
				report.StorageError = err.Error()
			} else {
				_ = adapter.Close()
			}

			if ctx.jsonOutput() {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				storageState := "ok"
				if report.StorageError != "" {
					storageState = report.StorageError
				}
				fmt.Fprintf(out, "Storage:  %s (%s)\n", report.Storage, storageState)
				fmt.Fprintf(out, "Playback: %s\n", report.Playback)
				rows := make([][]string, 0, len(report.Dependencies))
				for _, dep := range report.Dependencies {
					state := "available"
					if !dep.Available {
						state = dep.Detail
					}
					rows = append(rows, []string{dep.Name, dep.Command, yesNo(!dep.Optional), state})
				}
				fmt.Fprintln(out, renderTable(out, []string{"Dependency", "Command", "Required", "Status"}, rows, nil))
			}

			if missing := deps.Missing(report.Dependencies); len(missing) > 0 {
				return fmt.Errorf("%d required dependencies missing", len(missing))
			}
			if report.StorageError != "" {
				return fmt.Errorf("storage unavailable: %s", report.StorageError)
			}
			return nil
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

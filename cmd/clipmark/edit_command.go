package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"clipmark/internal/config"
	"clipmark/internal/editsync"
	"clipmark/internal/library"
	"clipmark/internal/logging"
	"clipmark/internal/playback"
	"clipmark/internal/tui"
)

func newEditCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <video-id|url|file>",
		Short: "Edit clips interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			session, err := library.AcquireSession(cfg.Paths.DataDir)
			if err != nil {
				return err
			}
			defer session.Release()

			// The terminal belongs to the editor, so logs go to the file only.
			logger, err := logging.NewForFile(cfg)
			if err != nil {
				return err
			}
			lib, closeLib, err := ctx.openLibrary(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer closeLib()

			id, meta, err := ctx.resolveVideo(cmd.Context(), args[0], logger)
			if err != nil {
				return err
			}
			if _, err := lib.Open(cmd.Context(), id, meta); err != nil {
				logging.WarnWithContext(logger, "video entry not persisted", "persist_failed",
					logging.String(logging.FieldVideoID, id),
					logging.Error(err))
			}

			player, release, err := attachPlayer(cfg, logger)
			if err != nil {
				return err
			}
			defer release()

			sessionCtx := logging.WithSessionID(cmd.Context(), uuid.NewString())
			ctrl, err := editsync.New(editsync.Options{
				VideoID:   id,
				Library:   lib,
				Player:    player.handle,
				Debounce:  cfg.DebounceWindow(),
				Logger:    logging.WithContext(sessionCtx, logger),
				SeekAhead: cfg.Playback.SeekAhead,
			})
			if err != nil {
				return err
			}
			defer ctrl.Close()
			if player.notifier != nil {
				ctrl.Attach(player.notifier)
			}

			if err := tui.Run(cmd.Context(), ctrl); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("editor: %w", err)
			}
			return ctrl.Err()
		},
	}
}

type attachedPlayer struct {
	handle   *playback.Handle
	notifier playback.Notifier
}

// attachPlayer opens the configured playback surface and binds it to a
// fresh handle. The returned function detaches and closes it.
func attachPlayer(cfg *config.Config, logger *slog.Logger) (attachedPlayer, func(), error) {
	surface, err := playback.Open(cfg, logger)
	if err != nil {
		return attachedPlayer{}, nil, err
	}
	handle := playback.NewHandle()
	if err := handle.Acquire(surface); err != nil {
		return attachedPlayer{}, nil, err
	}
	player := attachedPlayer{handle: handle}
	if n, ok := surface.(playback.Notifier); ok {
		player.notifier = n
	}
	release := func() {
		handle.Release()
		if closer, ok := surface.(io.Closer); ok {
			_ = closer.Close()
		}
	}
	return player, release, nil
}

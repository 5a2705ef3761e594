package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"clipmark/internal/api"
	"clipmark/internal/library"
	"clipmark/internal/logging"
	"clipmark/internal/videoid"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the clip editor over the local HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if bind == "" {
				bind = cfg.Paths.APIBind
			}
			session, err := library.AcquireSession(cfg.Paths.DataDir)
			if err != nil {
				return err
			}
			defer session.Release()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			lib, closeLib, err := ctx.openLibrary(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer closeLib()

			player, release, err := attachPlayer(cfg, logger)
			if err != nil {
				return err
			}
			defer release()

			var opts []videoid.Option
			if !cfg.Validation.CheckAvailability {
				opts = append(opts, videoid.WithoutAvailabilityCheck())
			}
			server, err := api.NewServer(api.Options{
				Library:             lib,
				Validator:           videoid.NewValidator(cfg.Validation.OEmbedURL, cfg.ValidationTimeout(), opts...),
				Player:              player.handle,
				Debounce:            cfg.DebounceWindow(),
				SeekAhead:           cfg.Playback.SeekAhead,
				PlaceholderDuration: cfg.Editor.PlaceholderDuration,
				Logger:              logger,
			})
			if err != nil {
				return err
			}

			listener, err := net.Listen("tcp", bind)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", bind, err)
			}
			httpServer := &http.Server{
				Handler:           server.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- httpServer.Serve(listener)
			}()
			logger.Info("api listening", logging.String("addr", listener.Addr().String()))
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", listener.Addr())

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("serve: %w", err)
				}
			case <-runCtx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logging.WarnWithContext(logger, "api shutdown incomplete", "shutdown_failed", logging.Error(err))
			}
			return server.Close(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (defaults to paths.api_bind)")
	return cmd
}

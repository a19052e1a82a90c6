package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"urlsentinel/internal/config"
	"urlsentinel/internal/logger"
	"urlsentinel/internal/metrics"
	"urlsentinel/internal/scanner"
	"urlsentinel/internal/server"
	"urlsentinel/internal/store"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	m := metrics.New()

	sc, err := scanner.NewFromConfig(cfg, m)
	if err != nil {
		return fmt.Errorf("failed to build scanner: %w", err)
	}

	st, err := store.NewFromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	recorder := store.NewAsyncRecorder(st, cfg.Store.QueueSize, store.DefaultWriteTimeout, m)

	var lister store.Lister
	if cfg.Store.Mode != config.StoreModeNone {
		lister = st
	}

	handler := server.NewHandler(cfg, sc, recorder, lister, m)

	srv := &http.Server{
		Addr:              cfg.App.Address(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("application starting",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("build_time", BuildTime),
		slog.String("host", cfg.App.Host),
		slog.Int("port", cfg.App.Port),
		slog.String("advertised_address", cfg.App.BaseURL()),
		slog.String("classifier_mode", string(cfg.Classifier.Mode)),
		slog.String("store_mode", string(cfg.Store.Mode)),
		slog.Int("trusted_domains", sc.TrustListSize()),
		slog.Bool("metrics", cfg.Metrics.Enabled),
		slog.String("log_level", cfg.Log.Level),
		slog.String("log_format", cfg.Log.Format))

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting http server", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", slog.String("error", err.Error()))
	}
	if err := recorder.Close(shutdownCtx); err != nil {
		log.Warn("pending scan records not written", slog.String("error", err.Error()))
	}

	return nil
}

package store

import (
	"context"
	"fmt"
	"log/slog"

	"urlsentinel/internal/config"
	"urlsentinel/internal/logger"
)

// NewFromConfig opens the store selected by cfg.Store.Mode.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Store, error) {
	log := logger.Get()

	switch cfg.Store.Mode {
	case config.StoreModeMem:
		log.Info("store initialized",
			slog.String("mode", "memory"),
			slog.Duration("ttl", cfg.Store.TTL))
		return NewMemoryStore(cfg.Store.TTL), nil
	case config.StoreModePostgres:
		pg, err := NewPostgresStore(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Info("store initialized", slog.String("mode", "postgres"))
		return pg, nil
	case config.StoreModeNone:
		log.Info("store initialized", slog.String("mode", "none"))
		return NewNoOpStore(), nil
	default:
		return nil, fmt.Errorf("unknown store mode '%s'", cfg.Store.Mode)
	}
}

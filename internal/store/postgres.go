package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"urlsentinel/internal/logger"
	"urlsentinel/pkg/models"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresStore appends scan records to the url_scans table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects, verifies the connection and applies any
// pending migrations.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid database url: %w", ErrPersistence, err)
	}
	cfg.MaxConns = 10
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %w", ErrPersistence, err)
	}

	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("%w: migrations: %w", ErrPersistence, err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return fmt.Errorf("%w: migrations: %w", ErrPersistence, err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("%w: migrate: %w", ErrPersistence, err)
	}

	for _, r := range results {
		logger.Get().Info("migration applied",
			slog.String("source", r.Source.Path),
			slog.Duration("duration", r.Duration))
	}

	return nil
}

func (p *PostgresStore) Record(ctx context.Context, rec models.ScanRecord) error {
	_, err := p.pool.Exec(ctx, `
        INSERT INTO url_scans (id, url, domain, risk_score, trust_status, url_type, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, rec.ID, rec.URL, rec.Domain, rec.RiskScore, string(rec.TrustStatus), string(rec.URLType), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert: %w", ErrPersistence, err)
	}
	return nil
}

func (p *PostgresStore) Recent(ctx context.Context, limit int) ([]models.ScanRecord, error) {
	rows, err := p.pool.Query(ctx, `
        SELECT id::text, url, domain, risk_score, trust_status, url_type, created_at
        FROM url_scans
        ORDER BY created_at DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", ErrPersistence, err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ScanRecord, error) {
		var rec models.ScanRecord
		var trustStatus, urlType string
		err := row.Scan(&rec.ID, &rec.URL, &rec.Domain, &rec.RiskScore, &trustStatus, &urlType, &rec.CreatedAt)
		rec.TrustStatus = models.TrustStatus(trustStatus)
		rec.URLType = models.URLType(urlType)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scan rows: %w", ErrPersistence, err)
	}

	return records, nil
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolSettings tunes the pgx pool. Zero values fall back to defaults
// sized for the blog's traffic shape: short bursts of admin writes over a
// steady trickle of public reads.
type PoolSettings struct {
	MaxConns          int32
	MinConns          int32
	ConnLifetime      time.Duration
	ConnIdleTime      time.Duration
	HealthCheckPeriod time.Duration
}

func (s PoolSettings) withDefaults() PoolSettings {
	if s.MaxConns <= 0 {
		s.MaxConns = 10
	}
	if s.MinConns < 0 {
		s.MinConns = 0
	}
	if s.ConnLifetime <= 0 {
		s.ConnLifetime = time.Hour
	}
	if s.ConnIdleTime <= 0 {
		s.ConnIdleTime = 10 * time.Minute
	}
	if s.HealthCheckPeriod <= 0 {
		s.HealthCheckPeriod = time.Minute
	}

	return s
}

func (s PoolSettings) apply(cfg *pgxpool.Config) {
	cfg.MaxConns = s.MaxConns
	cfg.MinConns = s.MinConns
	cfg.MaxConnLifetime = s.ConnLifetime
	cfg.MaxConnIdleTime = s.ConnIdleTime
	cfg.HealthCheckPeriod = s.HealthCheckPeriod
}

type DB struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string, settings PoolSettings) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	settings = settings.withDefaults()
	settings.apply(cfg)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("blog database pool ready",
		"max_conns", settings.MaxConns,
		"min_conns", settings.MinConns,
		"conn_lifetime", settings.ConnLifetime.String())
	return &DB{Pool: pool}, nil
}

func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

func (db *DB) Health(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

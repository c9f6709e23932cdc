package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"acai-backend/internal/config"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres holds the pool every repository queries through.
type Postgres struct {
	Pool *pgxpool.Pool
}

// New opens the pool and fails fast when the database is unreachable, so
// the server never starts without its catalog.
func New(ctx context.Context, cfg config.Config) (*Postgres, error) {
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout(cfg))
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return &Postgres{Pool: pool}, nil
}

// poolConfig applies the pool limits from cfg on top of DATABASE_URL.
// Settings left at zero keep the pgx defaults.
func poolConfig(cfg config.Config) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.DBMaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.DBMaxConns)
	}
	if cfg.DBMaxConnIdle > 0 {
		poolCfg.MaxConnIdleTime = cfg.DBMaxConnIdle
	}
	poolCfg.ConnConfig.ConnectTimeout = connectTimeout(cfg)
	poolCfg.HealthCheckPeriod = 30 * time.Second
	return poolCfg, nil
}

func connectTimeout(cfg config.Config) time.Duration {
	if cfg.DBConnectTimeout > 0 {
		return cfg.DBConnectTimeout
	}
	return 5 * time.Second
}

func (p *Postgres) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}

// Health pings the pool; /health reports degraded when it fails.
func (p *Postgres) Health(ctx context.Context) error {
	return p.Pool.Ping(ctx)
}

// IsUniqueViolation reports a 23505 error anywhere in err's chain, e.g. a
// second customer with the same phone.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

package db

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx pool for the given DSN and verifies it with a ping.
// DATABASE_URL, when set, wins over the configured DSN so ad-hoc overrides
// stay cheap in development.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		dsn = url
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("error parsing db config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("error connecting to db: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("error pinging db: %w", err)
	}

	return pool, nil
}

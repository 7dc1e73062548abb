package checkers

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresChecker struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresChecker(pool *pgxpool.Pool, timeout time.Duration) *PostgresChecker {
	return &PostgresChecker{pool: pool, timeout: orDefault(timeout)}
}

func (c *PostgresChecker) Name() string { return "postgres" }

func (c *PostgresChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.pool.Ping(ctx)
}

func orDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Second
	}
	return d
}

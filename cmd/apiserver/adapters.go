package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresChecker adapts the pgx pool to the readiness probe.
type postgresChecker struct {
	pool *pgxpool.Pool
}

func (c postgresChecker) Name() string { return "postgres" }

func (c postgresChecker) Check(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

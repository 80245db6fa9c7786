package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

func PgConnect(ctx context.Context, databaseUrl string) (*pgxpool.Pool, error) {
	pgxPool, err := pgxpool.New(ctx, databaseUrl)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New(): %w", err)
	}

	if err := pgxPool.Ping(ctx); err != nil {
		pgxPool.Close()
		return nil, fmt.Errorf("pgxPool.Ping(): %w", err)
	}

	return pgxPool, nil
}

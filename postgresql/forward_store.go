package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/breez/feechart/lightning"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ForwardStore struct {
	pool *pgxpool.Pool
}

func NewForwardStore(pool *pgxpool.Pool) *ForwardStore {
	return &ForwardStore{pool: pool}
}

func (s *ForwardStore) LastForwardTime(ctx context.Context, nodeID []byte) (*time.Time, error) {
	var last *int64
	err := s.pool.QueryRow(ctx,
		`SELECT MAX(resolved_time) FROM feechart.forwards WHERE nodeid = $1`,
		nodeID,
	).Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("failed to query last forward time: %w", err)
	}

	if last == nil {
		return nil, nil
	}

	t := time.Unix(0, *last)
	return &t, nil
}

func (s *ForwardStore) InsertForwards(ctx context.Context, nodeID []byte, forwards []*lightning.ForwardEvent) error {
	if len(forwards) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pgxPool.Begin() error: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
	CREATE TEMP TABLE tmp_forwards ON COMMIT DROP AS
		SELECT *
		FROM feechart.forwards
		WITH NO DATA;
	`)
	if err != nil {
		return fmt.Errorf("CREATE TEMP TABLE error: %w", err)
	}

	rows := make([][]interface{}, len(forwards))
	for i, f := range forwards {
		rows[i] = []interface{}{
			nodeID,
			f.Timestamp.UnixNano(),
			int64(f.InChannel),
			int64(f.OutChannel),
			int64(f.FeeMsat),
			int64(f.FeeSat),
		}
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"tmp_forwards"},
		[]string{"nodeid", "resolved_time", "chanid_in", "chanid_out", "fee_msat", "fee_sat"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("CopyFrom() error: %w", err)
	}

	_, err = tx.Exec(ctx, `
	INSERT INTO feechart.forwards
		SELECT *
		FROM tmp_forwards
	ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("INSERT INTO feechart.forwards error: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *ForwardStore) ListForwards(
	ctx context.Context,
	nodeID []byte,
	req *lightning.ListForwardsRequest,
) ([]*lightning.ForwardEvent, error) {
	var limit *int64
	if req.Limit != 0 {
		l := int64(req.Limit)
		limit = &l
	}

	rows, err := s.pool.Query(ctx, `
		SELECT resolved_time, chanid_in, chanid_out, fee_msat, fee_sat
		FROM feechart.forwards
		WHERE nodeid = $1 AND resolved_time >= $2 AND resolved_time <= $3
		ORDER BY resolved_time
		LIMIT $4`,
		nodeID,
		req.After.UnixNano(),
		req.Before.UnixNano(),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query forwards: %w", err)
	}
	defer rows.Close()

	var result []*lightning.ForwardEvent
	for rows.Next() {
		var resolvedTime, chanIn, chanOut, feeMsat, feeSat int64
		err = rows.Scan(&resolvedTime, &chanIn, &chanOut, &feeMsat, &feeSat)
		if err != nil {
			return nil, fmt.Errorf("failed to scan forward: %w", err)
		}

		result = append(result, &lightning.ForwardEvent{
			FeeSat:     uint64(feeSat),
			FeeMsat:    uint64(feeMsat),
			Timestamp:  time.Unix(0, resolvedTime),
			InChannel:  lightning.ShortChannelID(uint64(chanIn)),
			OutChannel: lightning.ShortChannelID(uint64(chanOut)),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read forwards: %w", err)
	}

	return result, nil
}

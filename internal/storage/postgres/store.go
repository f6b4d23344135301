package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"liquidityCore/internal/model"
)

// Store provides Postgres persistence for pool state and stats.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertPoolSnapshots inserts or updates pool state records.
func (s *Store) UpsertPoolSnapshots(ctx context.Context, snapshots []model.PoolSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, snapshot := range snapshots {
		batch.Queue(`
			INSERT INTO pools (
				owner, pair, reserve_x, reserve_y, total_shares, fee_bps, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, now(), now())
			ON CONFLICT (owner, pair)
			DO UPDATE SET
				reserve_x = EXCLUDED.reserve_x,
				reserve_y = EXCLUDED.reserve_y,
				total_shares = EXCLUDED.total_shares,
				fee_bps = EXCLUDED.fee_bps,
				updated_at = now()
		`,
			snapshot.Owner,
			snapshot.Pair,
			snapshot.ReserveX,
			snapshot.ReserveY,
			snapshot.TotalShares,
			snapshot.FeeBps,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range snapshots {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertPositions inserts or updates provider share balances.
func (s *Store) UpsertPositions(ctx context.Context, positions []model.Position) error {
	if len(positions) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, position := range positions {
		batch.Queue(`
			INSERT INTO positions (
				provider, owner, pair, shares, created_at, updated_at
			) VALUES ($1, $2, $3, $4, now(), now())
			ON CONFLICT (provider, owner, pair)
			DO UPDATE SET
				shares = EXCLUDED.shares,
				updated_at = now()
		`,
			position.Provider,
			position.Owner,
			position.Pair,
			position.Shares,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range positions {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertPoolStats adds aggregated totals into pool_stats. Counters and
// volumes accumulate across runs, so incremental aggregation over a
// resumed event stream stays correct.
func (s *Store) UpsertPoolStats(ctx context.Context, stats []model.PoolStats) error {
	if len(stats) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, st := range stats {
		batch.Queue(`
			INSERT INTO pool_stats (
				owner, pair, swap_count, mint_count, burn_count,
				volume_x, volume_y, fee_x, fee_y, last_seq, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,now(),now())
			ON CONFLICT (owner, pair)
			DO UPDATE SET
				swap_count = pool_stats.swap_count + EXCLUDED.swap_count,
				mint_count = pool_stats.mint_count + EXCLUDED.mint_count,
				burn_count = pool_stats.burn_count + EXCLUDED.burn_count,
				volume_x = pool_stats.volume_x + EXCLUDED.volume_x,
				volume_y = pool_stats.volume_y + EXCLUDED.volume_y,
				fee_x = pool_stats.fee_x + EXCLUDED.fee_x,
				fee_y = pool_stats.fee_y + EXCLUDED.fee_y,
				last_seq = GREATEST(pool_stats.last_seq, EXCLUDED.last_seq),
				updated_at = now()
		`,
			st.Owner,
			st.Pair,
			int64(st.SwapCount),
			int64(st.MintCount),
			int64(st.BurnCount),
			st.VolumeX,
			st.VolumeY,
			st.FeeX,
			st.FeeY,
			int64(st.LastSeq),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range stats {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadState returns last_processed_seq for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var seq uint64
	row := s.pool.QueryRow(ctx, `SELECT last_processed_seq FROM pipeline_state WHERE name=$1`, name)
	if err := row.Scan(&seq); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return seq, true, nil
}

// SaveState upserts last_processed_seq for a name.
func (s *Store) SaveState(ctx context.Context, name string, seq uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pipeline_state (name, last_processed_seq, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed_seq = EXCLUDED.last_processed_seq, updated_at = now()
	`, name, seq)
	return err
}

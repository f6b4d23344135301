package stats

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"liquidityCore/internal/model"
	"liquidityCore/internal/storage/postgres"
)

// Config controls aggregation behavior.
type Config struct {
	BatchSize  int
	StateStore StateStore
}

// Aggregator folds engine events into per-pool totals and persists them.
type Aggregator struct {
	cfg          Config
	store        *postgres.Store
	logger       *zap.Logger
	accumulators map[string]*Accumulator
}

func NewAggregator(cfg Config, store *postgres.Store, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		cfg:          cfg,
		store:        store,
		logger:       logger,
		accumulators: make(map[string]*Accumulator),
	}
}

// Run executes aggregation over an events JSONL file. Events at or below
// the stored sequence number are skipped, and totals are added into the
// store, so re-running after an interruption never double-counts.
func (a *Aggregator) Run(ctx context.Context, inputPath string) error {
	if a.store == nil {
		return fmt.Errorf("store is nil")
	}
	if a.cfg.BatchSize <= 0 {
		a.cfg.BatchSize = 1000
	}

	var startSeq uint64
	if a.cfg.StateStore != nil {
		seq, ok, err := a.cfg.StateStore.Load(ctx)
		if err != nil {
			return err
		}
		if ok {
			startSeq = seq
			a.logger.Info("resume from state", zap.Uint64("last_processed_seq", startSeq))
		}
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	maxSeq := startSeq
	var total, folded, skipped, failed int

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		total++

		var record model.EventRecord
		if err := json.Unmarshal(line, &record); err != nil {
			failed++
			a.logger.Warn("parse event", zap.Int("line", total), zap.Error(err))
			continue
		}
		if record.Seq <= startSeq {
			skipped++
			continue
		}

		key := record.Owner + ":" + record.Pair
		acc, ok := a.accumulators[key]
		if !ok {
			acc = NewAccumulator(record)
			a.accumulators[key] = acc
		}
		if err := acc.AddEvent(record); err != nil {
			failed++
			a.logger.Warn("fold event", zap.Uint64("seq", record.Seq), zap.Error(err))
			continue
		}
		folded++
		if record.Seq > maxSeq {
			maxSeq = record.Seq
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan input: %w", err)
	}

	if err := a.flush(ctx); err != nil {
		return err
	}

	if a.cfg.StateStore != nil && maxSeq > startSeq {
		if err := a.cfg.StateStore.Save(ctx, maxSeq); err != nil {
			return err
		}
	}

	a.logger.Info("aggregate complete",
		zap.Int("total", total),
		zap.Int("folded", folded),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
		zap.Int("pools", len(a.accumulators)),
		zap.Uint64("max_seq", maxSeq),
	)

	return nil
}

func (a *Aggregator) flush(ctx context.Context) error {
	batch := make([]model.PoolStats, 0, a.cfg.BatchSize)
	for _, acc := range a.accumulators {
		batch = append(batch, acc.Stats())
		if len(batch) >= a.cfg.BatchSize {
			if err := a.store.UpsertPoolStats(ctx, batch); err != nil {
				return fmt.Errorf("store stats: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := a.store.UpsertPoolStats(ctx, batch); err != nil {
		return fmt.Errorf("store stats: %w", err)
	}
	return nil
}

package replay

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"liquidityCore/internal/amm"
	"liquidityCore/internal/model"
	"liquidityCore/internal/storage"
)

// RunConfig holds runtime settings for a replay.
type RunConfig struct {
	OpsPath           string
	CheckpointPath    string
	CheckpointEnabled bool
	BatchSize         int
}

// Summary reports what a replay run did.
type Summary struct {
	Total    uint64
	Applied  uint64
	Rejected uint64
}

// Runner streams operations from a JSONL file into the engine.
type Runner struct {
	cfg        RunConfig
	registry   *amm.Registry
	rejects    storage.RejectSink
	logger     *zap.Logger
	checkpoint *CheckpointStore
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg RunConfig, registry *amm.Registry, rejects storage.RejectSink, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:        cfg,
		registry:   registry,
		rejects:    rejects,
		logger:     logger,
		checkpoint: NewCheckpointStore(cfg.CheckpointPath, cfg.CheckpointEnabled),
	}
}

// Run executes the replay loop. Lines already covered by the checkpoint
// are skipped, so an interrupted run resumes without re-applying
// operations.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	if r.registry == nil {
		return summary, fmt.Errorf("registry is nil")
	}
	if r.cfg.BatchSize <= 0 {
		r.cfg.BatchSize = 1000
	}

	var skipTo uint64
	if r.checkpoint != nil {
		cp, ok, err := r.checkpoint.Load()
		if err != nil {
			return summary, err
		}
		if ok {
			skipTo = cp.LastAppliedLine
			r.logger.Info("resume from checkpoint", zap.Uint64("last_applied_line", skipTo))
		}
	}

	file, err := os.Open(r.cfg.OpsPath)
	if err != nil {
		return summary, fmt.Errorf("open ops file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	pendingRejects := make([]model.RejectRecord, 0, r.cfg.BatchSize)
	var line uint64
	var sinceCheckpoint int

	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		if line <= skipTo {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		summary.Total++

		var op model.OpRecord
		if err := json.Unmarshal(raw, &op); err != nil {
			summary.Rejected++
			pendingRejects = append(pendingRejects, model.RejectRecord{
				Line:  line,
				Error: fmt.Sprintf("parse op: %v", err),
			})
		} else if err := applyOp(r.registry, op); err != nil {
			summary.Rejected++
			pendingRejects = append(pendingRejects, model.RejectRecord{
				Line:    line,
				Op:      op.Op,
				Account: op.Account,
				Pair:    op.Pair,
				Error:   err.Error(),
			})
			r.logger.Debug("op rejected", zap.Uint64("line", line), zap.String("op", op.Op), zap.Error(err))
		} else {
			summary.Applied++
		}

		sinceCheckpoint++
		if sinceCheckpoint >= r.cfg.BatchSize {
			if err := r.flush(pendingRejects, line); err != nil {
				return summary, err
			}
			pendingRejects = pendingRejects[:0]
			sinceCheckpoint = 0
			r.logger.Info("batch applied",
				zap.Uint64("line", line),
				zap.Uint64("applied", summary.Applied),
				zap.Uint64("rejected", summary.Rejected),
			)
		}
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("scan ops file: %w", err)
	}

	if err := r.flush(pendingRejects, line); err != nil {
		return summary, err
	}

	r.logger.Info("replay complete",
		zap.Uint64("total", summary.Total),
		zap.Uint64("applied", summary.Applied),
		zap.Uint64("rejected", summary.Rejected),
	)

	return summary, nil
}

func (r *Runner) flush(rejects []model.RejectRecord, line uint64) error {
	if r.rejects != nil && len(rejects) > 0 {
		if err := r.rejects.PutRejectBatch(rejects); err != nil {
			return fmt.Errorf("store rejects: %w", err)
		}
	}
	if r.checkpoint != nil && line > 0 {
		if err := r.checkpoint.Save(line); err != nil {
			return err
		}
	}
	return nil
}

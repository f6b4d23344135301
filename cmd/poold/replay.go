package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liquidityCore/internal/amm"
	"liquidityCore/internal/config"
	"liquidityCore/internal/replay"
	"liquidityCore/internal/storage"
	"liquidityCore/internal/storage/postgres"
)

func runReplay(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadReplay(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Ops == "" {
		return fmt.Errorf("ops path is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eventSink := storage.NewJsonlEventSink(cfg.Events)
	rejectSink := storage.NewJsonlRejectSink(cfg.Rejects)
	registry := amm.NewRegistry(eventSink, logger)

	runner := replay.NewRunner(replay.RunConfig{
		OpsPath:           cfg.Ops,
		CheckpointPath:    cfg.Checkpoint,
		CheckpointEnabled: cfg.CheckpointEnabled,
		BatchSize:         cfg.BatchSize,
	}, registry, rejectSink, logger)

	logger.Info("replay start",
		zap.String("ops", cfg.Ops),
		zap.String("events", cfg.Events),
		zap.String("rejects", cfg.Rejects),
		zap.Bool("checkpoint_enabled", cfg.CheckpointEnabled),
		zap.String("checkpoint", cfg.Checkpoint),
		zap.Int("batch_size", cfg.BatchSize),
	)

	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()

		snapshots := registry.Snapshots()
		if err := store.UpsertPoolSnapshots(ctx, snapshots); err != nil {
			return fmt.Errorf("store snapshots: %w", err)
		}
		positions := registry.Positions()
		if err := store.UpsertPositions(ctx, positions); err != nil {
			return fmt.Errorf("store positions: %w", err)
		}
		logger.Info("snapshots stored", zap.Int("pools", len(snapshots)), zap.Int("positions", len(positions)))
	}

	logger.Info("replay done",
		zap.Uint64("total", summary.Total),
		zap.Uint64("applied", summary.Applied),
		zap.Uint64("rejected", summary.Rejected),
	)

	return nil
}

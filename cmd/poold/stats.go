package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liquidityCore/internal/config"
	"liquidityCore/internal/stats"
	"liquidityCore/internal/storage/postgres"
)

func runStats(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadStats(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Input == "" {
		return fmt.Errorf("input path is required")
	}
	if cfg.PGDSN == "" {
		return fmt.Errorf("pg dsn is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.NewStore(ctx, cfg.PGDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer store.Close()

	var stateStore stats.StateStore
	if cfg.StateFile != "" {
		stateStore = &stats.FileStateStore{Path: cfg.StateFile}
	} else {
		stateStore = &stats.DBStateStore{Store: store, Name: "stats"}
	}

	aggregator := stats.NewAggregator(stats.Config{
		BatchSize:  cfg.BatchSize,
		StateStore: stateStore,
	}, store, logger)

	logger.Info("stats start",
		zap.String("input", cfg.Input),
		zap.Int("batch_size", cfg.BatchSize),
		zap.String("state_file", cfg.StateFile),
	)

	return aggregator.Run(ctx, cfg.Input)
}

package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "poold",
		Short:        "Constant-product liquidity pool engine",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay an operations file through the pool engine",
		RunE:  runReplay,
	}

	replayCmd.Flags().String("ops", "", "input operations JSONL path")
	replayCmd.Flags().String("events", "./data/events.jsonl", "output events JSONL path")
	replayCmd.Flags().String("rejects", "./data/rejects.jsonl", "rejected operations JSONL path")
	replayCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	replayCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	replayCmd.Flags().Int("batch-size", 1000, "operations per checkpoint batch")
	replayCmd.Flags().String("pg-dsn", "", "Postgres DSN for final snapshots (optional)")
	replayCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(replayCmd)

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate emitted events into per-pool totals",
		RunE:  runStats,
	}

	statsCmd.Flags().String("in", "", "input events JSONL path")
	statsCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	statsCmd.Flags().Int("batch-size", 1000, "batch size for DB writes")
	statsCmd.Flags().String("state-file", "", "optional local state file for progress tracking")
	statsCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(statsCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

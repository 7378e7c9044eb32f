// cmd/enrolltrend/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"enrolltrend/pkg/config"
	"enrolltrend/pkg/pipeline"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "enrolltrend: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env file; real environment wins.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager, err := pipeline.NewManager(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer manager.Close()

	result, err := manager.Run(ctx)
	if err != nil {
		logger.Error("Pipeline run failed",
			zap.String("run_id", manager.RunID()),
			zap.Error(err))
		return err
	}

	fmt.Println(manager.Metrics().GenerateReport())
	logger.Info("Run succeeded",
		zap.String("run_id", result.RunID),
		zap.Int("output_rows", len(result.Table.Rows)))

	return nil
}

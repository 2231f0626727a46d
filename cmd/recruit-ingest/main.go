package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/recruitflow-ingest/internal/core"
	"github.com/mikey/recruitflow-ingest/internal/di"
	"github.com/mikey/recruitflow-ingest/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	runner ports.Runner,
	llmClient core.LLMClient,
	ledger core.SeenLedger,
	repo core.Repository,
) error {
	defer logger.Sync()

	if err := runner.Start(); err != nil {
		logger.Error("Failed to start ingestion", zap.Error(err))
		return err
	}
	logger.Info("Ingestion service started")

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	// Waits for a run in progress
	if err := runner.Stop(); err != nil {
		logger.Error("Failed to stop ingestion", zap.Error(err))
	}

	if closer, ok := llmClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close LLM client", zap.Error(err))
		}
	}

	if stopper, ok := ledger.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	if closer, ok := repo.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close repository", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}

package main

import (
	"fmt"

	"github.com/mikey/recruitflow-ingest/internal/core"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run one ingestion pass over every mailbox and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return invoke(func(logger *zap.Logger, pipeline *core.Pipeline, ledger core.SeenLedger, repo core.Repository) error {
			defer logger.Sync()
			defer closeRepository(logger, repo)
			defer stopLedger(ledger)

			report, err := pipeline.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d users, %d messages, %d candidates created\n",
				report.RunID, report.Users, report.Messages, report.Created)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(onceCmd)
}

func stopLedger(ledger core.SeenLedger) {
	if stopper, ok := ledger.(interface{ Stop() }); ok {
		stopper.Stop()
	}
}

func closeRepository(logger *zap.Logger, repo core.Repository) {
	if closer, ok := repo.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close candidate repository", zap.Error(err))
		}
	}
}

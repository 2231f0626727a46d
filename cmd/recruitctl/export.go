package main

import (
	"errors"
	"fmt"

	"github.com/mikey/recruitflow-ingest/internal/core"
	"github.com/mikey/recruitflow-ingest/internal/export"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportUser   int64
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the candidates visible to a user into an Excel workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if exportUser <= 0 {
			return errors.New("--user is required")
		}
		return invoke(func(logger *zap.Logger, repo core.Repository) error {
			defer logger.Sync()
			defer closeRepository(logger, repo)

			ctx := cmd.Context()
			positions, err := repo.PositionsForUser(ctx, exportUser)
			if err != nil {
				return err
			}
			candidates, err := repo.CandidatesForUser(ctx, exportUser)
			if err != nil {
				return err
			}

			if err := export.WriteCandidates(candidates, positions, exportOutput); err != nil {
				return err
			}
			logger.Info("Exported candidates",
				zap.Int64("user_id", exportUser),
				zap.Int("candidates", len(candidates)),
				zap.String("output", exportOutput))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d candidates to %s\n", len(candidates), exportOutput)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().Int64VarP(&exportUser, "user", "u", 0, "user whose positions are exported")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "candidates.xlsx", "output workbook")
}

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/recruitflow-ingest/internal/core"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var uploadPosition int64

var uploadCmd = &cobra.Command{
	Use:   "upload FILE...",
	Short: "Create candidates for a position from resume documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if uploadPosition <= 0 {
			return errors.New("--position is required")
		}
		return invoke(func(logger *zap.Logger, upload *core.UploadService) error {
			defer logger.Sync()

			failed := 0
			for _, file := range args {
				data, err := os.ReadFile(file)
				if err != nil {
					logger.Error("Failed to read document", zap.String("file", file), zap.Error(err))
					failed++
					continue
				}

				candidate, err := upload.CreateFromDocument(cmd.Context(), uploadPosition, filepath.Base(file), data)
				switch {
				case candidate == nil:
					logger.Error("Failed to create candidate", zap.String("file", file), zap.Error(err))
					failed++
				case err != nil:
					// Stored without its resume file
					logger.Warn("Candidate created without resume file", zap.String("file", file), zap.Error(err))
					fmt.Fprintf(cmd.OutOrStdout(), "%s: created %q (resume not saved)\n", file, candidate.FullName)
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "%s: created %q\n", file, candidate.FullName)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(args))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().Int64VarP(&uploadPosition, "position", "p", 0, "position id the candidates apply to")
}

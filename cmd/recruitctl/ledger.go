package main

import (
	"fmt"

	"github.com/mikey/recruitflow-ingest/internal/core"
	"github.com/spf13/cobra"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect or edit the processed-message ledger",
}

var ledgerHasCmd = &cobra.Command{
	Use:   "has KEY",
	Short: "Report whether a message key was already processed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return invoke(func(ledger core.SeenLedger) error {
			defer stopLedger(ledger)

			seen, err := ledger.IsMember(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), seen)
			return nil
		})
	},
}

var ledgerAddCmd = &cobra.Command{
	Use:   "add KEY...",
	Short: "Mark message keys as processed so they are never ingested",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return invoke(func(ledger core.SeenLedger) error {
			defer stopLedger(ledger)

			for _, key := range args {
				if err := ledger.Add(cmd.Context(), key); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
	ledgerCmd.AddCommand(ledgerHasCmd, ledgerAddCmd)
}

package main

import (
	"errors"
	"fmt"

	"github.com/Veraticus/stockroom/internal/cli"
	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/config"
	"github.com/Veraticus/stockroom/internal/inventory"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Generate the transaction report",
		Long: `Print the persisted transaction log as a table.

The log is the one written by the last save: the whole session for the
interactive menu, every sale made with "stockroom sell". Unreadable log lines
are skipped with a warning.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			backend, err := initStorage(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = backend.Close() }()

			transactions, err := backend.LoadTransactions(cmd.Context())
			if err != nil {
				if !errors.Is(err, common.ErrMalformedTransaction) {
					return fmt.Errorf("failed to read transaction log: %w", err)
				}
				for _, msg := range lineErrors(err) {
					fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning("skipped "+msg))
				}
			}

			return inventory.RenderReport(cmd.OutOrStdout(), transactions)
		},
	}
}

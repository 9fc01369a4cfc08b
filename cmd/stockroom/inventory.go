package main

import (
	"github.com/spf13/cobra"
)

func inventoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "inventory",
		Aliases: []string{"ls"},
		Short:   "Display the inventory",
		Long:    `Print every category and its products with price, stock and expiry date.`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.close()

			return sess.store.DisplayInventory(cmd.OutOrStdout())
		},
	}
}

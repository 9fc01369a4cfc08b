package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Veraticus/stockroom/internal/cli"
	"github.com/spf13/cobra"
)

// runInteractive is the numbered console menu. The inventory is saved when
// the menu ends, including after an interrupt.
func runInteractive(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	sess, err := openSession(cmd.Context(), out)
	if err != nil {
		return err
	}
	defer sess.close()

	handler := cli.NewInterruptHandler(out)
	ctx := handler.HandleInterrupts(cmd.Context(), true)
	defer handler.Stop()

	menu := cli.NewMenu(sess.store, cmd.InOrStdin(), out)
	runErr := menu.Run(ctx)
	if runErr != nil && !errors.Is(runErr, ctx.Err()) {
		fmt.Fprintln(os.Stderr, cli.FormatError(runErr.Error()))
	}

	return sess.save(ctx, out)
}

package main

import (
	"errors"
	"os"

	"github.com/Veraticus/stockroom/internal/tui"
	"github.com/Veraticus/stockroom/internal/tui/themes"
	"github.com/spf13/cobra"
)

func tuiCmd() *cobra.Command {
	var noHelp bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Full-screen inventory menu",
		Long:  `The interactive menu as a full-screen terminal UI. The inventory is saved on exit.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.close()

			opts := []tui.Option{tui.WithHelp(!noHelp)}
			if os.Getenv("NO_COLOR") != "" {
				opts = append(opts, tui.WithTheme(themes.Mono))
			}

			runErr := tui.Run(cmd.Context(), sess.store, opts...)
			if saveErr := sess.save(cmd.Context(), cmd.ErrOrStderr()); saveErr != nil {
				return errors.Join(runErr, saveErr)
			}
			if errors.Is(runErr, cmd.Context().Err()) {
				return nil
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&noHelp, "no-help", false, "hide the key help footer")

	return cmd
}

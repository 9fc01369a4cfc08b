package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/stockroom/internal/inventory"
	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the TUI until the operator exits or ctx is canceled. Logging is
// silenced while the alternate screen is active.
func Run(ctx context.Context, store *inventory.Store, opts ...Option) error {
	if store == nil {
		return fmt.Errorf("store is required")
	}

	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer slog.SetDefault(previous)

	program := tea.NewProgram(
		New(store, opts...),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

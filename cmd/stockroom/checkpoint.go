package main

import (
	"bufio"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Veraticus/stockroom/internal/cli"
	"github.com/Veraticus/stockroom/internal/config"
	"github.com/Veraticus/stockroom/internal/storage"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func checkpointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Manage inventory checkpoints",
		Long: `Create, list, restore, and delete snapshots of the inventory data.

Checkpoints save the current inventory before risky changes, such as a large
batch of sales, so it can be put back afterwards.`,
		Example: `  # Create a checkpoint before applying a batch of sales
  stockroom checkpoint create --tag pre-sale

  # List all checkpoints
  stockroom checkpoint list

  # Restore from a checkpoint
  stockroom checkpoint restore pre-sale

  # Delete an old checkpoint
  stockroom checkpoint delete old-checkpoint`,
	}

	cmd.AddCommand(createCheckpointCmd())
	cmd.AddCommand(listCheckpointsCmd())
	cmd.AddCommand(restoreCheckpointCmd())
	cmd.AddCommand(deleteCheckpointCmd())

	return cmd
}

// initCheckpointManager snapshots whichever file the configured backend uses.
func initCheckpointManager() (*storage.CheckpointManager, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	manager, err := storage.NewCheckpointManager(dataLocation(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create checkpoint manager: %w", err)
	}
	return manager, nil
}

func createCheckpointCmd() *cobra.Command {
	var tag string
	var description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new checkpoint",
		Long:  `Create a snapshot of the current inventory data.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := initCheckpointManager()
			if err != nil {
				return err
			}

			info, err := manager.Create(cmd.Context(), tag, description)
			if err != nil {
				return fmt.Errorf("failed to create checkpoint: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Created checkpoint %s (%s)\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(info.ID),
				formatFileSize(info.FileSize))

			if info.Description != "" {
				fmt.Fprintf(out, "  Description: %s\n", info.Description)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Checkpoint tag/name (auto-generated if not provided)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description of the checkpoint")

	return cmd
}

func listCheckpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all checkpoints",
		Long:  `Display all available checkpoints with their metadata.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := initCheckpointManager()
			if err != nil {
				return err
			}

			checkpoints, err := manager.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list checkpoints: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(checkpoints) == 0 {
				fmt.Fprintln(out, cli.SubtleStyle.Render("No checkpoints found."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
			fmt.Fprintln(w, strings.Join([]string{
				headerStyle.Render("NAME"),
				headerStyle.Render("CREATED"),
				headerStyle.Render("SIZE"),
				headerStyle.Render("TYPE"),
				headerStyle.Render("DESCRIPTION"),
			}, "\t"))

			for _, cp := range checkpoints {
				typeLabel := "manual"
				if cp.IsAuto {
					typeLabel = "auto"
				}

				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					cli.InfoStyle.Render(cp.ID),
					formatRelativeTime(cp.CreatedAt),
					formatFileSize(cp.FileSize),
					cli.SubtleStyle.Render(typeLabel),
					cp.Description,
				)
			}

			return w.Flush()
		},
	}
}

func restoreCheckpointCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "restore <checkpoint-id>",
		Short: "Restore inventory from a checkpoint",
		Long: `Replace the current inventory data with a checkpoint.

The current data is saved as an automatic checkpoint first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			checkpointID := args[0]
			out := cmd.OutOrStdout()

			manager, err := initCheckpointManager()
			if err != nil {
				return err
			}

			if !force && !confirm(cmd, fmt.Sprintf("%s This will replace your current inventory with checkpoint %s.",
				cli.WarningStyle.Render(cli.WarningIcon), cli.InfoStyle.Render(checkpointID))) {
				fmt.Fprintln(out, cli.SubtleStyle.Render("Restore cancelled."))
				return nil
			}

			if auto, err := manager.AutoCheckpoint(cmd.Context(), "restore"); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning("Could not save current data before restore: "+err.Error()))
			} else {
				fmt.Fprintf(out, "  Current data saved as %s\n", cli.InfoStyle.Render(auto.ID))
			}

			if err := manager.Restore(cmd.Context(), checkpointID); err != nil {
				return fmt.Errorf("failed to restore checkpoint: %w", err)
			}

			fmt.Fprintf(out, "%s Restored from checkpoint %s\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(checkpointID))

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func deleteCheckpointCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <checkpoint-id>",
		Short: "Delete a checkpoint",
		Long:  `Permanently remove a checkpoint.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			checkpointID := args[0]
			out := cmd.OutOrStdout()

			manager, err := initCheckpointManager()
			if err != nil {
				return err
			}

			if !force && !confirm(cmd, fmt.Sprintf("%s This will permanently delete checkpoint %s.",
				cli.WarningStyle.Render(cli.WarningIcon), cli.InfoStyle.Render(checkpointID))) {
				fmt.Fprintln(out, cli.SubtleStyle.Render("Deletion cancelled."))
				return nil
			}

			if err := manager.Delete(cmd.Context(), checkpointID); err != nil {
				return fmt.Errorf("failed to delete checkpoint: %w", err)
			}

			fmt.Fprintf(out, "%s Deleted checkpoint %s\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(checkpointID))

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

// confirm asks a y/N question on the command's input.
func confirm(cmd *cobra.Command, message string) bool {
	fmt.Fprintln(cmd.OutOrStdout(), message)
	fmt.Fprint(cmd.OutOrStdout(), "\nContinue? (y/N) ")

	response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(response)), "y")
}

// Helper functions

func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

func formatRelativeTime(t time.Time) string {
	duration := time.Since(t)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		if minutes := int(duration.Minutes()); minutes != 1 {
			return fmt.Sprintf("%d minutes ago", minutes)
		}
		return "1 minute ago"
	case duration < 24*time.Hour:
		if hours := int(duration.Hours()); hours != 1 {
			return fmt.Sprintf("%d hours ago", hours)
		}
		return "1 hour ago"
	case duration < 7*24*time.Hour:
		if days := int(duration.Hours() / 24); days != 1 {
			return fmt.Sprintf("%d days ago", days)
		}
		return "yesterday"
	default:
		return t.Format("2006-01-02 15:04")
	}
}

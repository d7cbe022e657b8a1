package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newSnapshotCommands(a *app) []*cobra.Command {
	backup := &cobra.Command{
		Use:   "backup FILE",
		Short: "Write a snapshot of the full store to FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("create backup file: %w", err)
			}
			defer f.Close()

			if err := a.repo.ExportSnapshot(cmd.Context(), f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", args[0])
			return nil
		},
	}

	restore := &cobra.Command{
		Use:   "restore FILE",
		Short: "Replace the store contents with the snapshot in FILE",
		Long: "Restore overwrites all current data with the snapshot. The store is\n" +
			"swapped atomically and reopened; all cached state is discarded.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open backup file: %w", err)
			}
			defer f.Close()

			if err := a.repo.RestoreSnapshot(f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Store restored from %s\n", args[0])
			return nil
		},
	}

	return []*cobra.Command{backup, restore}
}

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var rollbackCmd = &cobra.Command{
	Use:   "rollback <checkout>",
	Short: "Discard all pending edits",
	Long: `Discards the checkout's pending edits. Source files are never
touched before commit, so there is nothing to restore.`,
	Args: cobra.ExactArgs(1),
	RunE: runRollback,
}

func init() {
	rootCmd.AddCommand(rollbackCmd)
}

func runRollback(cmd *cobra.Command, args []string) error {
	if editService == nil {
		return errors.New("edit service not configured")
	}

	if err := editService.Rollback(context.Background(), args[0]); err != nil {
		return fmt.Errorf("rolling back: %w", err)
	}

	cmd.Println("Pending edits discarded.")
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/porysuite/porybridge/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status <checkout>",
	Short: "Show the checkout's transaction state",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if editService == nil {
		return errors.New("edit service not configured")
	}

	status, err := editService.Status(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("reading status: %w", err)
	}

	if status.State == domain.TxClean {
		cmd.Println("clean: no pending edits")
		return nil
	}

	cmd.Printf("%s: transaction %s, %d pending edit(s)\n",
		status.State, status.ID, len(status.Edits))
	for _, e := range status.Edits {
		cmd.Printf("  %s %s.%s = %s\n", e.Table, e.Key, e.Path, e.Value.String())
	}
	return nil
}

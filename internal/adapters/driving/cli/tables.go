package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables <checkout>",
	Short: "List the data tables of a checkout",
	Long: `Loads every table the checkout's project declares and reports
where it lives and how many records it holds. Tables whose declaration
is absent from this tree are marked unsupported.`,
	Args: cobra.ExactArgs(1),
	RunE: runTables,
}

var recordsCmd = &cobra.Command{
	Use:   "records <checkout> <table>",
	Short: "List the record keys of a table",
	Args:  cobra.ExactArgs(2),
	RunE:  runRecords,
}

func init() {
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(recordsCmd)
}

func runTables(cmd *cobra.Command, args []string) error {
	if tableService == nil {
		return errors.New("table service not configured")
	}

	statuses, err := tableService.Tables(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("loading tables: %w", err)
	}

	for _, s := range statuses {
		switch {
		case s.Err != nil:
			cmd.Printf("%-20s ERROR: %v\n", s.Name, s.Err)
		case !s.Supported:
			cmd.Printf("%-20s (not present in this tree)\n", s.Name)
		default:
			cmd.Printf("%-20s %4d records  %s\n", s.Name, s.Records, s.File)
		}
	}
	return nil
}

func runRecords(cmd *cobra.Command, args []string) error {
	if tableService == nil {
		return errors.New("table service not configured")
	}

	keys, err := tableService.Keys(context.Background(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("listing records: %w", err)
	}

	for _, key := range keys {
		cmd.Println(key)
	}
	return nil
}

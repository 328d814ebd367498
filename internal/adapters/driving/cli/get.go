package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/porysuite/porybridge/internal/core/domain"
)

var getCmd = &cobra.Command{
	Use:   "get <checkout> <table> <key> [field]",
	Short: "Read a record or a single field",
	Long: `Prints one record of a table, or a single field when a field
path is given. Field paths use dots and indices, e.g. 'baseHP' or
'abilities[1]'. Reads always parse the current on-disk source.`,
	Args: cobra.RangeArgs(3, 4),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	if tableService == nil {
		return errors.New("table service not configured")
	}

	ctx := context.Background()

	if len(args) == 4 {
		value, err := tableService.Field(ctx, args[0], args[1], args[2], args[3])
		if err != nil {
			return fmt.Errorf("reading field: %w", err)
		}
		cmd.Println(value.String())
		return nil
	}

	record, err := tableService.Record(ctx, args[0], args[1], args[2])
	if err != nil {
		return fmt.Errorf("reading record: %w", err)
	}

	printRecord(cmd, record)
	return nil
}

func printRecord(cmd *cobra.Command, record *domain.Record) {
	cmd.Printf("[%s]\n", record.Key)
	for _, name := range record.FieldOrder {
		cmd.Printf("  %-20s = %s\n", name, record.Fields[name].String())
	}
	for _, pt := range record.Passthrough {
		if pt.Name != "" {
			cmd.Printf("  %-20s = %s  (passthrough)\n", pt.Name, pt.Text)
		}
	}
}

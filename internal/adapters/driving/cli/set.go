package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <checkout> <table> <key> <field> <value>",
	Short: "Stage a field edit",
	Long: `Stages one field edit in the checkout's transaction. The value
is validated against the field's schema immediately; nothing is written
to disk until 'porybridge commit'.

Examples:
  porybridge set . species_info SPECIES_BULBASAUR baseHP 50
  porybridge set . species_info SPECIES_BULBASAUR speciesName '"Bulby"'
  porybridge set . starters 0 species SPECIES_MUDKIP`,
	Args: cobra.ExactArgs(5),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	if editService == nil {
		return errors.New("edit service not configured")
	}

	err := editService.SetField(context.Background(), args[0], args[1], args[2], args[3], args[4])
	if err != nil {
		return fmt.Errorf("staging edit: %w", err)
	}

	cmd.Printf("Staged %s.%s = %s for %s\n", args[2], args[3], args[4], args[1])
	return nil
}

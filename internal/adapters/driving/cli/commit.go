package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/porysuite/porybridge/internal/core/domain"
	"github.com/porysuite/porybridge/internal/core/ports/driving"
)

var commitSkipBuild bool

var commitCmd = &cobra.Command{
	Use:   "commit <checkout>",
	Short: "Write pending edits and verify the build",
	Long: `Rewrites the edited table initializers in place, touching only
the bytes the staged edits cover, then runs the build service over the
tree. A failed build restores the previous file contents and keeps the
edits pending so they can be fixed and recommitted.`,
	Args: cobra.ExactArgs(1),
	RunE: runCommit,
}

func init() {
	commitCmd.Flags().BoolVar(&commitSkipBuild, "skip-build", false,
		"write the changes without invoking the build service")
	rootCmd.AddCommand(commitCmd)
}

func runCommit(cmd *cobra.Command, args []string) error {
	if editService == nil {
		return errors.New("edit service not configured")
	}

	report, err := editService.Commit(context.Background(), args[0],
		driving.CommitOptions{SkipBuild: commitSkipBuild})

	if report != nil && report.Build != nil && !report.Build.Success {
		cmd.Printf("Build failed; previous file contents restored, edits kept pending.\n")
		printDiagnostics(cmd, report.Build.Diagnostics)
	}
	if err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}

	for _, file := range report.Files {
		cmd.Printf("  rewrote %s\n", file)
	}
	switch {
	case report.Unverified:
		cmd.Printf("Committed %s UNVERIFIED: no build service could run.\n", report.TxID)
		cmd.Println("Verify the tree compiles before shipping, or configure build.service.")
	case report.Build == nil:
		cmd.Printf("Committed %s (build skipped).\n", report.TxID)
	default:
		cmd.Printf("Committed %s (build ok).\n", report.TxID)
	}
	return nil
}

func printDiagnostics(cmd *cobra.Command, diags []domain.Diagnostic) {
	for _, d := range diags {
		if d.File == "" {
			cmd.Printf("  %s\n", d.Message)
			continue
		}
		cmd.Printf("  %s:%d: %s\n", d.File, d.Line, d.Message)
	}
}

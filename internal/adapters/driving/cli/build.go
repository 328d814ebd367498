package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build <checkout>",
	Short: "Build a checkout and record the outcome",
	Long: `Runs the configured build service over the checkout without
committing anything, and records the result in the build history.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	if buildRunner == nil {
		return errors.New("build service not configured")
	}

	cmd.Println("Building...")
	result, err := buildRunner.Run(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if !result.Success {
		printDiagnostics(cmd, result.Diagnostics)
		return errors.New("build failed")
	}

	cmd.Println("Build succeeded.")
	return nil
}

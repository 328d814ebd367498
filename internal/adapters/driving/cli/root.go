// Package cli implements the porybridge command-line interface.
//
// Commands hold their services in package-level variables that the
// entrypoint wires up before Execute; a nil service yields a clear
// "not configured" error instead of a panic.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/porysuite/porybridge/internal/core/ports/driving"
	"github.com/porysuite/porybridge/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// verbose mirrors the --verbose persistent flag.
var verbose bool

// Services wired by the entrypoint.
var (
	projectRegistry driving.ProjectRegistry
	checkoutService driving.CheckoutService
	tableService    driving.TableService
	editService     driving.EditService
	buildRunner     driving.BuildRunner
)

var rootCmd = &cobra.Command{
	Use:   "porybridge",
	Short: "Edit decomp data tables without touching the C by hand",
	Long: `porybridge reads and rewrites the hand-written data tables of
Pokémon decompilation projects (species, items, starters, ...) while
preserving every byte it was not asked to change.

Register a checkout, stage field edits, then commit: the commit rewrites
only the edited initializers and verifies the tree still compiles.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose diagnostic output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	version = v
}

// SetProjectRegistry wires the project registry used by commands.
func SetProjectRegistry(r driving.ProjectRegistry) {
	projectRegistry = r
}

// SetCheckoutService wires the checkout service used by commands.
func SetCheckoutService(s driving.CheckoutService) {
	checkoutService = s
}

// SetTableService wires the table service used by commands.
func SetTableService(s driving.TableService) {
	tableService = s
}

// SetEditService wires the edit service used by commands.
func SetEditService(s driving.EditService) {
	editService = s
}

// SetBuildRunner wires the build runner used by commands.
func SetBuildRunner(r driving.BuildRunner) {
	buildRunner = r
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var checkoutProjectID string

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Manage registered checkouts",
	Long: `Registers and lists source trees managed by porybridge. Each
registered checkout gets its own edit transaction and build history.`,
	RunE: runCheckoutList,
}

var checkoutRegisterCmd = &cobra.Command{
	Use:   "register <path>",
	Short: "Register a source tree as a managed checkout",
	Long: `Registers the source tree at <path>. The project type is
auto-detected unless --project is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheckoutRegister,
}

var checkoutListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered checkouts",
	RunE:  runCheckoutList,
}

var checkoutRemoveCmd = &cobra.Command{
	Use:   "remove <id-or-path>",
	Short: "Unregister a checkout",
	Long:  `Unregisters a checkout. The source tree itself is untouched.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheckoutRemove,
}

var checkoutBuildsCmd = &cobra.Command{
	Use:   "builds <id-or-path>",
	Short: "Show recent build history for a checkout",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheckoutBuilds,
}

var checkoutBuildsLimit int

func init() {
	checkoutRegisterCmd.Flags().StringVar(&checkoutProjectID, "project", "",
		"project type ID (auto-detected when omitted)")
	checkoutBuildsCmd.Flags().IntVar(&checkoutBuildsLimit, "limit", 10,
		"maximum number of builds to show")

	checkoutCmd.AddCommand(checkoutRegisterCmd)
	checkoutCmd.AddCommand(checkoutListCmd)
	checkoutCmd.AddCommand(checkoutRemoveCmd)
	checkoutCmd.AddCommand(checkoutBuildsCmd)
	rootCmd.AddCommand(checkoutCmd)
}

func runCheckoutRegister(cmd *cobra.Command, args []string) error {
	if checkoutService == nil {
		return errors.New("checkout service not configured")
	}

	checkout, err := checkoutService.Register(context.Background(), args[0], checkoutProjectID)
	if err != nil {
		return fmt.Errorf("registering checkout: %w", err)
	}

	cmd.Printf("Registered %s as %s (%s)\n", checkout.Root, checkout.ID, checkout.ProjectID)
	return nil
}

func runCheckoutList(cmd *cobra.Command, _ []string) error {
	if checkoutService == nil {
		return errors.New("checkout service not configured")
	}

	checkouts, err := checkoutService.List(context.Background())
	if err != nil {
		return fmt.Errorf("listing checkouts: %w", err)
	}

	if len(checkouts) == 0 {
		cmd.Println("No checkouts registered. Use 'porybridge checkout register <path>'.")
		return nil
	}

	for _, c := range checkouts {
		cmd.Printf("%s  %-24s %s\n", c.ID, c.ProjectID, c.Root)
	}
	return nil
}

func runCheckoutRemove(cmd *cobra.Command, args []string) error {
	if checkoutService == nil {
		return errors.New("checkout service not configured")
	}

	if err := checkoutService.Remove(context.Background(), args[0]); err != nil {
		return fmt.Errorf("removing checkout: %w", err)
	}

	cmd.Printf("Removed checkout %s\n", args[0])
	return nil
}

func runCheckoutBuilds(cmd *cobra.Command, args []string) error {
	if checkoutService == nil {
		return errors.New("checkout service not configured")
	}

	records, err := checkoutService.BuildHistory(context.Background(), args[0], checkoutBuildsLimit)
	if err != nil {
		return fmt.Errorf("reading build history: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No builds recorded.")
		return nil
	}

	for _, r := range records {
		outcome := "ok"
		if !r.Success {
			outcome = fmt.Sprintf("FAILED (%d diagnostics)", len(r.Diagnostics))
		}
		cmd.Printf("%s  %s  %s\n",
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Second), outcome)
	}
	return nil
}

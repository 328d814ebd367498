package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List supported project types",
	Long: `Lists the registered project plugins and the data tables each
one exposes. Schema overrides from ~/.porybridge/schemas are reflected
in the table lists.`,
	RunE: runProjects,
}

var projectsDetectCmd = &cobra.Command{
	Use:   "detect <path>",
	Short: "Identify the project type of a source tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsDetect,
}

func init() {
	projectsCmd.AddCommand(projectsDetectCmd)
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(cmd *cobra.Command, _ []string) error {
	if projectRegistry == nil {
		return errors.New("project registry not configured")
	}

	projects := projectRegistry.List()
	if len(projects) == 0 {
		cmd.Println("No project plugins registered.")
		return nil
	}

	for _, p := range projects {
		cmd.Printf("%s  (%s)\n", p.ID, p.Name)
		cmd.Printf("  tables: %s\n", strings.Join(p.Tables, ", "))
	}
	return nil
}

func runProjectsDetect(cmd *cobra.Command, args []string) error {
	if projectRegistry == nil {
		return errors.New("project registry not configured")
	}

	info, err := projectRegistry.Detect(args[0])
	if err != nil {
		return fmt.Errorf("detecting project: %w", err)
	}

	cmd.Printf("%s  (%s)\n", info.ID, info.Name)
	return nil
}

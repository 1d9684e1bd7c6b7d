package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/perimetra/tmacl/pkg/db"
	"github.com/perimetra/tmacl/pkg/groups"
)

// groupsLoadCmd represents the groups load command
var groupsLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load permission group definitions",
	Long: `Load permission group definitions from a YAML file.

Each group is upserted by qualified name and its per-class permission
rows are replaced. The whole file loads in one transaction.

Example:
  tmaclctl groups load groups.yml
  tmaclctl groups load --dry-run groups.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		loader := groups.NewLoader(groups.NewGormStore(database)).WithDryRun(dryRun)
		result, err := loader.LoadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load groups: %v\n", err)
			os.Exit(1)
		}

		for _, name := range result.LoadedGroups {
			fmt.Println("Loaded group:", name)
		}
		if dryRun {
			fmt.Println("Dry run: no changes applied")
		}
	},
}

func init() {
	groupsCmd.AddCommand(groupsLoadCmd)
	groupsLoadCmd.Flags().Bool("dry-run", false, "validate definitions without applying changes")
}

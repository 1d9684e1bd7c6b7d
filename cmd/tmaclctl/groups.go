package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// groupsCmd represents the groups command
var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Manage permission group definitions",
	Long:  `Manage the permission groups parties can be granted.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'groups' requires a subcommand (load, watch)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(groupsCmd)
}

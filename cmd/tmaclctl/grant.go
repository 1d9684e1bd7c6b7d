package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// grantCmd represents the grant command
var grantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Manage responsibility grants",
	Long:  `Manage the permission groups parties hold on object identities.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'grant' requires a subcommand (add, revoke)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(grantCmd)
}

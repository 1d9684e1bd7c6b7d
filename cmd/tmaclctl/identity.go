package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// identityCmd represents the identity command
var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Manage object identities",
	Long:  `Manage the object identities access control is bound to.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'identity' requires a subcommand (create, delete)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(identityCmd)
}

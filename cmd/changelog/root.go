package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Manage the tmacl changelog",
	Long: `Parse, validate and extract release notes from tmacl's CHANGELOG.md,
which follows the Keep a Changelog format.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}

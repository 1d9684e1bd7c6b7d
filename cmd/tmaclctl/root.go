package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tmaclctl",
	Short: "Manage the tmacl access-control server",
	Long: `tmaclctl manages the tmacl access-control server: database schema,
object identities, responsibility grants, permission group definitions
and the HTTP API server.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/perimetra/tmacl/pkg/acl"
)

// identityDeleteCmd represents the identity delete command
var identityDeleteCmd = &cobra.Command{
	Use:   "delete <class> <id>",
	Short: "Remove an object identity",
	Long: `Remove an object identity and every grant attached to it.

Example:
  tmaclctl identity delete project 42`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		class := args[0]
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid object id: %s\n", args[1])
			os.Exit(1)
		}

		_, service, err := connectAclService()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if err := service.RemoveObjectIdentity(acl.ObjectIdentity{Class: class, ID: id}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to remove object identity: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Removed object identity %s/%d\n", class, id)
	},
}

func init() {
	identityCmd.AddCommand(identityDeleteCmd)
}

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/perimetra/tmacl/pkg/acl"
)

// grantRevokeCmd represents the grant revoke command
var grantRevokeCmd = &cobra.Command{
	Use:   "revoke <party> [<class> <id>]",
	Short: "Revoke a party's grants",
	Long: `Revoke a party's grant on one object, or every grant the party
holds when no object is given.

Example:
  tmaclctl grant revoke 9 project 42
  tmaclctl grant revoke 9`,
	Args: cobra.RangeArgs(1, 3),
	Run: func(cmd *cobra.Command, args []string) {
		partyID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid party id: %s\n", args[0])
			os.Exit(1)
		}
		if len(args) == 2 {
			fmt.Fprintln(os.Stderr, "Both class and id are required to revoke a single grant")
			os.Exit(1)
		}

		_, service, err := connectAclService()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if len(args) == 1 {
			if err := service.RemoveAllResponsibilitiesForParty(partyID); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to revoke grants: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Revoked all grants held by party %d\n", partyID)
			return
		}

		class := args[1]
		objectID, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid object id: %s\n", args[2])
			os.Exit(1)
		}

		oi := acl.ObjectIdentity{Class: class, ID: objectID}
		if err := service.RemoveAllResponsibilities(partyID, oi); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to revoke grant: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Revoked grants of party %d on %s/%d\n", partyID, class, objectID)
	},
}

func init() {
	grantCmd.AddCommand(grantRevokeCmd)
}

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/perimetra/tmacl/pkg/acl"
)

// grantAddCmd represents the grant add command
var grantAddCmd = &cobra.Command{
	Use:   "add <party> <class> <id> <group>",
	Short: "Grant a permission group to a party on an object",
	Long: `Grant a party a permission group on an object identity.

A party holds at most one group per object; granting replaces any
previous group. Granting a MANAGEMENT-bearing group on a project-like
object recomputes the party's derived project-manager authority.

Example:
  tmaclctl grant add 9 project 42 acl.group.tm.ProjectManager`,
	Args: cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		partyID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid party id: %s\n", args[0])
			os.Exit(1)
		}
		class := args[1]
		objectID, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid object id: %s\n", args[2])
			os.Exit(1)
		}
		group := args[3]

		_, service, err := connectAclService()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		oi := acl.ObjectIdentity{Class: class, ID: objectID}
		if err := service.AddNewResponsibility(partyID, oi, group); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to add grant: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Granted %s to party %d on %s/%d\n", group, partyID, class, objectID)
	},
}

func init() {
	grantCmd.AddCommand(grantAddCmd)
}

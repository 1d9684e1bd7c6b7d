package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/perimetra/tmacl/pkg/acl"
)

// identityCreateCmd represents the identity create command
var identityCreateCmd = &cobra.Command{
	Use:   "create <class> <id>",
	Short: "Declare an object identity",
	Long: `Declare an object identity for a domain entity.

The class must be one of the registered object classes. Declaring an
identity for a project-like class recomputes derived project-manager
authorities.

Example:
  tmaclctl identity create project 42`,
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

		err = service.CreateObjectIdentity(acl.ObjectIdentity{Class: class, ID: id})
		if errors.Is(err, acl.ErrAlreadyExists) {
			fmt.Printf("Object identity %s/%d already exists\n", class, id)
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create object identity: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created object identity %s/%d\n", class, id)
	},
}

func init() {
	identityCmd.AddCommand(identityCreateCmd)
}

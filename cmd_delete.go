// cmd_delete.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a credential by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := app.store.Get(args[0]); !ok {
			fmt.Println("nothing to delete: no credential with id '" + args[0] + "'")
			return nil
		}
		if err := app.store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Println(successMsg("deleted " + args[0]))
		return nil
	},
}

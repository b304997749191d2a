// cmd_reset.go
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var resetYes bool

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "confirm the wipe")
	rootCmd.AddCommand(resetCmd)
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every credential and custom category",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			fmt.Println(failureMsg("refusing to wipe the vault without " + color.YellowString("--yes")))
			return nil
		}
		if err := app.store.ResetAll(); err != nil {
			return err
		}
		if err := app.registry.Reload(); err != nil {
			return err
		}
		app.log.Info("Vault reset")
		fmt.Println(successMsg("vault cleared; master secret and hidden-type settings kept"))
		return nil
	},
}

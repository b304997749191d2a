// cmd_init.go
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "replace an existing master secret")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the vault and set the master secret",
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, err := masterSecret().MasterSecret()
		if err != nil {
			return errors.New("set the master secret with --master or " + masterSecretEnv)
		}

		exists, err := app.secrets.HasVerifier()
		if err != nil {
			return err
		}
		if exists && !initForce {
			fmt.Println(failureMsg("vault already initialized"))
			fmt.Println(color.CyanString("→") + " Re-run with " + color.YellowString("--force") + " to replace the master secret")
			return nil
		}

		if err := app.secrets.SetVerifier(secret); err != nil {
			return err
		}
		app.log.Info("Master verifier stored")
		fmt.Println(successMsg("vault initialized at " + app.cfg.Database.Path))
		return nil
	},
}

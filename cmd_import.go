// cmd_import.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge a backup file into the vault",
	Long: `Merge a backup into the vault. Credentials whose ids already exist are
left untouched, so importing the same file twice changes nothing. Custom
categories referenced by the backup are recreated and hidden built-ins it
uses are made visible again.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cleanup := startSpinner("Restoring backup...")
		defer cleanup()

		report, err := app.merger.Import(args[0], masterSecret())
		if err != nil {
			s.FinalMSG = failureMsg("import failed")
			return err
		}
		s.FinalMSG = successMsg(fmt.Sprintf(
			"restored: %d credential(s) added, %d type(s) created, %d built-in(s) made visible",
			report.RecordsAdded, report.TypesCreated, report.BuiltinsRestored))
		return nil
	},
}

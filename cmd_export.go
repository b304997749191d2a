// cmd_export.go
package main

import (
	"github.com/spf13/cobra"
)

var exportDir string

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", "", "directory to write the backup into (default: backup.dir from config)")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write an encrypted backup zip of the whole vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := exportDir
		if dir == "" {
			dir = app.cfg.Backup.Dir
		}

		s, cleanup := startSpinner("Encrypting backup...")
		defer cleanup()

		path, err := app.codec.Export(dir, masterSecret())
		if err != nil {
			s.FinalMSG = failureMsg("export failed")
			return err
		}
		s.FinalMSG = successMsg("backup written to " + path)
		return nil
	},
}

// cmd_update.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sheeppyYU/PasswordManagerNew/pkg/validation"
)

var (
	updTitle    string
	updUsername string
	updPassword string
	updType     string
	updNotes    string
	updFavorite bool
)

func init() {
	updateCmd.Flags().StringVarP(&updTitle, "title", "t", "", "new title")
	updateCmd.Flags().StringVarP(&updUsername, "username", "u", "", "new username")
	updateCmd.Flags().StringVarP(&updPassword, "password", "p", "", "new password")
	updateCmd.Flags().StringVar(&updType, "type", "", "new category id")
	updateCmd.Flags().StringVarP(&updNotes, "notes", "n", "", "new notes")
	updateCmd.Flags().BoolVar(&updFavorite, "favorite", false, "favorite flag")
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of an existing credential",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, ok := app.store.Get(args[0])
		if !ok {
			return fmt.Errorf("no credential with id '%s'", args[0])
		}

		if cmd.Flags().Changed("title") {
			c.Title = updTitle
		}
		if cmd.Flags().Changed("username") {
			c.Username = updUsername
		}
		if cmd.Flags().Changed("password") {
			c.Password = updPassword
		}
		if cmd.Flags().Changed("type") {
			if updType == TypeAll {
				return fmt.Errorf("'%s' is a filter, not a storable category", TypeAll)
			}
			if !app.registry.Resolves(updType) {
				return fmt.Errorf("unknown type '%s'", updType)
			}
			c.Type = updType
			c.Category = app.registry.ResolveName(updType)
		}
		if cmd.Flags().Changed("notes") {
			c.Notes = updNotes
		}
		if cmd.Flags().Changed("favorite") {
			c.Favorite = updFavorite
		}

		v := validation.ValidateCredential(validation.CredentialRequest{
			Title:    c.Title,
			Username: c.Username,
			Password: c.Password,
			Notes:    c.Notes,
		})
		if v.HasErrors() {
			return v.Errors()[0]
		}

		if err := app.store.Update(c); err != nil {
			return err
		}
		fmt.Println(successMsg("updated '" + c.Title + "'"))
		return nil
	},
}

// cmd_add.go
package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sheeppyYU/PasswordManagerNew/pkg/validation"
)

var (
	addTitle    string
	addUsername string
	addPassword string
	addType     string
	addNotes    string
	addFavorite bool
)

func init() {
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "credential title")
	addCmd.Flags().StringVarP(&addUsername, "username", "u", "", "account username or email")
	addCmd.Flags().StringVarP(&addPassword, "password", "p", "", "account password")
	addCmd.Flags().StringVar(&addType, "type", TypeOther, "category id (see 'pwvault types list')")
	addCmd.Flags().StringVarP(&addNotes, "notes", "n", "", "free-form notes")
	addCmd.Flags().BoolVar(&addFavorite, "favorite", false, "mark as favorite")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a credential to the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := validation.ValidateCredential(validation.CredentialRequest{
			Title:    addTitle,
			Username: addUsername,
			Password: addPassword,
			Notes:    addNotes,
		})
		if v.HasErrors() {
			return v.Errors()[0]
		}
		if addType == TypeAll {
			return fmt.Errorf("'%s' is a filter, not a storable category", TypeAll)
		}
		if !app.registry.Resolves(addType) {
			return fmt.Errorf("unknown type '%s'", addType)
		}

		c := Credential{
			ID:       uuid.NewString(),
			Title:    addTitle,
			Username: addUsername,
			Password: addPassword,
			Category: app.registry.ResolveName(addType),
			Type:     addType,
			Notes:    addNotes,
			Favorite: addFavorite,
		}
		if err := app.store.Add(c); err != nil {
			return err
		}
		fmt.Println(successMsg("added '" + c.Title + "' (" + c.ID + ")"))
		return nil
	},
}

// cmd_list.go
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	listType      string
	listSearch    string
	listShowPass  bool
	listFavorites bool
)

func init() {
	listCmd.Flags().StringVar(&listType, "type", TypeAll, "filter by category id")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "match against title, username and notes")
	listCmd.Flags().BoolVar(&listShowPass, "show-passwords", false, "print passwords in clear text")
	listCmd.Flags().BoolVar(&listFavorites, "favorites", false, "only favorites")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List credentials, optionally filtered by category or search text",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds := app.store.Filter(listSearch, listType)
		if listFavorites {
			kept := creds[:0]
			for _, c := range creds {
				if c.Favorite {
					kept = append(kept, c)
				}
			}
			creds = kept
		}

		if len(creds) == 0 {
			fmt.Println("no credentials match")
			return nil
		}

		for _, c := range creds {
			star := " "
			if c.Favorite {
				star = color.YellowString("★")
			}
			fmt.Printf("%s %s  %s\n", star, color.New(color.Bold).Sprint(c.Title), color.CyanString("["+app.registry.ResolveName(c.Type)+"]"))
			fmt.Printf("    id:       %s\n", c.ID)
			fmt.Printf("    username: %s\n", c.Username)
			if listShowPass {
				fmt.Printf("    password: %s\n", c.Password)
			}
			if c.Notes != "" {
				fmt.Printf("    notes:    %s\n", c.Notes)
			}
		}
		fmt.Printf("\n%d credential(s)\n", len(creds))
		return nil
	},
}

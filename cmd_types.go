// cmd_types.go
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	typesDeletePurge bool
	typesDeleteYes   bool
)

func init() {
	typesDeleteCmd.Flags().BoolVar(&typesDeletePurge, "purge", false, "delete the category's credentials instead of moving them to 'other'")
	typesDeleteCmd.Flags().BoolVarP(&typesDeleteYes, "yes", "y", false, "skip the confirmation prompt")

	typesCmd.AddCommand(typesListCmd)
	typesCmd.AddCommand(typesAddCmd)
	typesCmd.AddCommand(typesDeleteCmd)
	typesCmd.AddCommand(typesHideCmd)
	typesCmd.AddCommand(typesUnhideCmd)
	rootCmd.AddCommand(typesCmd)
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Manage credential categories",
}

var typesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List visible categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, cat := range app.registry.ListVisible() {
			kind := "built-in"
			if cat.Custom {
				kind = "custom"
			}
			fmt.Printf("%-20s %s  %s\n", cat.ID, color.New(color.Bold).Sprint(cat.Name), color.CyanString("("+kind+")"))
		}
		if hidden := app.registry.HiddenIDs(); len(hidden) > 0 {
			fmt.Printf("\nhidden: %s\n", strings.Join(hidden, ", "))
		}
		return nil
	},
}

var typesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a custom category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ct, err := app.registry.AddCustom(args[0])
		if err != nil {
			return err
		}
		fmt.Println(successMsg("created '" + ct.Name + "' (" + ct.ID + ")"))
		return nil
	},
}

var typesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a category, merging or purging its credentials",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workflow := NewTypeDeletion(app.store, app.registry, app.log)
		if err := workflow.Begin(args[0]); err != nil {
			return err
		}

		dependents := len(app.store.Filter("", args[0]))
		action := "moved to '" + app.registry.ResolveName(TypeOther) + "'"
		mode := ResolveMerge
		if typesDeletePurge {
			action = "deleted"
			mode = ResolvePurge
		}

		if !typesDeleteYes {
			fmt.Printf("Remove '%s'? %d credential(s) will be %s. [y/N] ", args[0], dependents, action)
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if !strings.EqualFold(strings.TrimSpace(answer), "y") {
				workflow.Cancel()
				fmt.Println("cancelled")
				return nil
			}
		}

		touched, err := workflow.Resolve(mode)
		if err != nil {
			return err
		}
		fmt.Println(successMsg(fmt.Sprintf("removed '%s'; %d credential(s) %s", args[0], touched, action)))
		return nil
	},
}

var typesHideCmd = &cobra.Command{
	Use:   "hide <id>",
	Short: "Hide a built-in category without touching its credentials",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.registry.HideBuiltin(args[0]); err != nil {
			return err
		}
		fmt.Println(successMsg("hid '" + args[0] + "'"))
		return nil
	},
}

var typesUnhideCmd = &cobra.Command{
	Use:   "unhide <id>",
	Short: "Make a hidden built-in category visible again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.registry.UnhideBuiltin(args[0]); err != nil {
			return err
		}
		fmt.Println(successMsg("restored '" + args[0] + "'"))
		return nil
	},
}

package users

import (
	"class-notifier/cmd/classnotifier-cli/globals"
	"class-notifier/cmd/classnotifier-cli/utils"
	"class-notifier/internal/notify"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the registered users and the topics they are notified on.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := globals.Get(cmd.Context())

		reg, err := ctx.Registry(cmd.Context())
		if err != nil {
			utils.Fatal(err)
		}
		users, err := reg.Users(cmd.Context())
		if err != nil {
			utils.Fatal(err)
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"ID", "Username", "Topic"})
		for _, u := range users {
			t.AppendRow(table.Row{u.ID, u.Username, notify.Topic(u.Username)})
		}
		t.Render()
	},
}

package users

import (
	"errors"
	"fmt"

	"class-notifier/cmd/classnotifier-cli/globals"
	"class-notifier/cmd/classnotifier-cli/utils"
	"class-notifier/internal/notify"
	"class-notifier/internal/registry"

	"github.com/spf13/cobra"
)

var newUser registry.NewUser

func init() {
	addCmd.Flags().StringVar(&newUser.CFID, "cfid", "", "The CFID cookie of the portal session.")
	addCmd.Flags().StringVar(&newUser.CFTOKEN, "cftoken", "", "The CFTOKEN cookie of the portal session.")
	addCmd.Flags().StringVar(&newUser.SESSIONID, "sessionid", "", "The SESSIONID cookie of the portal session.")
	addCmd.Flags().StringVar(&newUser.SESSIONTOKEN, "sessiontoken", "", "The SESSIONTOKEN cookie of the portal session.")
	RootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Registers a user along with their portal cookies.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := globals.Get(cmd.Context())
		newUser.Username = args[0]

		reg, err := ctx.Registry(cmd.Context())
		if err != nil {
			utils.Fatal(err)
		}

		id, err := reg.AddUser(cmd.Context(), newUser)
		var validation *registry.ValidationError
		if errors.As(err, &validation) {
			utils.Fatal(fmt.Errorf("%w (pass them as flags)", validation))
		}
		if err != nil {
			utils.Fatal(err)
		}
		fmt.Printf("Added user %d, they should subscribe to the ntfy topic %s.\n", id, notify.Topic(newUser.Username))
	},
}

package notify

import (
	"errors"
	"fmt"

	"class-notifier/cmd/classnotifier-cli/globals"
	"class-notifier/cmd/classnotifier-cli/utils"
	"class-notifier/internal/notifier"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(uniformCmd)
}

var uniformCmd = &cobra.Command{
	Use:   "uniform <user id>",
	Short: "Reminds a single user to wear their sport uniform if they need it today.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := globals.Get(cmd.Context())
		userID := parseInt("user id", args[0])

		service, err := ctx.Service(cmd.Context())
		if err != nil {
			utils.Fatal(err)
		}

		outcome, err := service.NotifyUniform(cmd.Context(), userID)
		if errors.Is(err, notifier.ErrNoSportUniform) {
			fmt.Printf("User %d does not need a sport uniform today.\n", userID)
			return
		}
		if err != nil {
			utils.Fatal(err)
		}
		fmt.Printf("Reminded user %d (sport: %s).\n", userID, outcome)
	},
}

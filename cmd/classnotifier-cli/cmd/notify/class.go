package notify

import (
	"errors"
	"fmt"

	"class-notifier/cmd/classnotifier-cli/globals"
	"class-notifier/cmd/classnotifier-cli/utils"
	"class-notifier/internal/notifier"

	"github.com/spf13/cobra"
)

var dryRun bool

func init() {
	classCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve the class without sending a notification.")
	RootCmd.AddCommand(classCmd)
}

var classCmd = &cobra.Command{
	Use:   "class <period> <user id>",
	Short: "Notifies a single user of their class in the given period.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := globals.Get(cmd.Context())
		period := int(parseInt("period", args[0]))
		userID := parseInt("user id", args[1])

		service, err := ctx.Service(cmd.Context())
		if err != nil {
			utils.Fatal(err)
		}

		resolve := service.NotifyClass
		if dryRun {
			resolve = service.ClassForPeriod
		}
		record, err := resolve(cmd.Context(), period, userID)
		if errors.Is(err, notifier.ErrClassNotFound) {
			fmt.Printf("User %d has no class in period %d.\n", userID, period)
			return
		}
		if err != nil {
			utils.Fatal(err)
		}
		fmt.Println(notifier.ClassMessage(period, record))
	},
}

package notify

import (
	"class-notifier/cmd/classnotifier-cli/globals"
	"class-notifier/cmd/classnotifier-cli/utils"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(allCmd)
}

var allCmd = &cobra.Command{
	Use:   "all <period|uniform>",
	Short: "Runs the scheduled fan-out for every registered user.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := globals.Get(cmd.Context())

		service, err := ctx.Service(cmd.Context())
		if err != nil {
			utils.Fatal(err)
		}

		if args[0] == "uniform" {
			printReport(service.NotifyUniformAll(cmd.Context()))
			return
		}
		period := int(parseInt("period", args[0]))
		printReport(service.NotifyAllForPeriod(cmd.Context(), period))
	},
}

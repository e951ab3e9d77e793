package cmd

import (
	"strings"

	"class-notifier/cmd/classnotifier-cli/globals"
	"class-notifier/cmd/classnotifier-cli/utils"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Prints the effective notification schedule along with the cron spec of every entry.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := globals.Get(cmd.Context())

		t := utils.NewTable()
		t.SetTitle("Timezone: %s", ctx.Config.Timezone)
		t.AppendHeader(table.Row{"At", "Days", "Action", "Period", "Cron"})
		for _, e := range ctx.Config.Schedule {
			spec, err := e.CronSpec()
			if err != nil {
				utils.Fatal(err)
			}
			days := make([]string, len(e.Weekdays))
			for i, d := range e.Weekdays {
				days[i] = d.String()[:3]
			}
			var period any
			if e.Period > 0 {
				period = e.Period
			}
			t.AppendRow(table.Row{e.At, strings.Join(days, ","), e.Action, period, spec})
		}
		t.Render()
	},
}

package notify

import (
	"fmt"
	"strconv"

	"class-notifier/cmd/classnotifier-cli/utils"
	"class-notifier/internal/notifier"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "notify",
	Short: "The 'notify' subcommand runs the notification pipeline right now, for one user or everyone.",
}

func parseInt(name, value string) int64 {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		utils.Fatal(fmt.Errorf("%s must be a number: %w", name, err))
	}
	return n
}

func printReport(report notifier.Report) {
	if report.Err != nil {
		utils.Fatal(fmt.Errorf("run %s: %w", report.RunID, report.Err))
	}

	t := utils.NewTable()
	t.SetTitle("Run %s (%s)", report.RunID, report.Action)
	t.AppendHeader(table.Row{"Users", "Notified", "Not found", "Failed"})
	t.AppendRow(table.Row{report.Users, report.Notified, report.NotFound, report.Failed})
	t.Render()

	if len(report.Failures) == 0 {
		return
	}
	failures := utils.NewTable()
	failures.AppendHeader(table.Row{"User", "Last stage", "Error"})
	for _, f := range report.Failures {
		failures.AppendRow(table.Row{f.UserID, f.Stage, f.Err.Error()})
	}
	failures.Render()
}

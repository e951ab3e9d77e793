package cmd

import (
	"fmt"
	"os"

	"class-notifier/cmd/classnotifier-cli/utils"
	"class-notifier/internal/timetable"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(parseCmd)
}

func printRecords(records []timetable.ClassRecord) {
	t := utils.NewTable()
	t.AppendHeader(table.Row{"Period", "Class", "Location", "Teacher"})
	for _, r := range records {
		t.AppendRow(table.Row{r.Period, r.Subject, r.Location, r.Teacher})
	}
	t.Render()
}

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parses a saved timetable page and prints the classes it contains.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		contents, err := os.ReadFile(args[0])
		if err != nil {
			utils.Fatal(err)
		}
		result := timetable.Parse(string(contents))
		printRecords(result.Records)
		fmt.Printf("%d records, %d rows skipped\n", len(result.Records), result.Skipped)
	},
}

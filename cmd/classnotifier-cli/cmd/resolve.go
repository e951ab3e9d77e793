package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"class-notifier/cmd/classnotifier-cli/globals"
	"class-notifier/cmd/classnotifier-cli/utils"
	"class-notifier/internal/timetable"

	"github.com/spf13/cobra"
)

var resolveDate string

func init() {
	resolveCmd.Flags().StringVar(&resolveDate, "date", "", "Resolve the sport uniform as if it were this date (YYYY-MM-DD), defaults to today.")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <file> <period|uniform>",
	Short: "Resolves a period (or whether a sport uniform is needed) against a saved timetable page.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := globals.Get(cmd.Context())

		contents, err := os.ReadFile(args[0])
		if err != nil {
			utils.Fatal(err)
		}
		records := timetable.ParseTimetable(string(contents))

		if args[1] == "uniform" {
			now := ctx.Clock.Now()
			if resolveDate != "" {
				now, err = time.ParseInLocation(time.DateOnly, resolveDate, ctx.Clock.Location())
				if err != nil {
					utils.Fatal(err)
				}
			}
			rule := timetable.DefaultSportRule
			if opts := ctx.Config.NotifierOptions(); opts.SportRule != nil {
				rule = *opts.SportRule
			}
			outcome := timetable.FindSportPeriod(records, now, rule)
			if !outcome.Found() {
				fmt.Println("No sport uniform needed.")
				return
			}
			fmt.Printf("Sport uniform needed: %s\n", outcome)
			return
		}

		period, err := strconv.Atoi(args[1])
		if err != nil {
			utils.Fatal(fmt.Errorf("period must be a number or 'uniform': %w", err))
		}
		record, ok := timetable.FindPeriod(records, period)
		if !ok {
			utils.Fatal(fmt.Errorf("no class found for period %d", period))
		}
		printRecords([]timetable.ClassRecord{record})
	},
}

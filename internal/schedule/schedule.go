// Package schedule turns the school bell times into cron jobs that trigger
// notifier fan-outs.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"class-notifier/internal/components/assert"
	"class-notifier/internal/components/chrono"
	"class-notifier/internal/components/telemetry"
	"class-notifier/internal/notifier"
)

const (
	report_schedule_fire = "schedule.fire"
)

// Entry is a single scheduled trigger. At is "HH:MM" in the clock's timezone.
type Entry struct {
	At       string         `json:"at"`
	Weekdays []time.Weekday `json:"weekdays"`
	Action   string         `json:"action"`
	Period   int            `json:"period,omitempty"`
}

var (
	monToWedFri = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Friday}
	thursday    = []time.Weekday{time.Thursday}
	weekdays    = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
)

// DefaultTable is the bell schedule of the school, Thursdays run on a different
// timetable.
var DefaultTable = []Entry{
	{At: "07:00", Weekdays: weekdays, Action: notifier.ActionUniform},
	{At: "08:55", Weekdays: monToWedFri, Action: notifier.ActionClass, Period: 1},
	{At: "09:10", Weekdays: thursday, Action: notifier.ActionClass, Period: 1},
	{At: "09:45", Weekdays: monToWedFri, Action: notifier.ActionClass, Period: 2},
	{At: "09:55", Weekdays: thursday, Action: notifier.ActionClass, Period: 2},
	{At: "11:00", Weekdays: monToWedFri, Action: notifier.ActionClass, Period: 3},
	{At: "11:50", Weekdays: monToWedFri, Action: notifier.ActionClass, Period: 4},
	{At: "11:45", Weekdays: thursday, Action: notifier.ActionClass, Period: 4},
	{At: "13:30", Weekdays: monToWedFri, Action: notifier.ActionClass, Period: 5},
	{At: "13:00", Weekdays: thursday, Action: notifier.ActionClass, Period: 5},
	{At: "14:20", Weekdays: monToWedFri, Action: notifier.ActionClass, Period: 6},
}

func parseAt(at string) (hour, minute int, err error) {
	parts := strings.Split(at, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("time %q is not HH:MM", at)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("time %q has an invalid hour", at)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q has an invalid minute", at)
	}
	return hour, minute, nil
}

func (e Entry) Validate() error {
	_, _, err := parseAt(e.At)
	if err != nil {
		return err
	}
	if len(e.Weekdays) == 0 {
		return fmt.Errorf("entry at %s has no weekdays", e.At)
	}
	for _, d := range e.Weekdays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("entry at %s has invalid weekday %d", e.At, d)
		}
	}
	switch e.Action {
	case notifier.ActionClass:
		if e.Period < 1 {
			return fmt.Errorf("class entry at %s needs a period >= 1", e.At)
		}
	case notifier.ActionUniform:
	default:
		return fmt.Errorf("entry at %s has unknown action %q", e.At, e.Action)
	}
	return nil
}

// CronSpec renders the entry as a standard 5 field cron spec,
// ex. "55 8 * * 1,2,3,5".
func (e Entry) CronSpec() (string, error) {
	err := e.Validate()
	if err != nil {
		return "", err
	}
	hour, minute, _ := parseAt(e.At)

	days := make([]int, len(e.Weekdays))
	for i, d := range e.Weekdays {
		days[i] = int(d)
	}
	sort.Ints(days)
	dayStrs := make([]string, 0, len(days))
	for i, d := range days {
		if i > 0 && days[i-1] == d {
			continue
		}
		dayStrs = append(dayStrs, strconv.Itoa(d))
	}

	return fmt.Sprintf("%d %d * * %s", minute, hour, strings.Join(dayStrs, ",")), nil
}

// Validate checks every entry of a table.
func Validate(table []Entry) error {
	errs := []error{}
	for _, e := range table {
		errs = append(errs, e.Validate())
	}
	return errors.Join(errs...)
}

// Runner is what a fired entry triggers.
//
// note: fault injection point
type Runner interface {
	NotifyAllForPeriod(ctx context.Context, period int) notifier.Report
	NotifyUniformAll(ctx context.Context) notifier.Report
}

// Register adds a cron job for every entry of table. Jobs run with ctx, so
// cancelling it aborts in-flight fan-outs.
func Register(ctx context.Context, cron chrono.CronAPI, runner Runner, table []Entry, tel telemetry.API) error {
	assert.NotNil(cron, "cron")
	assert.NotNil(runner, "runner")
	assert.NotNil(tel, "telemetry")
	tel = telemetry.NewScopedAPI("schedule", tel)

	err := Validate(table)
	if err != nil {
		return err
	}

	for _, e := range table {
		spec, err := e.CronSpec()
		if err != nil {
			return err
		}
		entry := e
		err = cron.Cron(spec, func() {
			Fire(ctx, runner, entry, tel)
		})
		if err != nil {
			return fmt.Errorf("register %q: %w", spec, err)
		}
		tel.ReportDebug("registered", spec, entry.Action, entry.Period)
	}
	return nil
}

// Fire runs the fan-out of a single entry and logs its report.
func Fire(ctx context.Context, runner Runner, e Entry, tel telemetry.API) notifier.Report {
	var report notifier.Report
	switch e.Action {
	case notifier.ActionUniform:
		report = runner.NotifyUniformAll(ctx)
	default:
		report = runner.NotifyAllForPeriod(ctx, e.Period)
	}

	if report.Err != nil {
		tel.ReportBroken(report_schedule_fire, report.Err, e.At, e.Action)
		return report
	}
	tel.ReportDebug(
		"fired",
		e.At,
		e.Action,
		e.Period,
		fmt.Sprintf("notified=%d not_found=%d failed=%d", report.Notified, report.NotFound, report.Failed),
	)
	return report
}

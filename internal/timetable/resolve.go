package timetable

import (
	"strconv"
	"strings"
	"time"

	"class-notifier/lib/textutil"
)

// FindPeriod returns the first record whose period label's first run of digits
// equals target, ex. "Period 1" matches 1 but "Period 10" does not.
func FindPeriod(records []ClassRecord, target int) (ClassRecord, bool) {
	want := strconv.Itoa(target)
	for _, r := range records {
		if textutil.FirstDigits(r.Period) == want {
			return r, true
		}
	}
	return ClassRecord{}, false
}

// SportRule is the institutional fallback for days that are sport days even
// though no timetabled class says so.
type SportRule struct {
	Weekday time.Weekday
	Label   string
}

// DefaultSportRule is the rule of the school the portal belongs to.
var DefaultSportRule = SportRule{
	Weekday: time.Thursday,
	Label:   "Thursday Sport",
}

// SportOutcome is either the period label of a sport class, the label of the
// SportRule, or empty when no sport uniform is needed.
type SportOutcome string

const NoSport SportOutcome = ""

func (o SportOutcome) Found() bool {
	return o != NoSport
}

// FindSportPeriod returns the period of the first record whose subject contains
// "Sport" (case sensitive). If there is none, it falls back to rule.Label when
// now is on rule.Weekday.
func FindSportPeriod(records []ClassRecord, now time.Time, rule SportRule) SportOutcome {
	for _, r := range records {
		if strings.Contains(r.Subject, "Sport") {
			return SportOutcome(r.Period)
		}
	}
	if rule.Label != "" && now.Weekday() == rule.Weekday {
		return SportOutcome(rule.Label)
	}
	return NoSport
}

package notifier

import (
	"fmt"

	"class-notifier/internal/timetable"
)

// ClassMessage names the requested period number rather than the portal's label
// for it, so the reminder reads the same however the portal formats periods.
func ClassMessage(period int, record timetable.ClassRecord) string {
	return fmt.Sprintf(
		"Next class: Period %d, %s, %s at %s",
		period,
		record.Subject,
		record.Teacher,
		record.Location,
	)
}

func UniformMessage(username string) string {
	return fmt.Sprintf("Good Morning %s, remember to wear your sport uniform!", username)
}

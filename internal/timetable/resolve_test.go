package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var sampleRecords = []ClassRecord{
	{Period: "Period 1", Subject: "English", Location: "B12", Teacher: "Ms Smith"},
	{Period: "Period 10", Subject: "Study", Location: "Library", Teacher: "Mrs Lee"},
	{Period: "Period 2", Subject: "Sport", Location: "Oval", Teacher: "Mr Jones"},
	{Period: "P2 second", Subject: "Sport Science", Location: "Gym", Teacher: "Mr Kim"},
}

func TestFindPeriod(t *testing.T) {
	table := []struct {
		target   int
		expected ClassRecord
		found    bool
	}{
		{target: 1, expected: sampleRecords[0], found: true},
		{target: 10, expected: sampleRecords[1], found: true},
		{target: 2, expected: sampleRecords[2], found: true},
		{target: 3, found: false},
		{target: 0, found: false},
	}

	for _, row := range table {
		record, found := FindPeriod(sampleRecords, row.target)
		require.Equal(t, row.found, found, "period %d", row.target)
		require.Equal(t, row.expected, record, "period %d", row.target)
	}
}

func TestFindPeriodIsIdempotent(t *testing.T) {
	first, ok1 := FindPeriod(sampleRecords, 2)
	second, ok2 := FindPeriod(sampleRecords, 2)
	require.Equal(t, ok1, ok2)
	require.Equal(t, first, second)
}

func TestFindPeriodNoRecords(t *testing.T) {
	_, found := FindPeriod(nil, 1)
	require.False(t, found)
}

func TestFindSportPeriod(t *testing.T) {
	// 2024-05-16 is a Thursday
	thursday := time.Date(2024, 5, 16, 7, 0, 0, 0, time.UTC)
	monday := time.Date(2024, 5, 13, 7, 0, 0, 0, time.UTC)
	noSport := []ClassRecord{sampleRecords[0]}
	lowercase := []ClassRecord{{Period: "Period 4", Subject: "sport", Location: "Oval", Teacher: "Mr Jones"}}

	table := []struct {
		name     string
		records  []ClassRecord
		now      time.Time
		expected SportOutcome
	}{
		{name: "first sport wins", records: sampleRecords, now: monday, expected: "Period 2"},
		{name: "sport beats weekday rule", records: sampleRecords, now: thursday, expected: "Period 2"},
		{name: "thursday fallback", records: noSport, now: thursday, expected: "Thursday Sport"},
		{name: "thursday fallback without records", records: nil, now: thursday, expected: "Thursday Sport"},
		{name: "no sport on monday", records: noSport, now: monday, expected: NoSport},
		{name: "match is case sensitive", records: lowercase, now: monday, expected: NoSport},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			outcome := FindSportPeriod(row.records, row.now, DefaultSportRule)
			require.Equal(t, row.expected, outcome)
			require.Equal(t, row.expected != NoSport, outcome.Found())
		})
	}
}

func TestFindSportPeriodCustomRule(t *testing.T) {
	friday := time.Date(2024, 5, 17, 7, 0, 0, 0, time.UTC)
	rule := SportRule{Weekday: time.Friday, Label: "Friday Sport"}
	require.Equal(t, SportOutcome("Friday Sport"), FindSportPeriod(nil, friday, rule))
	require.Equal(t, NoSport, FindSportPeriod(nil, friday, DefaultSportRule))
}

package timetable

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseScenario(t *testing.T) {
	html := `<table>
		<tr><td>Period 1 [08:50]</td><td>English [ENG] 10 A</td><td>B12</td><td>Ms Smith</td></tr>
		<tr><td>Period 2</td><td>Sport</td><td>Oval</td><td>Mr Jones</td></tr>
	</table>`

	expected := []ClassRecord{
		{Period: "Period 1", Subject: "English", Location: "B12", Teacher: "Ms Smith"},
		{Period: "Period 2", Subject: "Sport", Location: "Oval", Teacher: "Mr Jones"},
	}
	if diff := cmp.Diff(expected, ParseTimetable(html)); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTestdata(t *testing.T) {
	contents, err := os.ReadFile("testdata/timetable.html")
	require.NoError(t, err)

	result := Parse(string(contents))
	expected := []ClassRecord{
		{Period: "Period 1", Subject: "English", Location: "B12", Teacher: "Ms Smith"},
		{Period: "Period 2", Subject: "Sport", Location: "Oval", Teacher: "Mr Jones"},
		{Period: "Period 10", Subject: "Study", Location: "Library", Teacher: "Mrs Lee"},
	}
	if diff := cmp.Diff(expected, result.Records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
	// header row, recess row and the 3 cell row
	require.Equal(t, 3, result.Skipped)
}

func TestParseSkipsIncompleteRows(t *testing.T) {
	table := []struct {
		name string
		html string
	}{
		{name: "empty document", html: ""},
		{name: "not html", html: "}{ definitely not markup"},
		{name: "no rows", html: "<p>Your session has expired</p>"},
		{name: "empty teacher", html: "<table><tr><td>Period 1</td><td>Maths</td><td>A1</td><td> \n\t</td></tr></table>"},
		{name: "only annotation period", html: "<table><tr><td>[08:50]</td><td>Maths</td><td>A1</td><td>Mr A</td></tr></table>"},
		{name: "three cells", html: "<table><tr><td>Period 1</td><td>Maths</td><td>A1</td></tr></table>"},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			require.Empty(t, ParseTimetable(row.html))
		})
	}
}

func TestParsePreservesOrderAndDuplicates(t *testing.T) {
	html := `<table>
		<tr><td>Period 3</td><td>Art</td><td>C1</td><td>Ms A</td></tr>
		<tr><td>Period 1</td><td>Art</td><td>C1</td><td>Ms A</td></tr>
		<tr><td>Period 1</td><td>Art</td><td>C1</td><td>Ms A</td></tr>
	</table>`

	records := ParseTimetable(html)
	require.Len(t, records, 3)
	require.Equal(t, "Period 3", records[0].Period)
	require.Equal(t, records[1], records[2])
}

func TestParseNormalizesEmbeddedWhitespace(t *testing.T) {
	html := "<table><tr><td>Period\t1</td><td>Mod\nern History [HIS] 11 B</td><td>\tG\n2</td><td>Dr\tWho</td></tr></table>"

	records := ParseTimetable(html)
	require.Equal(t, []ClassRecord{{
		Period:   "Period1",
		Subject:  "Modern History",
		Location: "G2",
		Teacher:  "DrWho",
	}}, records)
}

package timetable

import (
	"strings"

	"class-notifier/lib/htmlutil"
	"class-notifier/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// ParseResult is the outcome of parsing a timetable page. Skipped counts the
// table rows that did not yield a record (headers, spacers, partial rows).
type ParseResult struct {
	Records []ClassRecord
	Skipped int
}

func normalizePeriod(raw string) string {
	return strings.TrimSpace(textutil.StripBracketAnnotations(textutil.StripControlWhitespace(raw)))
}

func normalizeSubject(raw string) string {
	return strings.TrimSpace(textutil.StripClassCodeSuffix(textutil.StripControlWhitespace(raw)))
}

// Parse extracts every class row from the timetable html. It never fails,
// markup it cannot make sense of simply yields no records.
//
// Every <tr> is considered in document order, its first four cells are read as
// period, subject, location and teacher. A row becomes a record only if all four
// are non-empty after normalization.
func Parse(html string) ParseResult {
	result := ParseResult{Records: []ClassRecord{}}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return result
	}

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := htmlutil.Cells(row)
		if len(cells) < 4 {
			result.Skipped++
			return
		}
		record := ClassRecord{
			Period:   normalizePeriod(cells[0]),
			Subject:  normalizeSubject(cells[1]),
			Location: textutil.StripControlWhitespace(cells[2]),
			Teacher:  textutil.StripControlWhitespace(cells[3]),
		}
		if record.Period == "" || record.Subject == "" || record.Location == "" || record.Teacher == "" {
			result.Skipped++
			return
		}
		result.Records = append(result.Records, record)
	})

	return result
}

// ParseTimetable is Parse without the skipped row count.
func ParseTimetable(html string) []ClassRecord {
	return Parse(html).Records
}

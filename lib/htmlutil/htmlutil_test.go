package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestCells(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<table>
		<tr><td>Period <b>1</b></td><td>Maths</td><th>ignored</th><td></td></tr>
	</table>`))
	require.NoError(t, err)

	rows := doc.Find("tr")
	require.Equal(t, 1, rows.Length())
	require.Equal(t, []string{"Period 1", "Maths", ""}, Cells(rows.First()))
}

func TestGetTextNil(t *testing.T) {
	require.Equal(t, "", GetText(nil))
}

package htmlutil

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText concatenates every text node under node, in document order.
// Unlike goquery's Text(), it can be called on a bare *html.Node.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		getTextRecursive(child, buffer)
	}
}

// Cells returns the raw text content of every <td> under row, in document order.
func Cells(row *goquery.Selection) []string {
	cells := []string{}
	row.Find("td").Each(func(_ int, td *goquery.Selection) {
		var text strings.Builder
		for _, n := range td.Nodes {
			text.WriteString(GetText(n))
		}
		cells = append(cells, text.String())
	})
	return cells
}

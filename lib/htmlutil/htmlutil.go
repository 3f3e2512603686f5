package htmlutil

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

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
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// FlattenText renders a selection as plain text, one fragment per line.
// <br> elements count as fragment boundaries, whitespace-only fragments are
// dropped and every fragment is trimmed before joining.
func FlattenText(sel *goquery.Selection) string {
	var fragments []string
	for _, node := range sel.Nodes {
		collectFragments(node, &fragments)
	}
	return strings.Join(fragments, "\n")
}

func collectFragments(node *html.Node, fragments *[]string) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		trimmed := strings.TrimSpace(node.Data)
		if trimmed != "" {
			*fragments = append(*fragments, trimmed)
		}
		return
	}
	child := node.FirstChild
	for child != nil {
		collectFragments(child, fragments)
		child = child.NextSibling
	}
}

// SelectText returns the flattened text of the first non-empty match in an
// ordered list of selectors. The source markup has shipped in at least two
// generations so callers pass every selector seen in the wild.
func SelectText(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		sel := doc.Find(selector).First()
		if len(sel.Nodes) == 0 {
			continue
		}
		text := strings.TrimSpace(FlattenText(sel))
		if text != "" {
			return text
		}
	}
	return ""
}

package htmlutil

import (
	"bytes"
	"fmt"
	"regexp"
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

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// Text returns the visible text of a selection, trimmed and with runs of
// whitespace collapsed.
func Text(sel *goquery.Selection) string {
	var buffer bytes.Buffer
	for _, n := range sel.Nodes {
		buffer.WriteString(GetText(n))
	}
	text := strings.TrimSpace(buffer.String())
	return innerWhitespace.ReplaceAllString(text, " ")
}

// TextFromMarkup parses markup and returns its visible text, or "" when
// the markup cannot be parsed.
func TextFromMarkup(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	return Text(doc.Selection)
}

// FragmentByID parses markup and returns the element carrying the given id.
// The second return is false when no such element exists.
func FragmentByID(markup, id string) (*goquery.Selection, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, false
	}
	sel := doc.Find(fmt.Sprintf("[id=%q]", id))
	if sel.Length() == 0 {
		return nil, false
	}
	return sel.First(), true
}

// InnerHTML returns the trimmed inner markup of a selection, or "" on error.
func InnerHTML(sel *goquery.Selection) string {
	inner, err := sel.Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(inner)
}

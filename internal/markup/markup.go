// Package markup turns raw listing HTML into the two views the strategies
// consume: plain searchable text with paragraph breaks preserved, and the
// parsed tree for selector-based lookups.
package markup

import (
	"bytes"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Page is the normalized form of one listing page.
type Page struct {
	Title string
	// Text is the page's readable content, one paragraph per line, with
	// scripts, navigation, headers and footers stripped.
	Text string
	// Tree is the parsed document (same stripping applied) for the
	// structured-markup strategy and the media extractor.
	Tree *goquery.Document
}

// mainContentSelectors are tried in order to locate the listing body before
// falling back to <body>.
var mainContentSelectors = []string{"main", "#main", ".main", "#content", ".content", "article"}

// Normalize parses raw HTML and strips non-content markup. It never fails on
// malformed input; only an unparseable document returns an error.
func Normalize(raw []byte) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("nil document")
	}

	title := strings.TrimSpace(doc.Find("head title").First().Text())
	doc.Find("script, style, noscript, iframe, nav, footer").Remove()

	content := doc.Find("body")
	for _, sel := range mainContentSelectors {
		if s := doc.Find(sel); s.Length() > 0 {
			content = s.First()
			break
		}
	}

	var b strings.Builder
	for _, n := range content.Nodes {
		collectText(&b, n)
	}
	return &Page{
		Title: title,
		Text:  normalizeWhitespace(b.String()),
		Tree:  doc,
	}, nil
}

// collectText walks the node tree writing text content with newlines at block
// boundaries, so downstream paragraph splitting sees the page's structure.
func collectText(b *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript", "nav", "footer", "header", "aside", "iframe":
			return
		case "br", "hr", "ul", "ol", "p", "div", "h1", "h2", "h3", "h4", "h5", "h6", "li", "tr":
			b.WriteString("\n")
		}
	}
	if n.Type == html.TextNode {
		data := strings.ReplaceAll(n.Data, "\t", " ")
		b.WriteString(strings.ReplaceAll(data, "\r", " "))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6", "li", "tr":
			b.WriteString("\n")
		}
	}
}

// normalizeWhitespace collapses space runs and drops repeated blank lines.
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		out = append(out, collapseSpaces(trimmed))
	}
	return strings.Join(out, "\n")
}

func collapseSpaces(s string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return b.String()
}

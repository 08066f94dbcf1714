package source

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// stripHTML reduces upstream HTML snippets to plain text with collapsed
// whitespace. Feed descriptions and story texts routinely arrive with markup
// and entities baked in.
func stripHTML(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

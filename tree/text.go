package tree

import (
	"strings"

	"golang.org/x/net/html"
)

// PlainText strips markup from a description and collapses whitespace.
// Entities are unescaped. Element boundaries count as word breaks.
func PlainText(description string) string {
	if !strings.ContainsAny(description, "<&") {
		return strings.Join(strings.Fields(description), " ")
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(description))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if !isInline(string(name)) {
				b.WriteByte(' ')
			}
		}
	}
}

func isInline(tag string) bool {
	switch tag {
	case "b", "i", "em", "strong", "u", "sub", "sup", "span", "small", "a":
		return true
	}
	return false
}

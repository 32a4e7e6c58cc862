package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// MarkupStripper removes inline HTML from sentence text
type MarkupStripper struct{}

// NewMarkupStripper creates a new markup stripper
func NewMarkupStripper() *MarkupStripper {
	return &MarkupStripper{}
}

// Strip returns the concatenated text nodes of s, skipping scripts and styles.
// Text without '<' is returned unchanged.
func (m *MarkupStripper) Strip(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}

	tokenizer := html.NewTokenizer(strings.NewReader(s))
	var buf strings.Builder
	skip := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// io.EOF or a parse error, either way keep what we have
			return buf.String()
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if isSkippedTag(string(name)) {
				skip++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isSkippedTag(string(name)) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				buf.Write(tokenizer.Text())
			}
		}
	}
}

func isSkippedTag(name string) bool {
	switch name {
	case "script", "style", "noscript":
		return true
	}
	return false
}

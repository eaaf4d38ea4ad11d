package search

import (
	"strings"
	"unicode/utf8"
)

const (
	HighlightOpen  = "<mark>"
	HighlightClose = "</mark>"

	maxHighlights    = 3
	highlightContext = 100
)

// Highlights returns up to three snippets of text around occurrences of the
// terms, each with up to 100 characters of context on either side and the
// match wrapped in <mark> tags. Terms are matched literally. Context never
// crosses a line break or overlaps the previous snippet.
func Highlights(text string, terms []string) []string {
	out := []string{}
	lower := strings.ToLower(text)
	if len(lower) != len(text) {
		// Case folding changed byte offsets; match against the folded text.
		text = lower
	}

	for _, term := range terms {
		if term == "" {
			continue
		}
		pos := 0
		for len(out) < maxHighlights && pos < len(text) {
			i := strings.Index(lower[pos:], term)
			if i < 0 {
				break
			}
			start := pos + i
			end := start + len(term)
			from := max(back(text, start, highlightContext), pos)
			to := forward(text, end, highlightContext)

			var b strings.Builder
			b.WriteString("...")
			b.WriteString(text[from:start])
			b.WriteString(HighlightOpen)
			b.WriteString(text[start:end])
			b.WriteString(HighlightClose)
			b.WriteString(text[end:to])
			b.WriteString("...")
			out = append(out, b.String())

			pos = to
		}
		if len(out) >= maxHighlights {
			break
		}
	}
	return out
}

// back walks up to n runes left of i, stopping at a line break.
func back(s string, i, n int) int {
	for k := 0; k < n && i > 0; k++ {
		r, size := utf8.DecodeLastRuneInString(s[:i])
		if r == '\n' {
			break
		}
		i -= size
	}
	return i
}

// forward walks up to n runes right of i, stopping at a line break.
func forward(s string, i, n int) int {
	for k := 0; k < n && i < len(s); k++ {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == '\n' {
			break
		}
		i += size
	}
	return i
}

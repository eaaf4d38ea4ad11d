package processing

import (
	"crypto/sha1"
	"encoding/hex"
	"html"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxQueryLength = 100

var urlRegex = regexp.MustCompile(`https?://[^\s]+`)

var (
	whitespace  = regexp.MustCompile(`\s+`)
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	markup      = regexp.MustCompile(`<[^>]*>`)
	queryUnsafe = regexp.MustCompile(`[^\p{L}\p{N}_\s-]+`)
)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "to": {}, "in": {}, "for": {}, "of": {}, "and": {},
	"or": {}, "on": {}, "at": {}, "by": {}, "with": {}, "from": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "be": {}, "this": {}, "that": {}, "their": {}, "our": {},
}

// SanitizeSearchQuery strips markup and punctuation other than hyphens from
// user input, collapses whitespace and caps the length.
func SanitizeSearchQuery(query string) string {
	q := strings.NewReplacer("<", "", ">", "").Replace(query)
	q = queryUnsafe.ReplaceAllString(q, "")
	q = whitespace.ReplaceAllString(q, " ")
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) > maxQueryLength {
		q = strings.TrimSpace(string([]rune(q)[:maxQueryLength]))
	}
	return q
}

// RemoveURLs removes all URLs from the input text.
func RemoveURLs(input string) string {
	return urlRegex.ReplaceAllString(input, " ")
}

// StripMarkup removes HTML/MDX tags and decodes entities.
func StripMarkup(input string) string {
	return html.UnescapeString(markup.ReplaceAllString(input, " "))
}

// CleanText strips markup, punctuation and URLs, and squeezes whitespace.
func CleanText(input string) string {
	if input == "" {
		return ""
	}
	decoded := StripMarkup(input)
	decoded = RemoveURLs(decoded)
	decoded = punctuation.ReplaceAllString(decoded, " ")
	decoded = whitespace.ReplaceAllString(decoded, " ")
	return strings.TrimSpace(decoded)
}

// ExtractKeywords returns the most frequent words that are not stop-words.
func ExtractKeywords(text string, limit, minLen int) []string {
	clean := strings.ToLower(CleanText(text))
	if clean == "" {
		return nil
	}

	freq := make(map[string]int)
	for _, token := range strings.Fields(clean) {
		token = strings.TrimFunc(token, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if utf8.RuneCountInString(token) < minLen {
			continue
		}
		if _, skip := stopwords[token]; skip {
			continue
		}
		freq[token]++
	}

	if len(freq) == 0 {
		return nil
	}

	type kv struct {
		word  string
		count int
	}

	pairs := make([]kv, 0, len(freq))
	for word, count := range freq {
		pairs = append(pairs, kv{word: word, count: count})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count == pairs[j].count {
			return pairs[i].word < pairs[j].word
		}
		return pairs[i].count > pairs[j].count
	})

	max := limit
	if max <= 0 || max > len(pairs) {
		max = len(pairs)
	}

	keywords := make([]string, 0, max)
	for i := 0; i < max; i++ {
		keywords = append(keywords, pairs[i].word)
	}

	return keywords
}

// Slugify lowercases s and joins its words with hyphens.
func Slugify(s string) string {
	clean := strings.ToLower(CleanText(s))
	return strings.Join(strings.Fields(clean), "-")
}

// BuildDocumentID hashes the most stable fields to form deterministic IDs.
func BuildDocumentID(parts ...string) string {
	s := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(s[:])
}

// GenerateExcerpt returns the first sentence of text, cut to maxWords words.
// Returns empty string if text is empty.
func GenerateExcerpt(text string, maxWords int) string {
	if text == "" {
		return ""
	}

	plain := RemoveURLs(StripMarkup(text))

	sentenceEnd := strings.IndexAny(plain, ".!?")
	var firstSentence string
	if sentenceEnd > 0 {
		firstSentence = strings.TrimSpace(plain[:sentenceEnd+1])
	} else {
		firstSentence = plain
	}

	words := strings.Fields(firstSentence)
	if len(words) == 0 {
		return ""
	}

	if maxWords > 0 && len(words) > maxWords {
		return strings.Join(words[:maxWords], " ") + "..."
	}

	return strings.Join(words, " ")
}

// Truncate cuts s to at most n runes, appending an ellipsis when it had to cut.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

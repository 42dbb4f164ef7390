// Package content measures and cleans the HTML produced by the editor.
package content

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

const wordsPerMinute = 200

var ugcPolicy = bluemonday.UGCPolicy()

// PlainText returns the text content of an HTML fragment, the same string
// a browser reports as textContent.
func PlainText(html string) string {
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return doc.Text()
}

// CharCount counts characters of the plain text.
func CharCount(html string) int {
	return utf8.RuneCountInString(PlainText(html))
}

func WordCount(html string) int {
	return len(strings.Fields(PlainText(html)))
}

// ReadingTime is in whole minutes, never less than one.
func ReadingTime(html string) int {
	minutes := (WordCount(html) + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Sanitize strips scripts, handlers and anything else outside the
// user-generated-content allowlist.
func Sanitize(html string) string {
	return ugcPolicy.Sanitize(html)
}

// Excerpt shortens the plain text to at most max runes, cutting on a word
// boundary and appending an ellipsis when something was dropped.
func Excerpt(html string, max int) string {
	text := strings.Join(strings.Fields(PlainText(html)), " ")
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:max])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "..."
}

// ParseTags splits a comma separated list into a set: trimmed, empties
// dropped, duplicates removed ignoring case, first spelling kept.
func ParseTags(raw string) []string {
	var tags []string
	seen := make(map[string]struct{})

	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
	}

	return tags
}

// NormalizeTags applies the ParseTags rules to an existing slice.
func NormalizeTags(tags []string) []string {
	return ParseTags(strings.Join(tags, ","))
}

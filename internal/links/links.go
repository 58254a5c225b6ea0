// Package links annotates messages with URLs and Telegram references
// extracted from their text. Extraction is best-effort and purely
// informational; it never affects which messages continue down the pipeline.
package links

import (
	"regexp"

	"github.com/edgard/jobscout/internal/fetch"
)

var (
	urlPattern = regexp.MustCompile(`https?://[A-Za-z0-9$\-_@.&+!*(),%/:?=#~;]+`)

	refPatterns = []*regexp.Regexp{
		regexp.MustCompile(`t\.me/[a-zA-Z0-9_]+`),
		regexp.MustCompile(`@[a-zA-Z0-9_]+`),
		regexp.MustCompile(`tg://[a-zA-Z0-9_/?=&]+`),
	}
)

// Enrich fills URLs and Refs on each message in place. Messages with no
// matches get empty slices, never nil.
func Enrich(messages []*fetch.Message) {
	for _, msg := range messages {
		msg.URLs = ExtractURLs(msg.Text)
		msg.Refs = ExtractRefs(msg.Text)
	}
}

// ExtractURLs returns all plain http/https URLs found in text, in order.
func ExtractURLs(text string) []string {
	urls := urlPattern.FindAllString(text, -1)
	if urls == nil {
		return []string{}
	}
	return urls
}

// ExtractRefs returns Telegram-native references (t.me links, @handles,
// tg:// URIs) found in text, grouped by pattern in order of appearance.
func ExtractRefs(text string) []string {
	refs := []string{}
	for _, pattern := range refPatterns {
		refs = append(refs, pattern.FindAllString(text, -1)...)
	}
	return refs
}

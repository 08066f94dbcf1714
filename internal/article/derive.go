package article

import (
	"hash/fnv"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxSlugLen    = 100
	maxExcerptLen = 300
	maxTags       = 5
)

var tagWordExpr = regexp.MustCompile(`\b[a-z]{4,}\b`)

// Words too generic to be useful as tags.
var tagStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "by": true, "from": true,
	"this": true, "that": true, "have": true, "been": true, "will": true,
	"says": true, "said": true, "after": true, "about": true, "more": true,
}

// Slug derives a URL-safe identifier from a title: lowercased, runs of
// non-alphanumeric characters collapsed to single dashes, trimmed, capped
// at 100 characters. Uniqueness is not guaranteed here; the store enforces it.
func Slug(title string) string {
	title = strings.ToLower(title)

	var b strings.Builder
	b.Grow(len(title))
	pendingDash := false
	for _, r := range title {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingDash = b.Len() > 0
			continue
		}
		if pendingDash {
			b.WriteByte('-')
			pendingDash = false
		}
		b.WriteRune(r)
	}

	s := b.String()
	if len(s) > maxSlugLen {
		s = strings.TrimRight(s[:maxSlugLen], "-")
	}
	return s
}

// Excerpt caps text at 300 bytes, marking truncation with an ellipsis.
func Excerpt(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= maxExcerptLen {
		return text
	}
	return cutAtRune(text, maxExcerptLen-3) + "..."
}

// Truncate bounds a content preview at max bytes with no marker.
func Truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return cutAtRune(text, max)
}

// cutAtRune truncates at max bytes, backing up so a multibyte rune is never
// split at the boundary.
func cutAtRune(text string, max int) string {
	for max > 0 && !utf8.RuneStart(text[max]) {
		max--
	}
	return text[:max]
}

// Tags heuristically derives up to five lowercase tags from free text:
// alphabetic tokens of length >= 4, deduplicated in first-seen order, with
// common stopwords removed.
func Tags(title, description string) []string {
	text := strings.ToLower(title + " " + description)
	words := tagWordExpr.FindAllString(text, -1)

	tags := make([]string, 0, maxTags)
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		if seen[w] || tagStopwords[w] {
			continue
		}
		seen[w] = true
		tags = append(tags, w)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}

// SourceDomain extracts the hostname of a URL, minus any leading "www.".
// Returns "" for unparseable input.
func SourceDomain(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// HashID returns a stable FNV-1a hash of an upstream identifier, used to
// build collision-free per-source article IDs.
func HashID(upstreamID string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(upstreamID))
	return h.Sum32()
}

// NormalizeTitle is the deduplication key the aggregator uses: lowercased
// and trimmed. Two articles sharing this key are treated as the same story.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Package slug turns post titles into URL-safe identifiers.
package slug

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// whitespace is every ASCII rune Unicode treats as a space, including \v and
// the \x1c-\x1f separators that RE2's \s leaves out.
const whitespace = "\t\n\v\f\r \x1c\x1d\x1e\x1f"

var (
	disallowed = regexp.MustCompile(`[^\w\t\n\v\f\r \x1c-\x1f-]`)
	separators = regexp.MustCompile(`[-\t\n\v\f\r \x1c-\x1f]+`)
)

// Make derives a lowercase, hyphen-separated slug from title.
// Characters with no ASCII decomposition are dropped, so the result may be empty.
func Make(title string) string {
	s := toASCII(norm.NFKD.String(title))
	s = disallowed.ReplaceAllString(s, "")
	s = strings.ToLower(strings.Trim(s, whitespace))
	return separators.ReplaceAllString(s, "-")
}

// toASCII keeps only runes below utf8.RuneSelf; combining marks left by NFKD go away here.
func toASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	return b.String()
}

package normalize

import (
	"strings"

	"golang.org/x/text/cases"
)

// articles are stripped once from the front of normalized text.
// "an" is checked before "a" so that "an evening with" loses the
// whole article, not just the first letter.
var articles = []string{"the ", "an ", "a "}

// Normalize canonicalizes free text for identity comparison:
// locale-invariant case folding, whitespace trimmed and collapsed to
// single spaces, and at most one leading English article removed.
// It is total over all strings and idempotent for ordinary titles.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	folded := cases.Fold().String(text)

	// strings.Fields both trims and collapses runs of whitespace
	collapsed := strings.Join(strings.Fields(folded), " ")

	for _, article := range articles {
		if strings.HasPrefix(collapsed, article) {
			return collapsed[len(article):]
		}
	}

	return collapsed
}

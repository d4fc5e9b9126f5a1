package aggregate

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const strippedPunctuation = "：:·・,，.。!！?？-—_()（）[]【】《》'\"“”‘’"

var fold = cases.Fold()

// NormalizeTitle reduces a title to its grouping key: Unicode NFKC, case
// folded, without whitespace and common punctuation.
func NormalizeTitle(title string) string {
	title = fold.String(norm.NFKC.String(title))

	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		if unicode.IsSpace(r) || strings.ContainsRune(strippedPunctuation, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

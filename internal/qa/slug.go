package qa

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugRunes = 50

// Slugify converts a string to a path-safe identifier. Accents are stripped,
// letters and digits from any script are kept, and every other run of
// characters becomes a single '-'.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(strings.TrimSpace(folded))

	var b strings.Builder
	n := 0
	dash := false
	for _, r := range folded {
		if n >= maxSlugRunes {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				if n+2 > maxSlugRunes {
					break
				}
				b.WriteByte('-')
				n++
			}
			dash = false
			b.WriteRune(r)
			n++
			continue
		}
		dash = true
	}
	return strings.TrimRight(b.String(), "-")
}

// NormalizeTags trims, lowercases and de-duplicates tags, keeping first-seen
// order. Internal whitespace and commas become '-'.
func NormalizeTags(groups ...[]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tags := range groups {
		for _, t := range tags {
			t = strings.Join(strings.FieldsFunc(strings.ToLower(t), isTagBreak), "-")
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func isTagBreak(r rune) bool {
	return unicode.IsSpace(r) || r == ','
}

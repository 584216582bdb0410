// Package normalize folds hiring-status labels for comparison. Source rows
// mix case and diacritics freely ("Validação", "VALIDACAO", "concluído"), so
// every status comparison in the queue goes through Status.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Status returns the canonical form of a hiring-status label: trimmed,
// upper-cased, diacritics removed.
func Status(raw string) string {
	folded, _, err := transform.String(stripMarks, strings.TrimSpace(raw))
	if err != nil {
		folded = strings.TrimSpace(raw)
	}
	return strings.ToUpper(folded)
}

// EqualStatus reports whether two status labels are the same after folding.
func EqualStatus(a, b string) bool {
	return Status(a) == Status(b)
}

// StatusIn reports whether the folded status appears in the given canonical
// set. Set members must already be canonical (upper-case, no diacritics).
func StatusIn(raw string, set map[string]struct{}) bool {
	_, ok := set[Status(raw)]
	return ok
}

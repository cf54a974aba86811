package helper

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	reNonEmailChar = regexp.MustCompile(`[^a-z0-9.\-]+`)
	reDots         = regexp.MustCompile(`\.+`)
)

// NormalizeName trims, collapses inner whitespace and recomposes to NFC
// so names exported in NFD compare equal to typed ones.
func NormalizeName(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}

// StripDiacritics removes combining marks (é → e).
func StripDiacritics(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// EmailLocalPart builds "first.last" in lowercase ASCII.
func EmailLocalPart(firstName, lastName string) string {
	join := func(s string) string {
		s = strings.ToLower(StripDiacritics(NormalizeName(s)))
		s = strings.ReplaceAll(s, " ", "-")
		s = strings.ReplaceAll(s, "'", "")
		return reNonEmailChar.ReplaceAllString(s, "")
	}
	local := join(firstName) + "." + join(lastName)
	local = reDots.ReplaceAllString(local, ".")
	local = strings.Trim(local, ".-")
	if local == "" {
		local = "etudiant"
	}
	return local
}

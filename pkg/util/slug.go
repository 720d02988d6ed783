package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	SlugMinLength = 3
	SlugMaxLength = 80
)

// Reasons reported for a malformed slug candidate
const (
	SlugTooShort = "too_short"
	SlugBadChars = "bad_chars"
	SlugTooLong  = "too_long"
)

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces     = regexp.MustCompile(`\s+`)
	slugDashes     = regexp.MustCompile(`-+`)
	slugPattern    = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// DeriveSlug turns a human name into a URL slug candidate:
// "Clínica Vitro" -> "clinica-vitro". The result is stable under re-derivation.
func DeriveSlug(name string) string {
	slug := stripDiacritics(strings.ToLower(name))
	slug = slugDisallowed.ReplaceAllString(slug, "")
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > SlugMaxLength {
		slug = strings.TrimRight(slug[:SlugMaxLength], "-")
	}
	return slug
}

// CheckSlugFormat returns the reason a candidate is malformed, or "" when it
// may be looked up.
func CheckSlugFormat(candidate string) string {
	if len(candidate) < SlugMinLength {
		return SlugTooShort
	}
	if !slugPattern.MatchString(candidate) {
		return SlugBadChars
	}
	if len(candidate) > SlugMaxLength {
		return SlugTooLong
	}
	return ""
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

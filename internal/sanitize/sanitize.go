// Package sanitize holds the pure validation and cleaning functions applied
// to untrusted public input. Every function is total and deterministic:
// never panics, always returns.
package sanitize

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxNameLen    = 80
	maxCommentLen = 1000
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	slugRe  = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]*[a-z0-9])?$`)
)

// IsValidEmail performs a structural check: local part, @, and a domain
// containing at least one dot.
func IsValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// PasswordCheck reports the first unmet password rule, if any.
type PasswordCheck struct {
	Valid   bool
	Message string
}

// ValidatePassword requires at least 8 characters with one uppercase, one
// lowercase and one digit. Messages are user-facing (Turkish).
func ValidatePassword(s string) PasswordCheck {
	if len(s) < 8 {
		return PasswordCheck{Message: "şifre en az 8 karakter olmalı"}
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	switch {
	case !hasUpper:
		return PasswordCheck{Message: "şifre en az bir büyük harf içermeli"}
	case !hasLower:
		return PasswordCheck{Message: "şifre en az bir küçük harf içermeli"}
	case !hasDigit:
		return PasswordCheck{Message: "şifre en az bir rakam içermeli"}
	}
	return PasswordCheck{Valid: true}
}

// IsValidSlug accepts lowercase alphanumerics and hyphens, 3 to 50 runes,
// with no leading or trailing hyphen.
func IsValidSlug(s string) bool {
	if len(s) < 3 || len(s) > 50 {
		return false
	}
	return slugRe.MatchString(s)
}

// IsValidRating accepts integer values in the closed range [1,5]. The
// float64 parameter matches what JSON numbers decode to; 3.5 is rejected.
func IsValidRating(n float64) bool {
	return n == math.Trunc(n) && n >= 1 && n <= 5
}

// SanitizeName trims, strips control characters and markup-relevant
// punctuation, collapses inner whitespace and caps the length.
func SanitizeName(s string) string {
	return clean(s, maxNameLen, true)
}

// SanitizeComment is like SanitizeName but keeps line breaks and allows a
// longer result.
func SanitizeComment(s string) string {
	return clean(s, maxCommentLen, false)
}

func clean(s string, maxLen int, collapseSpace bool) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\n' && !collapseSpace:
			b.WriteRune(r)
		case unicode.IsControl(r):
			// dropped
		case r == '<' || r == '>' || r == '`':
			// dropped, defuses markup injection downstream
		default:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if collapseSpace {
		out = strings.Join(strings.Fields(out), " ")
	} else {
		out = strings.TrimSpace(out)
	}
	if runes := []rune(out); len(runes) > maxLen {
		out = string(runes[:maxLen])
	}
	return strings.TrimSpace(out)
}

// turkishReplacer transliterates the Turkish letters that NFD
// decomposition alone does not map to their ASCII neighbors (ı and İ in
// particular), before generic diacritic stripping runs.
var turkishReplacer = strings.NewReplacer(
	"ğ", "g", "Ğ", "g",
	"ü", "u", "Ü", "u",
	"ş", "s", "Ş", "s",
	"ı", "i", "İ", "i",
	"ö", "o", "Ö", "o",
	"ç", "c", "Ç", "c",
)

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify lowercases, transliterates Turkish characters and remaining
// diacritics to ASCII, replaces any other non-alphanumeric run with a
// single hyphen and trims edge hyphens. Idempotent.
func Slugify(s string) string {
	s = turkishReplacer.Replace(s)
	s = strings.ToLower(s)
	if stripped, _, err := transform.String(diacriticStripper, s); err == nil {
		s = stripped
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range s {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

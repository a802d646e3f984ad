package strx

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	digitsRe     = regexp.MustCompile(`\d+`)
	numberRe     = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)
	emailRe      = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	emailExactRe = regexp.MustCompile(`^` + emailRe.String() + `$`)
	urlRe        = regexp.MustCompile(`https?://[^\s<>"']+`)
	hashtagRe    = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
	htmlTagRe    = regexp.MustCompile(`<[^>]*>`)
	spaceRe      = regexp.MustCompile(`\s+`)
	numericRe    = regexp.MustCompile(`^[-+]?\d+(?:\.\d+)?$`)
	placeholder  = regexp.MustCompile(`\{(\w+)\}`)
)

// ExtractDigits returns every ASCII digit of s concatenated.
func ExtractDigits(s string) string {
	return strings.Join(digitsRe.FindAllString(s, -1), "")
}

// ExtractNumbers returns every integer or decimal number found in s.
func ExtractNumbers(s string) []string {
	return numberRe.FindAllString(s, -1)
}

// ExtractEmails returns every e-mail address found in s.
func ExtractEmails(s string) []string {
	return emailRe.FindAllString(s, -1)
}

// ExtractURLs returns every http or https URL found in s. Trailing
// punctuation is not part of the URL.
func ExtractURLs(s string) []string {
	found := urlRe.FindAllString(s, -1)
	for i, u := range found {
		found[i] = strings.TrimRight(u, ".,;:!?)")
	}
	return found
}

// ExtractHashtags returns the hashtags of s without the leading '#'.
func ExtractHashtags(s string) []string {
	var tags []string
	for _, m := range hashtagRe.FindAllStringSubmatch(s, -1) {
		tags = append(tags, m[1])
	}
	return tags
}

// StripHTML removes tags from s and collapses the remaining white space.
func StripHTML(s string) string {
	return CollapseWhitespace(htmlTagRe.ReplaceAllString(s, " "))
}

// CollapseWhitespace trims s and replaces every run of white space with a
// single space.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// IsEmail reports whether s is a single e-mail address.
func IsEmail(s string) bool {
	return emailExactRe.MatchString(s)
}

// IsURL reports whether s is an absolute http or https URL with a host.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsNumeric reports whether s is an optionally signed integer or decimal.
func IsNumeric(s string) bool {
	return numericRe.MatchString(s)
}

// Slugify lower-cases s, drops diacritics and joins the remaining letter and
// digit runs with '-'. Non-Latin letters are kept.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range norm.NFD.String(strings.ToLower(s)) {
		switch {
		case unicode.Is(unicode.Mn, r):
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	return norm.NFC.String(b.String())
}

// FormatWith replaces every {name} in template with values[name]. Unknown
// placeholders are left as they are.
func FormatWith(template string, values map[string]any) string {
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		v, ok := values[m[1:len(m)-1]]
		if !ok {
			return m
		}
		return fmt.Sprint(v)
	})
}

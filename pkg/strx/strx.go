// Package strx contains string helpers: emptiness checks, rune-safe slicing,
// casing conversions, named-placeholder formatting, hashing and regex-based
// extraction.
package strx

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// IsNullOrWhiteSpace reports whether s is empty or only white space.
func IsNullOrWhiteSpace(s string) bool {
	return strings.TrimSpace(s) == ""
}

// DefaultIfEmpty returns def when s is empty or white space.
func DefaultIfEmpty(s, def string) string {
	if IsNullOrWhiteSpace(s) {
		return def
	}
	return s
}

// Truncate shortens s to at most n runes. When s is cut, ellipsis is
// appended within the n-rune budget if it fits.
func Truncate(s string, n int, ellipsis string) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	el := utf8.RuneCountInString(ellipsis)
	if el >= n {
		return Left(s, n)
	}
	return Left(s, n-el) + ellipsis
}

// Left returns the first n runes of s.
func Left(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Right returns the last n runes of s.
func Right(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if n >= len(r) {
		return s
	}
	return string(r[len(r)-n:])
}

// Reverse reverses s rune by rune.
func Reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// Join joins the non-blank elements of parts with sep.
func Join(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if !IsNullOrWhiteSpace(p) {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	return mapFirst(s, unicode.ToUpper)
}

// Uncapitalize lower-cases the first letter of s.
func Uncapitalize(s string) string {
	return mapFirst(s, unicode.ToLower)
}

func mapFirst(s string, f func(rune) rune) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	return string(f(r)) + s[size:]
}

// ToTitle title-cases every word of s.
func ToTitle(s string) string {
	return cases.Title(language.Und).String(s)
}

// SplitCamelCase breaks an identifier into words at case changes, digits
// boundaries and separators: "parseHTTPResponse2x" → [parse HTTP Response 2 x].
func SplitCamelCase(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	rs := []rune(s)
	for i, r := range rs {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
			continue
		case len(cur) > 0:
			prev := cur[len(cur)-1]
			switch {
			case unicode.IsDigit(r) != unicode.IsDigit(prev):
				flush()
			case unicode.IsUpper(r) && unicode.IsLower(prev):
				flush()
			case unicode.IsUpper(r) && unicode.IsUpper(prev) && i+1 < len(rs) && unicode.IsLower(rs[i+1]):
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// ToSnakeCase converts s to snake_case.
func ToSnakeCase(s string) string {
	return strcase.ToSnake(s)
}

// ToKebabCase converts s to kebab-case.
func ToKebabCase(s string) string {
	return strcase.ToKebab(s)
}

// ToPascalCase converts s to PascalCase. Acronyms become ordinary words:
// "XMLHttpRequest" → "XmlHttpRequest".
func ToPascalCase(s string) string {
	return strcase.ToCamel(strcase.ToSnake(s))
}

// ToCamelCase converts s to camelCase.
func ToCamelCase(s string) string {
	return strcase.ToLowerCamel(strcase.ToSnake(s))
}

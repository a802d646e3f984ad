package persian

import (
	"math/big"
	"regexp"
	"strings"
)

var (
	cardSeparators = strings.NewReplacer(" ", "", "-", "")
	mobileRe       = regexp.MustCompile(`^(?:\+98|0098|98|0)?9\d{9}$`)
	shebaRe        = regexp.MustCompile(`^IR\d{24}$`)
)

// NormalizeCard strips spaces and dashes from a card number and converts
// Persian digits to ASCII.
func NormalizeCard(card string) string {
	return ToEnglishDigits(cardSeparators.Replace(strings.TrimSpace(card)))
}

// IsValidShetab reports whether card is a 16 digit card number with a valid
// Luhn checksum. Spaces and dashes are ignored; anything else fails.
func IsValidShetab(card string) bool {
	c := NormalizeCard(card)
	if len(c) != 16 || !allDigits(c) {
		return false
	}
	return luhn(c)
}

func luhn(digits string) bool {
	sum := 0
	for i := range len(digits) {
		d := int(digits[len(digits)-1-i] - '0')
		if i%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return sum%10 == 0
}

// IsValidNationalCode validates an Iranian national code (کد ملی). Codes of
// 8 or 9 digits are left-padded with zeros; codes of one repeated digit are
// rejected.
func IsValidNationalCode(code string) bool {
	c := ToEnglishDigits(strings.TrimSpace(code))
	if len(c) < 8 || len(c) > 10 || !allDigits(c) {
		return false
	}
	c = strings.Repeat("0", 10-len(c)) + c
	if strings.Count(c, c[:1]) == 10 {
		return false
	}
	sum := 0
	for i := range 9 {
		sum += int(c[i]-'0') * (10 - i)
	}
	check := int(c[9] - '0')
	r := sum % 11
	if r < 2 {
		return check == r
	}
	return check == 11-r
}

// IsValidSheba validates an Iranian IBAN: "IR" followed by 24 digits whose
// ISO 7064 mod 97 check equals 1. Spaces are ignored and the prefix is
// case-insensitive.
func IsValidSheba(iban string) bool {
	s := strings.ToUpper(ToEnglishDigits(strings.ReplaceAll(strings.TrimSpace(iban), " ", "")))
	if !shebaRe.MatchString(s) {
		return false
	}
	// I=18, R=27
	rearranged := s[4:] + "1827" + s[2:4]
	n, ok := new(big.Int).SetString(rearranged, 10)
	if !ok {
		return false
	}
	return new(big.Int).Mod(n, big.NewInt(97)).Int64() == 1
}

// IsValidMobile reports whether s is an Iranian mobile number in one of the
// forms 09xxxxxxxxx, 9xxxxxxxxx, +989xxxxxxxxx or 00989xxxxxxxxx.
func IsValidMobile(s string) bool {
	return mobileRe.MatchString(NormalizeCard(s))
}

func allDigits(s string) bool {
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

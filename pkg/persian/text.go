package persian

import (
	"strings"

	"github.com/MehtiSini/HappyTools-sub000/pkg/numx"
	"golang.org/x/text/unicode/norm"
)

const (
	persianZero = '۰'
	arabicZero  = '٠'

	// ThousandsSeparator is the Persian thousands separator (U+066C).
	ThousandsSeparator = "٬"
)

var arabicLetters = strings.NewReplacer(
	"ي", "ی",
	"ى", "ی",
	"ك", "ک",
	"ة", "ه",
)

// ToPersianDigits replaces ASCII and Arabic-Indic digits with Persian ones.
func ToPersianDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return persianZero + (r - '0')
		case r >= arabicZero && r <= arabicZero+9:
			return persianZero + (r - arabicZero)
		}
		return r
	}, s)
}

// ToEnglishDigits replaces Persian and Arabic-Indic digits with ASCII ones.
func ToEnglishDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= persianZero && r <= persianZero+9:
			return '0' + (r - persianZero)
		case r >= arabicZero && r <= arabicZero+9:
			return '0' + (r - arabicZero)
		}
		return r
	}, s)
}

// FixArabicChars swaps Arabic Yeh, Kaf and Teh Marbuta for their Persian
// forms and returns the NFC normalized result.
func FixArabicChars(s string) string {
	return norm.NFC.String(arabicLetters.Replace(s))
}

// FormatToman renders amount with Persian digits and separators followed by
// the Toman unit: 1250000 → "۱٬۲۵۰٬۰۰۰ تومان".
func FormatToman(amount int64) string {
	return ToPersianDigits(numx.FormatThousands(amount, ThousandsSeparator)) + " تومان"
}

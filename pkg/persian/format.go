package persian

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var layoutTokens = []string{"yyyy", "yy", "MMMM", "MM", "M", "dddd", "dd", "d", "HH", "mm", "ss"}

// Format renders t in the Jalali calendar. The layout understands:
//
//	yyyy  four digit year      MMMM  month name    dddd  weekday name
//	yy    two digit year       MM    month 01-12   dd    day 01-31
//	HH    hour 00-23           M     month 1-12    d     day 1-31
//	mm    minute 00-59         ss    second 00-59
//
// Any other character is copied as is. Digits are ASCII; pipe the result
// through ToPersianDigits for Persian digits.
func Format(t time.Time, layout string) string {
	d := ToJalali(t)
	var b strings.Builder
	for i := 0; i < len(layout); {
		tok := matchToken(layout[i:])
		if tok == "" {
			b.WriteByte(layout[i])
			i++
			continue
		}
		switch tok {
		case "yyyy":
			fmt.Fprintf(&b, "%04d", d.Year)
		case "yy":
			fmt.Fprintf(&b, "%02d", d.Year%100)
		case "MMMM":
			b.WriteString(MonthName(d.Month))
		case "MM":
			fmt.Fprintf(&b, "%02d", d.Month)
		case "M":
			b.WriteString(strconv.Itoa(d.Month))
		case "dddd":
			b.WriteString(WeekdayName(t.Weekday()))
		case "dd":
			fmt.Fprintf(&b, "%02d", d.Day)
		case "d":
			b.WriteString(strconv.Itoa(d.Day))
		case "HH":
			fmt.Fprintf(&b, "%02d", t.Hour())
		case "mm":
			fmt.Fprintf(&b, "%02d", t.Minute())
		case "ss":
			fmt.Fprintf(&b, "%02d", t.Second())
		}
		i += len(tok)
	}
	return b.String()
}

func matchToken(s string) string {
	for _, tok := range layoutTokens {
		if strings.HasPrefix(s, tok) {
			return tok
		}
	}
	return ""
}

// Parse reads a Jalali date written as yyyy/MM/dd or yyyy-MM-dd. Persian and
// Arabic-Indic digits are accepted.
func Parse(s string) (Date, error) {
	s = ToEnglishDigits(strings.TrimSpace(s))
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '-' })
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		nums[i] = n
	}
	d := Date{Year: nums[0], Month: nums[1], Day: nums[2]}
	if !d.Valid() {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

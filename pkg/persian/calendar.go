// Package persian holds Iranian locale helpers: the Solar Hijri (Jalali)
// calendar, Persian digits and letters, and validators for bank cards,
// national codes, Sheba numbers and mobile numbers.
//
// Calendar arithmetic is delegated to github.com/yaa110/go-persian-calendar,
// whose 33-year leap rule matches the official calendar between 1178 and
// 1634.
package persian

import (
	"errors"
	"fmt"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

// ErrInvalidDate is returned for out of range Jalali dates.
var ErrInvalidDate = errors.New("persian: invalid jalali date")

// Date is a day of the Jalali calendar.
type Date struct {
	Year  int
	Month int
	Day   int
}

var monthNames = [...]string{
	"فروردین", "اردیبهشت", "خرداد", "تیر", "مرداد", "شهریور",
	"مهر", "آبان", "آذر", "دی", "بهمن", "اسفند",
}

var weekdayNames = [...]string{
	time.Saturday:  "شنبه",
	time.Sunday:    "یکشنبه",
	time.Monday:    "دوشنبه",
	time.Tuesday:   "سه‌شنبه",
	time.Wednesday: "چهارشنبه",
	time.Thursday:  "پنجشنبه",
	time.Friday:    "جمعه",
}

// IsLeapYear reports whether Jalali year y has 366 days.
func IsLeapYear(y int) bool {
	return ptime.Date(y, ptime.Esfand, 1, 0, 0, 0, 0, time.UTC).IsLeap()
}

// DaysInMonth returns the length of month m of Jalali year y, or 0 for an
// invalid month.
func DaysInMonth(y, m int) int {
	switch {
	case m >= 1 && m <= 6:
		return 31
	case m >= 7 && m <= 11:
		return 30
	case m == 12:
		if IsLeapYear(y) {
			return 30
		}
		return 29
	}
	return 0
}

// MonthName returns the Persian name of month m (1-12).
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return monthNames[m-1]
}

// WeekdayName returns the Persian name of d.
func WeekdayName(d time.Weekday) string {
	if d < time.Sunday || d > time.Saturday {
		return ""
	}
	return weekdayNames[d]
}

// Valid reports whether d names an existing Jalali day.
func (d Date) Valid() bool {
	return d.Year >= 1 && d.Day >= 1 && d.Day <= DaysInMonth(d.Year, d.Month)
}

// String formats d as yyyy/MM/dd with ASCII digits.
func (d Date) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
}

// Time returns midnight of d in loc (UTC when nil).
func (d Date) Time(loc *time.Location) (time.Time, error) {
	return ToGregorian(d.Year, d.Month, d.Day, loc)
}

// ToJalali returns the Jalali date of t in t's location.
func ToJalali(t time.Time) Date {
	pt := ptime.New(t)
	return Date{Year: pt.Year(), Month: int(pt.Month()), Day: pt.Day()}
}

// ToGregorian returns midnight of the Jalali day y/m/d in loc (UTC when nil).
func ToGregorian(y, m, d int, loc *time.Location) (time.Time, error) {
	date := Date{Year: y, Month: m, Day: d}
	if !date.Valid() {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, date)
	}
	if loc == nil {
		loc = time.UTC
	}
	return ptime.Date(y, ptime.Month(m), d, 0, 0, 0, 0, loc).Time(), nil
}

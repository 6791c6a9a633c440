package util

import (
	"errors"
	"fmt"
	"time"
)

// MonthKeyAll is the sentinel month key meaning "no month filter"
const MonthKeyAll = "all"

// ErrInvalidMonthKey reports a month filter that is neither "YYYY-MM" nor the
// MonthKeyAll sentinel
var ErrInvalidMonthKey = errors.New("invalid month key")

// shortMonthNames are the histogram labels, January first
var shortMonthNames = [12]string{
	"Ene", "Feb", "Mar", "Abr", "May", "Jun",
	"Jul", "Ago", "Sep", "Oct", "Nov", "Dic",
}

// ShortMonthName returns the short label for a month
func ShortMonthName(m time.Month) string {
	return shortMonthNames[int(m)-1]
}

// ParseMonthKey parses a "YYYY-MM" month key. It returns all=true for the
// MonthKeyAll sentinel and an error for anything else that does not parse.
func ParseMonthKey(key string) (year int, month time.Month, all bool, err error) {
	if key == "" || key == MonthKeyAll {
		return 0, 0, true, nil
	}
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return 0, 0, false, fmt.Errorf("%w: %q", ErrInvalidMonthKey, key)
	}
	return t.Year(), t.Month(), false, nil
}

// FormatMonthKey renders a year/month pair as a "YYYY-MM" key
func FormatMonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// InLocalMonth reports whether t falls in the given calendar month using the
// date's own local components, so records near midnight don't shift across a
// month boundary through UTC conversion. Zero dates never match.
func InLocalMonth(t time.Time, year int, month time.Month) bool {
	if t.IsZero() {
		return false
	}
	return t.Year() == year && t.Month() == month
}

// MonthRef identifies one calendar month of the histogram window
type MonthRef struct {
	Year  int
	Month time.Month
	Label string
}

// TrailingMonths returns the n calendar months ending at (and including) the
// month of ref, oldest first.
func TrailingMonths(ref time.Time, n int) []MonthRef {
	months := make([]MonthRef, 0, n)
	for i := n - 1; i >= 0; i-- {
		m := time.Date(ref.Year(), ref.Month()-time.Month(i), 1, 0, 0, 0, 0, time.Local)
		months = append(months, MonthRef{
			Year:  m.Year(),
			Month: m.Month(),
			Label: ShortMonthName(m.Month()),
		})
	}
	return months
}

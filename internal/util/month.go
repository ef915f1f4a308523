package util

import (
	"fmt"
	"regexp"
	"time"
)

var monthRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// IsValidMonth reports whether s is a YYYY-MM month key.
func IsValidMonth(s string) bool {
	return monthRe.MatchString(s)
}

// ParseMonth splits a YYYY-MM month key into year and month.
func ParseMonth(s string) (int, time.Month, error) {
	if !IsValidMonth(s) {
		return 0, 0, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, err
	}
	return t.Year(), t.Month(), nil
}

// FormatMonth builds a YYYY-MM month key.
func FormatMonth(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// MonthsBetween returns the calendar-month difference from start to target.
// Negative when target precedes start.
func MonthsBetween(start, target string) (int, error) {
	startYear, startMonth, err := ParseMonth(start)
	if err != nil {
		return 0, err
	}
	targetYear, targetMonth, err := ParseMonth(target)
	if err != nil {
		return 0, err
	}
	return (targetYear-startYear)*12 + int(targetMonth) - int(startMonth), nil
}

// AddMonths returns the month key n calendar months after the given one.
// n may be negative.
func AddMonths(month string, n int) (string, error) {
	year, m, err := ParseMonth(month)
	if err != nil {
		return "", err
	}
	t := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return FormatMonth(t.Year(), t.Month()), nil
}

// MonthFirstDay returns the YYYY-MM-DD date of the first day of the month.
// Derived entries are dated on it.
func MonthFirstDay(month string) string {
	return month + "-01"
}

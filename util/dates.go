package util

import (
	"errors"
	"time"
)

const Layout = "2006-01-02"

// DaysPerYear is the day count used to turn calendar differences into year fractions.
const DaysPerYear = 365.0

// Return the year fraction between two instants as elapsed days / 365.
func YearFraction(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24.0 / DaysPerYear
}

// Parse a date in Layout format, rejecting empty input.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	return time.Parse(Layout, s)
}

package calendar

import "fmt"

// ParseError is returned by Parse when the input is not a strict
// YYYY-MM-DD string. Callers at import boundaries should report it per
// record rather than aborting a whole batch.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", e.Input)
}

// InvalidDateError is returned by New when the day/month/year combination
// does not exist in the Gregorian calendar.
type InvalidDateError struct {
	Year  int
	Month int
	Day   int
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date: %04d-%02d-%02d does not exist", e.Year, e.Month, e.Day)
}

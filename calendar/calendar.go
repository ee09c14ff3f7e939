// Package calendar provides a civil calendar date value type with no
// time-of-day or timezone component. Dates are proleptic Gregorian and are
// always valid: constructors reject day/month combinations that do not
// exist, so arithmetic never has to deal with malformed values.
//
// The canonical text form is ISO 8601 (YYYY-MM-DD). Parsing is strict by
// design: this is the boundary that catches corrupt stored data before it
// reaches date arithmetic, so date-with-time strings and locale formats
// are rejected outright.
package calendar

import "fmt"

// Date represents a calendar date as year, month, and day. It is an
// immutable value type; all arithmetic methods return a new Date.
//
// The zero value is not a valid date. Construct dates with New, Parse, or
// the arithmetic methods on an existing Date.
type Date struct {
	Year  int
	Month int
	Day   int
}

// New constructs a Date and validates that the day exists in the given
// month and year. There is no silent clamping at this layer; callers that
// want clamped behavior use AddMonths/AddYears on an existing date.
func New(year, month, day int) (Date, error) {
	if month < 1 || month > 12 || day < 1 || day > daysInMonth(year, month) {
		return Date{}, &InvalidDateError{Year: year, Month: month, Day: day}
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// MustNew constructs a Date and panics if it is invalid.
// Use only in tests or with literal inputs known to be valid.
func MustNew(year, month, day int) Date {
	d, err := New(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// Parse parses a date in strict YYYY-MM-DD form. Any other shape fails
// with a *ParseError, including date-with-time strings.
func Parse(s string) (Date, error) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return Date{}, &ParseError{Input: s}
	}
	year, ok := parseDigits(s[0:4])
	if !ok {
		return Date{}, &ParseError{Input: s}
	}
	month, ok := parseDigits(s[5:7])
	if !ok {
		return Date{}, &ParseError{Input: s}
	}
	day, ok := parseDigits(s[8:10])
	if !ok {
		return Date{}, &ParseError{Input: s}
	}
	d, err := New(year, month, day)
	if err != nil {
		return Date{}, &ParseError{Input: s}
	}
	return d, nil
}

// MustParse parses a date and panics on error.
// Use only in tests or with literal inputs known to be valid.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// parseDigits parses an all-digit decimal string. Signs, spaces, and
// anything non-ASCII-digit fail.
func parseDigits(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// Format returns the canonical zero-padded YYYY-MM-DD form.
func (d Date) Format() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// String implements fmt.Stringer using the canonical form.
func (d Date) String() string {
	return d.Format()
}

// Compare returns -1, 0, or 1 ordering dates by (year, month, day).
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(d.Month - other.Month)
	case d.Day != other.Day:
		return sign(d.Day - other.Day)
	}
	return 0
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// Equal reports whether d and other are the same calendar date.
func (d Date) Equal(other Date) bool { return d == other }

// AddDays returns the date n days after d (or before, for negative n).
// Day arithmetic is linear: no month-boundary clamping applies.
func (d Date) AddDays(n int) Date {
	return fromSerial(d.serial() + n)
}

// Next returns the date one day after d.
func (d Date) Next() Date {
	return d.AddDays(1)
}

// AddMonths returns the date n months after d. When the source day does
// not exist in the target month, the result clamps to the last day of
// that month (Jan 31 + 1 month is Feb 28 or 29, never a day in March).
func (d Date) AddMonths(n int) Date {
	total := d.Year*12 + (d.Month - 1) + n
	year := floorDiv(total, 12)
	month := total - year*12 + 1
	day := d.Day
	if max := daysInMonth(year, month); day > max {
		day = max
	}
	return Date{Year: year, Month: month, Day: day}
}

// AddYears returns the date n years after d, clamping Feb 29 to Feb 28
// in non-leap target years.
func (d Date) AddYears(n int) Date {
	year := d.Year + n
	day := d.Day
	if max := daysInMonth(year, d.Month); day > max {
		day = max
	}
	return Date{Year: year, Month: d.Month, Day: day}
}

// Weekday returns the ISO day of week, 1=Monday through 7=Sunday.
func (d Date) Weekday() int {
	return mod(d.serial()+3, 7) + 1
}

// DaysInMonth returns the number of days in d's month, accounting for
// leap years.
func (d Date) DaysInMonth() int {
	return daysInMonth(d.Year, d.Month)
}

// DaysInMonth returns the number of days in the given month of the given
// year.
func DaysInMonth(year, month int) int {
	return daysInMonth(year, month)
}

// IsLeapYear reports whether the year is a Gregorian leap year:
// divisible by 4, except century years not divisible by 400.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	}
	return 0
}

// serial converts d to a day count relative to 1970-01-01 using the
// proleptic Gregorian civil-from-days algorithm. Exact for all int years
// that fit the arithmetic, including negative serials.
func (d Date) serial() int {
	y := d.Year
	if d.Month <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	mp := mod(d.Month+9, 12)
	doy := (153*mp+2)/5 + d.Day - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// fromSerial is the inverse of serial.
func fromSerial(n int) Date {
	z := n + 719468
	era := floorDiv(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	day := doy - (153*mp+2)/5 + 1
	month := mp + 3
	if mp >= 10 {
		month = mp - 9
	}
	if month <= 2 {
		y++
	}
	return Date{Year: y, Month: month, Day: day}
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// mod returns the non-negative remainder of a/b.
func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

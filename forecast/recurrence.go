package forecast

import (
	"golang.org/x/exp/slices"

	"github.com/andrew-rosca/cashflow/calendar"
)

// MaxSteps is the hard ceiling on candidate dates examined while
// materializing a single rule. It bounds compute for pathological inputs
// (a daily rule queried over centuries); hitting it truncates the
// sequence rather than looping, and the truncation is reported to the
// caller.
const MaxSteps = 10000

// Materialize expands a recurrence rule anchored at anchor into the
// ordered occurrence dates that fall inside [start, end]. Occurrences
// before start are stepped through without being returned, but they
// still consume the rule's Limit. The second result reports whether the
// MaxSteps ceiling cut the expansion short of the window's end.
//
// Materialize is a pure function of its inputs: no hidden state, and
// identical inputs always produce identical output.
func Materialize(rule *RecurrenceRule, anchor, start, end calendar.Date) ([]calendar.Date, bool) {
	effEnd := end
	if rule.End != nil && rule.End.Before(effEnd) {
		effEnd = *rule.End
	}
	if effEnd.Before(anchor) {
		return nil, false
	}

	m := &materializer{
		rule:   rule,
		anchor: anchor,
		start:  start,
		end:    effEnd,
	}

	switch rule.Frequency {
	case Daily:
		m.stepDays(rule.interval())
	case Weekly:
		if len(rule.DaysOfWeek) > 0 {
			m.stepWeekdays()
		} else {
			m.stepDays(7 * rule.interval())
		}
	case Monthly:
		if len(rule.DaysOfMonth) > 0 {
			m.stepMonthDays(1)
		} else {
			m.stepMonths()
		}
	case Yearly:
		if len(rule.DaysOfMonth) > 0 {
			m.stepMonthDays(12)
		} else {
			m.stepYears()
		}
	}

	return m.dates, m.truncated
}

// materializer accumulates occurrences for a single Materialize call.
type materializer struct {
	rule   *RecurrenceRule
	anchor calendar.Date
	start  calendar.Date
	end    calendar.Date

	dates     []calendar.Date
	emitted   int // occurrences consumed against rule.Limit
	steps     int
	truncated bool
}

// visit examines one candidate date. It returns false once the walk must
// stop: the candidate passed the effective end, the occurrence limit is
// exhausted, or the step ceiling was reached.
func (m *materializer) visit(d calendar.Date) bool {
	if m.steps >= MaxSteps {
		m.truncated = true
		return false
	}
	m.steps++

	if d.After(m.end) {
		return false
	}
	// Candidates before the anchor are not occurrences of the rule.
	if d.Before(m.anchor) {
		return true
	}

	m.emitted++
	if !d.Before(m.start) {
		m.dates = append(m.dates, d)
	}
	return m.rule.Limit <= 0 || m.emitted < m.rule.Limit
}

// stepDays walks anchor + k*interval days. Covers daily rules and weekly
// rules without a day selector (interval pre-multiplied by 7).
func (m *materializer) stepDays(interval int) {
	for d := m.anchor; m.visit(d); d = d.AddDays(interval) {
	}
}

// stepWeekdays walks weekly rules with a day-of-week selector. The
// anchor snaps forward to the earliest selected weekday, then each cycle
// of 7*interval days contributes every selected weekday within its week.
func (m *materializer) stepWeekdays() {
	base := snapToWeekday(m.anchor, m.rule.DaysOfWeek)
	stride := 7 * m.rule.interval()

	for cycle := 0; ; cycle++ {
		weekStart := base.AddDays(cycle * stride)
		for off := 0; off < 7; off++ {
			d := weekStart.AddDays(off)
			if !selectedWeekday(d, m.rule.DaysOfWeek) {
				continue
			}
			if !m.visit(d) {
				return
			}
		}
	}
}

// stepMonths walks anchor advanced by whole months, clamping the
// anchor's day to short target months (Jan 31 -> Feb 28/29). The clamp
// is computed from the anchor each step, so a clamped February does not
// drag March back to the 28th.
func (m *materializer) stepMonths() {
	interval := m.rule.interval()
	for k := 0; ; k++ {
		if !m.visit(m.anchor.AddMonths(k * interval)) {
			return
		}
	}
}

// stepMonthDays walks monthly or yearly rules with a day-of-month
// selector: for every period boundary, each selected day clamped to the
// target month's length is a candidate. monthsPerStep is 1 for monthly
// rules and 12 for yearly ones.
func (m *materializer) stepMonthDays(monthsPerStep int) {
	stride := monthsPerStep * m.rule.interval()
	first := calendar.Date{Year: m.anchor.Year, Month: m.anchor.Month, Day: 1}

	for k := 0; ; k++ {
		month := first.AddMonths(k * stride)
		for _, day := range m.rule.DaysOfMonth {
			d := month
			d.Day = day
			if max := month.DaysInMonth(); d.Day > max {
				d.Day = max
			}
			if !m.visit(d) {
				return
			}
		}
	}
}

// stepYears walks anchor advanced by whole years, clamping Feb 29 to
// Feb 28 in non-leap target years.
func (m *materializer) stepYears() {
	interval := m.rule.interval()
	for k := 0; ; k++ {
		if !m.visit(m.anchor.AddYears(k * interval)) {
			return
		}
	}
}

// snapToWeekday returns the earliest date on or after d whose weekday is
// in the selector.
func snapToWeekday(d calendar.Date, daysOfWeek []int) calendar.Date {
	for i := 0; i < 7; i++ {
		c := d.AddDays(i)
		if selectedWeekday(c, daysOfWeek) {
			return c
		}
	}
	return d
}

// selectedWeekday reports whether d's weekday is in the selector, which
// uses 0=Sunday through 6=Saturday.
func selectedWeekday(d calendar.Date, daysOfWeek []int) bool {
	return slices.Contains(daysOfWeek, d.Weekday()%7)
}

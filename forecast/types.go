package forecast

import (
	"github.com/shopspring/decimal"

	"github.com/andrew-rosca/cashflow/calendar"
)

// Frequency is the base period of a recurrence rule.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// Valid reports whether f is one of the four known frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// RecurrenceRule describes a repeat pattern anchored to a transaction's
// date. Day selectors are always sets (a rule with one day is a
// one-element set); code never branches on single-versus-many.
//
// End and Limit may both be set, in which case whichever bound is hit
// first terminates the sequence. With neither set the rule recurs through
// the end of any queried window.
type RecurrenceRule struct {
	Frequency Frequency

	// Interval is the multiplier on the base period. Zero is treated
	// as 1.
	Interval int

	// DaysOfWeek selects weekdays for weekly rules, 0=Sunday through
	// 6=Saturday. Sorted and deduplicated; empty means no selector.
	DaysOfWeek []int

	// DaysOfMonth selects days 1-31 for monthly and yearly rules. A
	// selected day beyond the end of a short month clamps to the last
	// day of that month. Sorted and deduplicated; empty means no
	// selector.
	DaysOfMonth []int

	// End, if non-nil, is the last date on which an occurrence may
	// fall.
	End *calendar.Date

	// Limit, if positive, caps the total number of occurrences
	// produced by the rule, counted from the anchor regardless of any
	// query window.
	Limit int
}

// interval returns the effective step multiplier.
func (r *RecurrenceRule) interval() int {
	if r.Interval < 1 {
		return 1
	}
	return r.Interval
}

// Account is a balance-bearing account with a known balance as of a
// date. Projection never computes a date earlier than BalanceAsOf.
type Account struct {
	ID             string
	Name           string
	InitialBalance decimal.Decimal
	BalanceAsOf    calendar.Date
}

// Transaction is a one-time or recurring movement of money. When
// FromAccount equals ToAccount the transaction is a direct balance
// adjustment and the stored sign of Amount is applied literally. When
// they differ it is a transfer: the from side is debited by |Amount| on
// the occurrence date and the to side credited by |Amount| on the
// occurrence date plus SettlementDays.
type Transaction struct {
	ID             string
	Description    string
	FromAccount    string
	ToAccount      string
	Amount         decimal.Decimal
	Date           calendar.Date
	SettlementDays int
	Recurrence     *RecurrenceRule
}

// Transfer reports whether the transaction moves money between two
// distinct accounts.
func (t *Transaction) Transfer() bool {
	return t.FromAccount != t.ToAccount
}

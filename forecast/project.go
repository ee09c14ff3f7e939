// Package forecast implements the balance projection engine: recurring
// and one-time transactions are expanded into signed ledger events, and
// per-account running balances are walked day by day across a query
// window to produce a forecast time series.
//
// The engine is a pure, synchronous computation over an in-memory
// snapshot. Project holds no state between calls, performs no I/O, and
// returns bit-identical output for identical inputs, so it is safe to
// invoke concurrently with different inputs. Compute cost is bounded
// structurally by the caller's window and the recurrence step ceiling
// rather than by cancellation.
//
// Example usage:
//
//	p, err := forecast.Project(accounts, transactions,
//		calendar.MustParse("2025-01-01"),
//		calendar.MustParse("2025-03-31"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, pt := range p.Points {
//		fmt.Println(pt.Date, pt.Balance)
//	}
package forecast

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andrew-rosca/cashflow/calendar"
)

// Point is one day of one account's projected balance.
// PreviousBalance is the running balance going into the day, letting
// callers detect change without scanning neighbors; on an account's
// first projected day it equals the account's initial balance.
type Point struct {
	AccountID       string
	Date            calendar.Date
	Balance         decimal.Decimal
	PreviousBalance decimal.Decimal
}

// Danger reports whether the projected balance is at or below zero.
// This is a derived view for callers (highlighting, alerts); the engine
// itself attaches no semantics to it.
func (p Point) Danger() bool {
	return p.Balance.LessThanOrEqual(decimal.Zero)
}

// Changed reports whether the day's events moved the balance.
func (p Point) Changed() bool {
	return !p.Balance.Equal(p.PreviousBalance)
}

// Projection is the result of one Project call: a fresh, derived view
// with no lifecycle of its own. Points are emitted per account in
// chronological order; ordering across accounts follows the input
// account order.
type Projection struct {
	Points []Point

	// Truncated is set when any recurrence expansion hit the step
	// ceiling, meaning occurrences near the end of the window may be
	// missing. See MaxSteps.
	Truncated bool
}

// ForAccount returns the chronological points belonging to one account.
func (p *Projection) ForAccount(accountID string) []Point {
	var points []Point
	for _, pt := range p.Points {
		if pt.AccountID == accountID {
			points = append(points, pt)
		}
	}
	return points
}

// Project produces a day-by-day balance forecast for every account over
// [start, end]. Each account's walk begins at the later of its
// balance-as-of date and start, with its running balance initialized to
// its initial balance; every event targeting the account on a walked day
// is summed into the balance before that day's point is emitted.
//
// Events are generated for all transactions regardless of which accounts
// are passed in; events addressed to unknown accounts are simply never
// read. Project is total over valid inputs and fails only for an
// inverted window.
func Project(accounts []Account, transactions []Transaction, start, end calendar.Date) (*Projection, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("projection window ends %s before it starts %s", end, start)
	}

	// Sum same-day events per account up front; addition is
	// commutative, so ordering among a day's events is irrelevant.
	deltas := make(map[string]map[calendar.Date]decimal.Decimal)
	truncated := false
	for i := range transactions {
		events, cut := transactionEvents(&transactions[i], start, end)
		truncated = truncated || cut
		for _, ev := range events {
			byDate, ok := deltas[ev.account]
			if !ok {
				byDate = make(map[calendar.Date]decimal.Decimal)
				deltas[ev.account] = byDate
			}
			byDate[ev.date] = byDate[ev.date].Add(ev.amount)
		}
	}

	projection := &Projection{Truncated: truncated}
	for _, account := range accounts {
		first := start
		if account.BalanceAsOf.After(first) {
			first = account.BalanceAsOf
		}

		balance := account.InitialBalance
		byDate := deltas[account.ID]
		for d := first; !d.After(end); d = d.Next() {
			previous := balance
			if delta, ok := byDate[d]; ok {
				balance = balance.Add(delta)
			}
			projection.Points = append(projection.Points, Point{
				AccountID:       account.ID,
				Date:            d,
				Balance:         balance,
				PreviousBalance: previous,
			})
		}
	}

	return projection, nil
}

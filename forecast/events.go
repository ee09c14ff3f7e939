package forecast

import (
	"github.com/shopspring/decimal"

	"github.com/andrew-rosca/cashflow/calendar"
)

// event is one signed balance change on one account on one date. Events
// exist only for the duration of a projection call; they are never
// persisted or exposed.
type event struct {
	account string
	date    calendar.Date
	amount  decimal.Decimal
}

// transactionEvents expands a transaction into its signed ledger events
// over [start, end]. A transaction without a recurrence contributes its
// single anchor occurrence; a recurring one contributes one occurrence
// per materialized date. The bool result reports recurrence truncation.
//
// Sign policy: a same-account transaction applies its stored amount
// literally, sign included. A cross-account transfer always debits
// |amount| from the from side and credits |amount| to the to side
// SettlementDays later, normalizing whatever sign the amount was stored
// with. The asymmetry is intentional: adjustments carry their own sign,
// transfers always move a positive magnitude.
func transactionEvents(tx *Transaction, start, end calendar.Date) ([]event, bool) {
	var occurrences []calendar.Date
	var truncated bool

	if tx.Recurrence != nil {
		occurrences, truncated = Materialize(tx.Recurrence, tx.Date, start, end)
	} else {
		occurrences = []calendar.Date{tx.Date}
	}

	events := make([]event, 0, len(occurrences)*2)
	for _, d := range occurrences {
		if !tx.Transfer() {
			events = append(events, event{
				account: tx.FromAccount,
				date:    d,
				amount:  tx.Amount,
			})
			continue
		}

		magnitude := tx.Amount.Abs()
		events = append(events,
			event{
				account: tx.FromAccount,
				date:    d,
				amount:  magnitude.Neg(),
			},
			event{
				account: tx.ToAccount,
				date:    d.AddDays(tx.SettlementDays),
				amount:  magnitude,
			},
		)
	}

	return events, truncated
}

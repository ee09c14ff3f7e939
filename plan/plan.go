// Package plan loads and validates cash-flow plan documents: the JSON
// files that declare accounts and their one-time or recurring
// transactions. It is the storage boundary in front of the forecast
// engine; every stored date string passes the strict calendar parser
// here, day selectors are normalized to sorted sets, and records missing
// an id are assigned one, so the engine only ever sees well-typed
// values.
//
// Validation is collected per record rather than aborting on the first
// problem: a plan with three bad dates reports all three.
package plan

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/andrew-rosca/cashflow/calendar"
	"github.com/andrew-rosca/cashflow/forecast"
)

// Plan is a decoded, validated plan document ready for projection.
type Plan struct {
	Accounts     []forecast.Account
	Transactions []forecast.Transaction
}

// document mirrors the JSON shape of a plan file. Dates stay strings
// here so each one can be validated individually with a per-record
// error instead of failing the whole decode.
type document struct {
	Accounts     []accountRecord     `json:"accounts"`
	Transactions []transactionRecord `json:"transactions"`
}

type accountRecord struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	BalanceAsOf    string          `json:"balanceAsOf"`
}

type transactionRecord struct {
	ID             string            `json:"id"`
	Description    string            `json:"description"`
	From           string            `json:"from"`
	To             string            `json:"to"`
	Amount         decimal.Decimal   `json:"amount"`
	Date           string            `json:"date"`
	SettlementDays int               `json:"settlementDays"`
	Recurrence     *recurrenceRecord `json:"recurrence"`
}

type recurrenceRecord struct {
	Frequency   string `json:"frequency"`
	Interval    int    `json:"interval"`
	DaysOfWeek  []int  `json:"daysOfWeek"`
	DaysOfMonth []int  `json:"daysOfMonth"`
	End         string `json:"end"`
	Limit       int    `json:"limit"`
}

// Load reads and decodes a plan file from disk.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	p, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Decode parses and validates a plan document. Structural JSON errors
// fail immediately; record-level problems are collected into a
// *ValidationErrors covering every bad record.
func Decode(data []byte) (*Plan, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed plan document: %w", err)
	}

	v := &validator{known: make(map[string]bool)}

	p := &Plan{}
	for i := range doc.Accounts {
		if account, ok := v.account(&doc.Accounts[i]); ok {
			p.Accounts = append(p.Accounts, account)
		}
	}
	for i := range doc.Transactions {
		if tx, ok := v.transaction(&doc.Transactions[i]); ok {
			p.Transactions = append(p.Transactions, tx)
		}
	}

	if len(v.errors) > 0 {
		return nil, &ValidationErrors{Errors: v.errors}
	}
	return p, nil
}

// Account returns the account with the given id.
func (p *Plan) Account(id string) (forecast.Account, bool) {
	for _, a := range p.Accounts {
		if a.ID == id {
			return a, true
		}
	}
	return forecast.Account{}, false
}

// Window returns a default projection window: from the earliest
// balance-as-of date through the given number of days after it. ok is
// false for a plan without accounts.
func (p *Plan) Window(days int) (start, end calendar.Date, ok bool) {
	if len(p.Accounts) == 0 {
		return calendar.Date{}, calendar.Date{}, false
	}
	start = p.Accounts[0].BalanceAsOf
	for _, a := range p.Accounts[1:] {
		if a.BalanceAsOf.Before(start) {
			start = a.BalanceAsOf
		}
	}
	return start, start.AddDays(days), true
}

// validator collects record-level problems while translating raw
// records into engine types.
type validator struct {
	known  map[string]bool
	errors []error
}

func (v *validator) recordError(kind, id, field string, err error) {
	v.errors = append(v.errors, &RecordError{Kind: kind, ID: id, Field: field, Err: err})
}

func (v *validator) account(rec *accountRecord) (forecast.Account, bool) {
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}

	ok := true
	if rec.ID != "" && v.known[rec.ID] {
		v.recordError("account", rec.ID, "id", fmt.Errorf("duplicate account id"))
		ok = false
	}
	v.known[id] = true

	asOf, err := calendar.Parse(rec.BalanceAsOf)
	if err != nil {
		v.recordError("account", id, "balanceAsOf", err)
		ok = false
	}

	if !ok {
		return forecast.Account{}, false
	}
	return forecast.Account{
		ID:             id,
		Name:           rec.Name,
		InitialBalance: rec.InitialBalance,
		BalanceAsOf:    asOf,
	}, true
}

func (v *validator) transaction(rec *transactionRecord) (forecast.Transaction, bool) {
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}

	ok := v.accountRef(id, "from", rec.From)
	ok = v.accountRef(id, "to", rec.To) && ok

	date, err := calendar.Parse(rec.Date)
	if err != nil {
		v.recordError("transaction", id, "date", err)
		ok = false
	}

	if rec.SettlementDays < 0 {
		v.recordError("transaction", id, "settlementDays", fmt.Errorf("must not be negative"))
		ok = false
	}

	var rule *forecast.RecurrenceRule
	if rec.Recurrence != nil {
		var ruleOK bool
		rule, ruleOK = v.recurrence(id, rec.Recurrence)
		ok = ok && ruleOK
	}

	if !ok {
		return forecast.Transaction{}, false
	}
	return forecast.Transaction{
		ID:             id,
		Description:    rec.Description,
		FromAccount:    rec.From,
		ToAccount:      rec.To,
		Amount:         rec.Amount,
		Date:           date,
		SettlementDays: rec.SettlementDays,
		Recurrence:     rule,
	}, true
}

func (v *validator) accountRef(txID, field, ref string) bool {
	if ref == "" {
		v.recordError("transaction", txID, field, fmt.Errorf("account reference is required"))
		return false
	}
	if !v.known[ref] {
		v.recordError("transaction", txID, field, fmt.Errorf("unknown account %q", ref))
		return false
	}
	return true
}

func (v *validator) recurrence(txID string, rec *recurrenceRecord) (*forecast.RecurrenceRule, bool) {
	ok := true

	freq := forecast.Frequency(rec.Frequency)
	if !freq.Valid() {
		v.recordError("transaction", txID, "recurrence.frequency",
			fmt.Errorf("unknown frequency %q", rec.Frequency))
		ok = false
	}

	if rec.Interval < 0 {
		v.recordError("transaction", txID, "recurrence.interval", fmt.Errorf("must not be negative"))
		ok = false
	}
	if rec.Limit < 0 {
		v.recordError("transaction", txID, "recurrence.limit", fmt.Errorf("must not be negative"))
		ok = false
	}

	if len(rec.DaysOfWeek) > 0 && freq != forecast.Weekly {
		v.recordError("transaction", txID, "recurrence.daysOfWeek",
			fmt.Errorf("only applies to weekly rules"))
		ok = false
	}
	for _, d := range rec.DaysOfWeek {
		if d < 0 || d > 6 {
			v.recordError("transaction", txID, "recurrence.daysOfWeek",
				fmt.Errorf("day %d out of range 0-6", d))
			ok = false
		}
	}

	if len(rec.DaysOfMonth) > 0 && freq != forecast.Monthly && freq != forecast.Yearly {
		v.recordError("transaction", txID, "recurrence.daysOfMonth",
			fmt.Errorf("only applies to monthly and yearly rules"))
		ok = false
	}
	for _, d := range rec.DaysOfMonth {
		if d < 1 || d > 31 {
			v.recordError("transaction", txID, "recurrence.daysOfMonth",
				fmt.Errorf("day %d out of range 1-31", d))
			ok = false
		}
	}

	var end *calendar.Date
	if rec.End != "" {
		parsed, err := calendar.Parse(rec.End)
		if err != nil {
			v.recordError("transaction", txID, "recurrence.end", err)
			ok = false
		} else {
			end = &parsed
		}
	}

	if !ok {
		return nil, false
	}
	return &forecast.RecurrenceRule{
		Frequency:   freq,
		Interval:    rec.Interval,
		DaysOfWeek:  normalizeSet(rec.DaysOfWeek),
		DaysOfMonth: normalizeSet(rec.DaysOfMonth),
		End:         end,
		Limit:       rec.Limit,
	}, true
}

// normalizeSet sorts and deduplicates a day selector, keeping the
// set-typed representation the engine expects.
func normalizeSet(days []int) []int {
	if len(days) == 0 {
		return nil
	}
	out := slices.Clone(days)
	slices.Sort(out)
	return slices.Compact(out)
}

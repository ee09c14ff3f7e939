package plan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/andrew-rosca/cashflow/calendar"
	"github.com/andrew-rosca/cashflow/forecast"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantErrs  int
		checkFunc func(*testing.T, *Plan)
	}{
		{
			name: "valid plan",
			input: `{
				"accounts": [
					{"id": "checking", "name": "Checking", "initialBalance": "1200.50", "balanceAsOf": "2025-01-01"},
					{"id": "savings", "initialBalance": 0, "balanceAsOf": "2025-01-01"}
				],
				"transactions": [
					{"id": "rent", "from": "checking", "to": "checking", "amount": "-950", "date": "2025-01-03",
					 "recurrence": {"frequency": "monthly", "daysOfMonth": [1]}},
					{"from": "checking", "to": "savings", "amount": 200, "date": "2025-01-06", "settlementDays": 2}
				]
			}`,
			checkFunc: func(t *testing.T, p *Plan) {
				assert.Equal(t, 2, len(p.Accounts))
				assert.Equal(t, 2, len(p.Transactions))

				checking, ok := p.Account("checking")
				assert.True(t, ok)
				assert.Equal(t, "Checking", checking.Name)
				assert.True(t, checking.InitialBalance.Equal(decimal.RequireFromString("1200.50")))
				assert.Equal(t, calendar.MustParse("2025-01-01"), checking.BalanceAsOf)

				rent := p.Transactions[0]
				assert.Equal(t, "rent", rent.ID)
				assert.False(t, rent.Transfer())
				assert.Equal(t, forecast.Monthly, rent.Recurrence.Frequency)

				transfer := p.Transactions[1]
				assert.NotEqual(t, "", transfer.ID, "missing id should be assigned")
				assert.True(t, transfer.Transfer())
				assert.Equal(t, 2, transfer.SettlementDays)
			},
		},
		{
			name: "selectors are normalized to sorted sets",
			input: `{
				"accounts": [{"id": "a", "initialBalance": 0, "balanceAsOf": "2025-01-01"}],
				"transactions": [
					{"from": "a", "to": "a", "amount": 1, "date": "2025-01-01",
					 "recurrence": {"frequency": "monthly", "daysOfMonth": [15, 1, 15]}}
				]
			}`,
			checkFunc: func(t *testing.T, p *Plan) {
				assert.Equal(t, []int{1, 15}, p.Transactions[0].Recurrence.DaysOfMonth)
			},
		},
		{
			name: "bad dates are reported per record without aborting the batch",
			input: `{
				"accounts": [
					{"id": "a", "initialBalance": 0, "balanceAsOf": "01/01/2025"},
					{"id": "b", "initialBalance": 0, "balanceAsOf": "2025-01-01"}
				],
				"transactions": [
					{"id": "t1", "from": "b", "to": "b", "amount": 1, "date": "2025-13-40"},
					{"id": "t2", "from": "b", "to": "b", "amount": 1, "date": "2025-01-05"}
				]
			}`,
			wantErrs: 2,
		},
		{
			name: "unknown account references",
			input: `{
				"accounts": [{"id": "a", "initialBalance": 0, "balanceAsOf": "2025-01-01"}],
				"transactions": [
					{"id": "t1", "from": "nope", "to": "a", "amount": 1, "date": "2025-01-05"}
				]
			}`,
			wantErrs: 1,
		},
		{
			name: "invalid recurrence fields",
			input: `{
				"accounts": [{"id": "a", "initialBalance": 0, "balanceAsOf": "2025-01-01"}],
				"transactions": [
					{"id": "t1", "from": "a", "to": "a", "amount": 1, "date": "2025-01-05",
					 "recurrence": {"frequency": "fortnightly"}},
					{"id": "t2", "from": "a", "to": "a", "amount": 1, "date": "2025-01-05",
					 "recurrence": {"frequency": "weekly", "daysOfWeek": [7]}},
					{"id": "t3", "from": "a", "to": "a", "amount": 1, "date": "2025-01-05",
					 "recurrence": {"frequency": "daily", "daysOfMonth": [1]}}
				]
			}`,
			wantErrs: 3,
		},
		{
			name: "duplicate account id",
			input: `{
				"accounts": [
					{"id": "a", "initialBalance": 0, "balanceAsOf": "2025-01-01"},
					{"id": "a", "initialBalance": 0, "balanceAsOf": "2025-01-01"}
				]
			}`,
			wantErrs: 1,
		},
		{
			name: "negative settlement days",
			input: `{
				"accounts": [{"id": "a", "initialBalance": 0, "balanceAsOf": "2025-01-01"}],
				"transactions": [
					{"id": "t1", "from": "a", "to": "a", "amount": 1, "date": "2025-01-05", "settlementDays": -1}
				]
			}`,
			wantErrs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode([]byte(tt.input))
			if tt.wantErrs > 0 {
				assert.Error(t, err)
				var verrs *ValidationErrors
				assert.True(t, errors.As(err, &verrs), "should be *ValidationErrors")
				assert.Equal(t, tt.wantErrs, len(verrs.Errors))
				for _, e := range verrs.Errors {
					var rec *RecordError
					assert.True(t, errors.As(e, &rec), "each error should be a *RecordError")
				}
				return
			}
			assert.NoError(t, err)
			if tt.checkFunc != nil {
				tt.checkFunc(t, p)
			}
		})
	}
}

func TestDecodeMalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`{"accounts": [`))
	assert.Error(t, err)
	var verrs *ValidationErrors
	assert.False(t, errors.As(err, &verrs), "structural errors are not validation errors")
}

func TestBadDateSurfacesCalendarError(t *testing.T) {
	_, err := Decode([]byte(`{
		"accounts": [{"id": "a", "initialBalance": 0, "balanceAsOf": "2025-01-01T00:00:00Z"}]
	}`))
	assert.Error(t, err)

	var parseErr *calendar.ParseError
	assert.True(t, errors.As(err, &parseErr), "record error should wrap the calendar parse error")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.json")
	content := `{
		"accounts": [{"id": "a", "initialBalance": "10", "balanceAsOf": "2025-01-01"}],
		"transactions": []
	}`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0600))

	p, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(p.Accounts))

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestWindow(t *testing.T) {
	p := &Plan{Accounts: []forecast.Account{
		{ID: "a", BalanceAsOf: calendar.MustParse("2025-02-01")},
		{ID: "b", BalanceAsOf: calendar.MustParse("2025-01-15")},
	}}

	start, end, ok := p.Window(90)
	assert.True(t, ok)
	assert.Equal(t, calendar.MustParse("2025-01-15"), start)
	assert.Equal(t, calendar.MustParse("2025-04-15"), end)

	_, _, ok = (&Plan{}).Window(90)
	assert.False(t, ok)
}

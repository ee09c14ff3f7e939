package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/andrew-rosca/cashflow/calendar"
	"github.com/andrew-rosca/cashflow/forecast"
	"github.com/andrew-rosca/cashflow/plan"
)

func testProjection(t *testing.T) ([]forecast.Account, *forecast.Projection) {
	t.Helper()

	accounts := []forecast.Account{{
		ID:             "checking",
		Name:           "Checking",
		InitialBalance: decimal.NewFromInt(100),
		BalanceAsOf:    calendar.MustParse("2025-01-01"),
	}}
	transactions := []forecast.Transaction{{
		ID:          "spend",
		FromAccount: "checking",
		ToAccount:   "checking",
		Amount:      decimal.NewFromInt(-150),
		Date:        calendar.MustParse("2025-01-03"),
	}}

	projection, err := forecast.Project(accounts, transactions,
		calendar.MustParse("2025-01-01"), calendar.MustParse("2025-01-05"))
	assert.NoError(t, err)
	return accounts, projection
}

func TestRenderForecast(t *testing.T) {
	accounts, projection := testProjection(t)

	var buf strings.Builder
	rows := renderForecast(&buf, accounts, projection, false, false)
	out := buf.String()

	assert.Equal(t, 5, rows)
	assert.True(t, strings.Contains(out, "Date"))
	assert.True(t, strings.Contains(out, "Checking"))
	assert.True(t, strings.Contains(out, "2025-01-01"))
	assert.True(t, strings.Contains(out, "100.00"))
	assert.True(t, strings.Contains(out, "-50.00"))
}

func TestRenderForecastCollapse(t *testing.T) {
	accounts, projection := testProjection(t)

	var buf strings.Builder
	rows := renderForecast(&buf, accounts, projection, true, false)

	// First row is always kept as the baseline; the only other
	// surviving row is the day the balance moved.
	assert.Equal(t, 2, rows)
	assert.True(t, strings.Contains(buf.String(), "2025-01-01"))
	assert.True(t, strings.Contains(buf.String(), "2025-01-03"))
	assert.False(t, strings.Contains(buf.String(), "2025-01-02"))
}

func TestRenderForecastDangerOnly(t *testing.T) {
	accounts, projection := testProjection(t)

	var buf strings.Builder
	rows := renderForecast(&buf, accounts, projection, false, true)

	// Balance goes to -50 on the 3rd and stays there.
	assert.Equal(t, 3, rows)
	assert.False(t, strings.Contains(buf.String(), "2025-01-02"))
	assert.True(t, strings.Contains(buf.String(), "2025-01-03"))
	assert.True(t, strings.Contains(buf.String(), "2025-01-05"))
}

func TestRenderForecastEmpty(t *testing.T) {
	var buf strings.Builder
	rows := renderForecast(&buf, nil, &forecast.Projection{}, false, false)
	assert.Equal(t, 0, rows)
	assert.Equal(t, "", buf.String())
}

func TestPadding(t *testing.T) {
	assert.Equal(t, "   abc", padLeft("abc", 6))
	assert.Equal(t, "abc   ", padRight("abc", 6))
	assert.Equal(t, "abc", padLeft("abc", 2))
	assert.Equal(t, "abc", padRight("abc", 3))
}

func TestRenderPlanErrorExpandsValidationErrors(t *testing.T) {
	_, err := plan.Decode([]byte(`{
		"accounts": [
			{"id": "a", "initialBalance": 0, "balanceAsOf": "nope"},
			{"id": "b", "initialBalance": 0, "balanceAsOf": "also-bad-x"}
		]
	}`))
	assert.Error(t, err)

	var buf strings.Builder
	renderPlanError(&buf, err)
	out := buf.String()

	assert.True(t, strings.Contains(out, "balanceAsOf"))
	assert.True(t, strings.Contains(out, "2 validation error(s) found"))
}

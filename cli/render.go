package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/exp/slices"

	"github.com/andrew-rosca/cashflow/calendar"
	"github.com/andrew-rosca/cashflow/forecast"
)

// renderForecast writes the projection as an aligned table, one row per
// day and one column per account. Days with a balance at or below zero
// render in the danger style; days without changes render dim. The
// collapse and dangerOnly filters are derived views over the points,
// applied here rather than in the engine. Returns the number of data
// rows written.
func renderForecast(w io.Writer, accounts []forecast.Account, projection *forecast.Projection, collapse, dangerOnly bool) int {
	byAccount := make(map[string]map[calendar.Date]forecast.Point)
	for _, pt := range projection.Points {
		if byAccount[pt.AccountID] == nil {
			byAccount[pt.AccountID] = make(map[calendar.Date]forecast.Point)
		}
		byAccount[pt.AccountID][pt.Date] = pt
	}

	headers := make([]string, 0, len(accounts)+1)
	headers = append(headers, "Date")
	for _, account := range accounts {
		name := account.Name
		if name == "" {
			name = account.ID
		}
		headers = append(headers, name)
	}

	// Collect the union of projected dates in order. Accounts whose
	// balance-as-of is inside the window start late, so rows come from
	// any account that has a point that day.
	var dates []calendar.Date
	seen := make(map[calendar.Date]bool)
	for _, pt := range projection.Points {
		if !seen[pt.Date] {
			seen[pt.Date] = true
			dates = append(dates, pt.Date)
		}
	}
	slices.SortFunc(dates, func(a, b calendar.Date) int { return a.Compare(b) })

	type row struct {
		date   calendar.Date
		cells  []string
		danger []bool
		moved  bool
	}

	var rows []row
	for _, d := range dates {
		r := row{date: d, cells: make([]string, len(accounts)), danger: make([]bool, len(accounts))}
		anyDanger := false
		for i, account := range accounts {
			pt, ok := byAccount[account.ID][d]
			if !ok {
				continue
			}
			r.cells[i] = pt.Balance.StringFixed(2)
			r.danger[i] = pt.Danger()
			anyDanger = anyDanger || r.danger[i]
			r.moved = r.moved || pt.Changed()
		}
		if dangerOnly && !anyDanger {
			continue
		}
		if collapse && !r.moved && len(rows) > 0 {
			continue
		}
		rows = append(rows, r)
	}

	if len(rows) == 0 {
		return 0
	}

	// Column widths from headers and cells.
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, r := range rows {
		if w := runewidth.StringWidth(r.date.Format()); w > widths[0] {
			widths[0] = w
		}
		for i, cell := range r.cells {
			if w := runewidth.StringWidth(cell); w > widths[i+1] {
				widths[i+1] = w
			}
		}
	}

	if total := tableWidth(widths); total > terminalWidth() {
		printWarning(w, fmt.Sprintf("table is %d columns wide; narrow it with --accounts", total))
	}

	var b strings.Builder
	b.WriteString(padRight(headers[0], widths[0]))
	for i, h := range headers[1:] {
		b.WriteString("  ")
		b.WriteString(padLeft(h, widths[i+1]))
	}
	_, _ = fmt.Fprintln(w, b.String())

	for _, r := range rows {
		b.Reset()
		b.WriteString(padRight(r.date.Format(), widths[0]))
		for i, cell := range r.cells {
			b.WriteString("  ")
			padded := padLeft(cell, widths[i+1])
			switch {
			case r.danger[i]:
				padded = dangerStyle.Render(padded)
			case !r.moved:
				padded = dimStyle.Render(padded)
			}
			b.WriteString(padded)
		}
		_, _ = fmt.Fprintln(w, b.String())
	}

	return len(rows)
}

func tableWidth(widths []int) int {
	total := 0
	for _, w := range widths {
		total += w
	}
	return total + 2*(len(widths)-1)
}

func padLeft(s string, width int) string {
	if gap := width - runewidth.StringWidth(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}
	return s
}

func padRight(s string, width int) string {
	if gap := width - runewidth.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

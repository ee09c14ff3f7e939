package forecast

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/andrew-rosca/cashflow/calendar"
)

func dates(specs ...string) []calendar.Date {
	out := make([]calendar.Date, 0, len(specs))
	for _, s := range specs {
		out = append(out, calendar.MustParse(s))
	}
	return out
}

func TestMaterialize(t *testing.T) {
	tests := []struct {
		name      string
		rule      RecurrenceRule
		anchor    string
		start     string
		end       string
		want      []calendar.Date
		truncated bool
	}{
		{
			name:   "daily",
			rule:   RecurrenceRule{Frequency: Daily},
			anchor: "2025-01-01",
			start:  "2025-01-01",
			end:    "2025-01-04",
			want:   dates("2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04"),
		},
		{
			name:   "daily with interval",
			rule:   RecurrenceRule{Frequency: Daily, Interval: 3},
			anchor: "2025-01-01",
			start:  "2025-01-01",
			end:    "2025-01-10",
			want:   dates("2025-01-01", "2025-01-04", "2025-01-07", "2025-01-10"),
		},
		{
			name:   "daily window starts after anchor",
			rule:   RecurrenceRule{Frequency: Daily, Interval: 2},
			anchor: "2025-01-01",
			start:  "2025-01-06",
			end:    "2025-01-10",
			want:   dates("2025-01-07", "2025-01-09"),
		},
		{
			name:   "weekly without selector",
			rule:   RecurrenceRule{Frequency: Weekly},
			anchor: "2025-01-03",
			start:  "2025-01-01",
			end:    "2025-01-31",
			want:   dates("2025-01-03", "2025-01-10", "2025-01-17", "2025-01-24", "2025-01-31"),
		},
		{
			name:   "weekly with interval",
			rule:   RecurrenceRule{Frequency: Weekly, Interval: 2},
			anchor: "2025-01-03",
			start:  "2025-01-01",
			end:    "2025-01-31",
			want:   dates("2025-01-03", "2025-01-17", "2025-01-31"),
		},
		{
			// 2025-01-01 is a Wednesday; anchor snaps forward to the
			// first selected weekday.
			name:   "weekly selector snaps anchor forward",
			rule:   RecurrenceRule{Frequency: Weekly, DaysOfWeek: []int{5}}, // Friday
			anchor: "2025-01-01",
			start:  "2025-01-01",
			end:    "2025-01-20",
			want:   dates("2025-01-03", "2025-01-10", "2025-01-17"),
		},
		{
			// Monday=1, Wednesday=3. Every selected weekday of each
			// cycle week is an occurrence.
			name:   "weekly multi-day selector",
			rule:   RecurrenceRule{Frequency: Weekly, DaysOfWeek: []int{1, 3}},
			anchor: "2025-01-06", // a Monday
			start:  "2025-01-06",
			end:    "2025-01-19",
			want:   dates("2025-01-06", "2025-01-08", "2025-01-13", "2025-01-15"),
		},
		{
			name:   "monthly clamps to short months from the anchor day",
			rule:   RecurrenceRule{Frequency: Monthly},
			anchor: "2025-01-31",
			start:  "2025-01-01",
			end:    "2025-04-30",
			want:   dates("2025-01-31", "2025-02-28", "2025-03-31", "2025-04-30"),
		},
		{
			name:   "monthly multi-day selector",
			rule:   RecurrenceRule{Frequency: Monthly, DaysOfMonth: []int{1, 15}},
			anchor: "2025-01-01",
			start:  "2025-01-01",
			end:    "2025-02-28",
			want:   dates("2025-01-01", "2025-01-15", "2025-02-01", "2025-02-15"),
		},
		{
			name:   "monthly selector clamps day 31 to a 30-day month",
			rule:   RecurrenceRule{Frequency: Monthly, DaysOfMonth: []int{31}},
			anchor: "2025-03-31",
			start:  "2025-03-01",
			end:    "2025-05-31",
			want:   dates("2025-03-31", "2025-04-30", "2025-05-31"),
		},
		{
			name:   "monthly selector skips days before the anchor",
			rule:   RecurrenceRule{Frequency: Monthly, DaysOfMonth: []int{1, 15}},
			anchor: "2025-01-10",
			start:  "2025-01-01",
			end:    "2025-02-28",
			want:   dates("2025-01-15", "2025-02-01", "2025-02-15"),
		},
		{
			name:   "yearly",
			rule:   RecurrenceRule{Frequency: Yearly},
			anchor: "2023-07-04",
			start:  "2023-01-01",
			end:    "2025-12-31",
			want:   dates("2023-07-04", "2024-07-04", "2025-07-04"),
		},
		{
			name:   "yearly leap day clamps in non-leap years",
			rule:   RecurrenceRule{Frequency: Yearly},
			anchor: "2024-02-29",
			start:  "2024-01-01",
			end:    "2026-12-31",
			want:   dates("2024-02-29", "2025-02-28", "2026-02-28"),
		},
		{
			name: "end date bounds before window end",
			rule: RecurrenceRule{
				Frequency: Weekly,
				End:       ptr(calendar.MustParse("2025-01-17")),
			},
			anchor: "2025-01-03",
			start:  "2025-01-01",
			end:    "2025-03-31",
			want:   dates("2025-01-03", "2025-01-10", "2025-01-17"),
		},
		{
			name:   "occurrence limit",
			rule:   RecurrenceRule{Frequency: Weekly, Limit: 3},
			anchor: "2025-01-03",
			start:  "2025-01-01",
			end:    "2025-12-31",
			want:   dates("2025-01-03", "2025-01-10", "2025-01-17"),
		},
		{
			// Occurrences stepped through before the window still
			// consume the limit.
			name:   "occurrence limit consumed outside the window",
			rule:   RecurrenceRule{Frequency: Weekly, Limit: 3},
			anchor: "2025-01-03",
			start:  "2025-01-15",
			end:    "2025-12-31",
			want:   dates("2025-01-17"),
		},
		{
			name: "both bounds present, earlier one wins",
			rule: RecurrenceRule{
				Frequency: Daily,
				Limit:     10,
				End:       ptr(calendar.MustParse("2025-01-05")),
			},
			anchor: "2025-01-01",
			start:  "2025-01-01",
			end:    "2025-12-31",
			want:   dates("2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04", "2025-01-05"),
		},
		{
			name:   "anchor after window end",
			rule:   RecurrenceRule{Frequency: Daily},
			anchor: "2025-06-01",
			start:  "2025-01-01",
			end:    "2025-03-20",
			want:   nil,
		},
		{
			name:      "step ceiling truncates instead of looping",
			rule:      RecurrenceRule{Frequency: Daily},
			anchor:    "2000-01-01",
			start:     "2000-01-01",
			end:       "2100-01-01",
			want:      nil, // length checked below
			truncated: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := Materialize(&tt.rule, calendar.MustParse(tt.anchor), calendar.MustParse(tt.start), calendar.MustParse(tt.end))
			assert.Equal(t, tt.truncated, truncated)
			if tt.truncated {
				assert.Equal(t, MaxSteps, len(got))
				assert.Equal(t, calendar.MustParse(tt.anchor), got[0])
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMaterializeIsRestartable(t *testing.T) {
	rule := RecurrenceRule{Frequency: Weekly, DaysOfWeek: []int{1, 3}, Limit: 9}
	anchor := calendar.MustParse("2025-01-06")
	start := calendar.MustParse("2025-01-01")
	end := calendar.MustParse("2025-03-31")

	first, cutFirst := Materialize(&rule, anchor, start, end)
	second, cutSecond := Materialize(&rule, anchor, start, end)

	assert.Equal(t, first, second)
	assert.Equal(t, cutFirst, cutSecond)
}

func ptr[T any](v T) *T { return &v }

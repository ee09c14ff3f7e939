package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/andrew-rosca/cashflow/calendar"
	"github.com/andrew-rosca/cashflow/forecast"
)

// PlanResponse is the JSON response structure for the plan endpoint.
type PlanResponse struct {
	Accounts     []AccountResponse `json:"accounts"`
	Transactions int               `json:"transactions"`
}

// AccountResponse summarizes one account of the served plan.
type AccountResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name,omitempty"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	BalanceAsOf    string          `json:"balanceAsOf"`
}

// ProjectionResponse is the JSON response structure for the projection
// endpoint.
type ProjectionResponse struct {
	Start     string          `json:"start"`
	End       string          `json:"end"`
	Truncated bool            `json:"truncated"`
	Accounts  []AccountSeries `json:"accounts"`
}

// AccountSeries is one account's chronological slice of the projection.
type AccountSeries struct {
	AccountID string          `json:"accountId"`
	Name      string          `json:"name,omitempty"`
	Points    []PointResponse `json:"points"`
}

// PointResponse is one projected day. Danger and Changed are derived
// here, at the serialization boundary, not by the engine.
type PointResponse struct {
	Date            string          `json:"date"`
	Balance         decimal.Decimal `json:"balance"`
	PreviousBalance decimal.Decimal `json:"previousBalance"`
	Danger          bool            `json:"danger"`
	Changed         bool            `json:"changed"`
}

// handleGetPlan handles GET requests to /api/plan.
func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := PlanResponse{Transactions: len(s.plan.Transactions)}
	for _, a := range s.plan.Accounts {
		resp.Accounts = append(resp.Accounts, AccountResponse{
			ID:             a.ID,
			Name:           a.Name,
			InitialBalance: a.InitialBalance,
			BalanceAsOf:    a.BalanceAsOf.Format(),
		})
	}

	writeJSON(w, resp)
}

// handleGetProjection handles GET requests to /api/projection.
//
// Query parameters:
//   - start, end: window bounds in YYYY-MM-DD form. When omitted, the
//     window runs from the plan's earliest balance-as-of date through
//     DefaultWindowDays days later.
//   - accounts: comma-separated account ids to project. When omitted,
//     every account is projected.
func (s *Server) handleGetProjection(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start, end, ok := s.plan.Window(DefaultWindowDays)
	if !ok {
		http.Error(w, "plan has no accounts", http.StatusUnprocessableEntity)
		return
	}

	var err error
	if param := r.URL.Query().Get("start"); param != "" {
		if start, err = calendar.Parse(param); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if param := r.URL.Query().Get("end"); param != "" {
		if end, err = calendar.Parse(param); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if end.Before(start) {
		http.Error(w, "end is before start", http.StatusBadRequest)
		return
	}

	accounts := s.plan.Accounts
	if param := r.URL.Query().Get("accounts"); param != "" {
		accounts = nil
		for _, id := range strings.Split(param, ",") {
			account, ok := s.plan.Account(strings.TrimSpace(id))
			if !ok {
				http.Error(w, "unknown account: "+id, http.StatusBadRequest)
				return
			}
			accounts = append(accounts, account)
		}
	}

	projection, err := forecast.Project(accounts, s.plan.Transactions, start, end)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := ProjectionResponse{
		Start:     start.Format(),
		End:       end.Format(),
		Truncated: projection.Truncated,
	}
	for _, account := range accounts {
		series := AccountSeries{AccountID: account.ID, Name: account.Name}
		for _, pt := range projection.ForAccount(account.ID) {
			series.Points = append(series.Points, PointResponse{
				Date:            pt.Date.Format(),
				Balance:         pt.Balance,
				PreviousBalance: pt.PreviousBalance,
				Danger:          pt.Danger(),
				Changed:         pt.Changed(),
			})
		}
		resp.Accounts = append(resp.Accounts, series)
	}

	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

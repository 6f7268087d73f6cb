package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"komunitas/internal/adapters/http/middleware"
	"komunitas/internal/application/listutil"
	"komunitas/internal/application/orchestrators"
	"komunitas/internal/application/projections"
	"komunitas/internal/domain/cashflow"
)

func (s *Server) cashflowReader() projections.CashflowListDeps {
	return projections.CashflowListDeps{Cashflow: s.deps.Stores.Cashflow}
}

// handleListCashflow handles GET /api/cashflow
func (s *Server) handleListCashflow(w http.ResponseWriter, r *http.Request) {
	lp := listutil.ParseListParams(r.URL.Query(), projections.CashflowDefaultPerPage,
		projections.CashflowSortKeys, projections.CashflowFilterKeys)

	result, err := projections.QueryCashflowList(r.Context(), projections.CashflowListQuery{
		Search:   lp.Search,
		Type:     lp.Filters["type"],
		Category: lp.Filters["category"],
		Sort:     lp.Sort,
		Dir:      lp.Dir,
		Page:     lp.Page,
		PerPage:  lp.PerPage,
	}, s.cashflowReader())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleCashflowSummary handles GET /api/cashflow/summary
func (s *Server) handleCashflowSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := projections.QueryCashflowSummary(r.Context(), s.cashflowReader())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleCreateCashflow handles POST /api/cashflow
func (s *Server) handleCreateCashflow(w http.ResponseWriter, r *http.Request) {
	draft := cashflow.NewDraft(s.deps.Now())
	if err := decodeDraft(r, &draft, "amount"); err != nil {
		writeError(w, err)
		return
	}
	it, err := orchestrators.ExecuteCreateCashflow(r.Context(), orchestrators.CreateCashflowInput{
		Draft: draft,
		Actor: middleware.Actor(r.Context()),
	}, s.cashflowDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

// handleGetCashflow handles GET /api/cashflow/{id}
func (s *Server) handleGetCashflow(w http.ResponseWriter, r *http.Request) {
	it, err := projections.QueryGetCashflowItem(r.Context(), chi.URLParam(r, "id"), s.cashflowReader())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// handleUpdateCashflow handles PUT /api/cashflow/{id}
func (s *Server) handleUpdateCashflow(w http.ResponseWriter, r *http.Request) {
	var draft cashflow.Draft
	if err := decodeDraft(r, &draft, "amount"); err != nil {
		writeError(w, err)
		return
	}
	it, err := orchestrators.ExecuteUpdateCashflow(r.Context(), orchestrators.UpdateCashflowInput{
		ID:    chi.URLParam(r, "id"),
		Draft: draft,
		Actor: middleware.Actor(r.Context()),
	}, s.cashflowDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// handleDeleteCashflow handles DELETE /api/cashflow/{id}
func (s *Server) handleDeleteCashflow(w http.ResponseWriter, r *http.Request) {
	_, err := orchestrators.ExecuteDeleteCashflow(r.Context(), orchestrators.DeleteCashflowInput{
		ID:    chi.URLParam(r, "id"),
		Actor: middleware.Actor(r.Context()),
	}, s.cashflowDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDashboard handles GET /api/dashboard
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardDeps{
		Activities:  s.deps.Stores.Activities,
		Cashflow:    s.deps.Stores.Cashflow,
		Donations:   s.deps.Stores.Donations,
		Volunteers:  s.deps.Stores.Volunteers,
		Submissions: s.deps.Stores.Submissions,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

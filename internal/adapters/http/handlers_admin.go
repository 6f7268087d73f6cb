package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"komunitas/internal/adapters/http/middleware"
	"komunitas/internal/application/listutil"
	"komunitas/internal/application/orchestrators"
	"komunitas/internal/application/projections"
)

// perfTopN is how many slow routes and storage operations the perf report lists.
const perfTopN = 10

// handleListSubmissions handles GET /api/admin/submissions
func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	lp := listutil.ParseListParams(r.URL.Query(), listutil.DefaultPerPage, nil, projections.SubmissionFilterKeys)
	result, err := projections.QuerySubmissionList(r.Context(), projections.SubmissionListQuery{
		Search:  lp.Search,
		Type:    lp.Filters["type"],
		Page:    lp.Page,
		PerPage: lp.PerPage,
	}, projections.SubmissionListDeps{Submissions: s.deps.Stores.Submissions})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleApproveSubmission handles POST /api/admin/submissions/{id}/approve
func (s *Server) handleApproveSubmission(w http.ResponseWriter, r *http.Request) {
	result, err := orchestrators.ExecuteApproveSubmission(r.Context(), orchestrators.DecideSubmissionInput{
		ID:    chi.URLParam(r, "id"),
		Actor: middleware.Actor(r.Context()),
	}, s.submissionDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleRejectSubmission handles POST /api/admin/submissions/{id}/reject
func (s *Server) handleRejectSubmission(w http.ResponseWriter, r *http.Request) {
	rejected, err := orchestrators.ExecuteRejectSubmission(r.Context(), orchestrators.DecideSubmissionInput{
		ID:    chi.URLParam(r, "id"),
		Actor: middleware.Actor(r.Context()),
	}, s.submissionDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rejected)
}

// handleReset handles POST /api/admin/reset
// Clears activities and cashflow so both read their seed lists again.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	cleared, err := orchestrators.ExecuteResetData(r.Context(), orchestrators.ResetInput{
		Actor: middleware.Actor(r.Context()),
	}, orchestrators.ResetDeps{
		Collections: []orchestrators.Resettable{s.deps.Stores.Activities, s.deps.Stores.Cashflow},
		AuditDeps:   s.auditDeps(),
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"cleared": cleared})
}

// handleListAudit handles GET /api/admin/audit
func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	lp := listutil.ParseListParams(r.URL.Query(), listutil.DefaultPerPage, nil, projections.AuditFilterKeys)
	result, err := projections.QueryAuditList(r.Context(), projections.AuditListQuery{
		Collection: lp.Filters["collection"],
		Action:     lp.Filters["action"],
		Page:       lp.Page,
		PerPage:    lp.PerPage,
	}, projections.AuditListDeps{AuditLog: s.deps.Stores.AuditLog})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handlePerf handles GET /api/admin/perf?minutes=15
// The window is measured on the wall clock.
func (s *Server) handlePerf(w http.ResponseWriter, r *http.Request) {
	if s.deps.Perf == nil {
		http.Error(w, "performance collection is disabled", http.StatusNotFound)
		return
	}
	minutes, err := strconv.Atoi(r.URL.Query().Get("minutes"))
	if err != nil || minutes <= 0 {
		minutes = 15
	}
	since := time.Now().Add(-time.Duration(minutes) * time.Minute)
	writeJSON(w, http.StatusOK, s.deps.Perf.Snapshot(since, perfTopN))
}

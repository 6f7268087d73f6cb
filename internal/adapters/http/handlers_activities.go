package web

import (
	"bytes"
	"html"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"komunitas/internal/adapters/http/middleware"
	"komunitas/internal/application/listutil"
	"komunitas/internal/application/orchestrators"
	"komunitas/internal/application/projections"
	"komunitas/internal/domain/activity"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderMarkdown converts an activity description to HTML.
// On a render failure the escaped source is returned.
func renderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return html.EscapeString(md)
	}
	return buf.String()
}

// activityDetail is the single-activity response.
type activityDetail struct {
	Activity        activity.Activity `json:"activity"`
	DescriptionHTML string            `json:"descriptionHtml"`
}

// handleListActivities handles GET /api/activities
func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	lp := listutil.ParseListParams(r.URL.Query(), listutil.DefaultPerPage,
		projections.ActivitySortKeys, projections.ActivityFilterKeys)

	result, err := projections.QueryActivityList(r.Context(), projections.ActivityListQuery{
		Search:   lp.Search,
		Status:   lp.Filters["status"],
		Category: lp.Filters["category"],
		Sort:     lp.Sort,
		Dir:      lp.Dir,
		Page:     lp.Page,
		PerPage:  lp.PerPage,
	}, projections.ActivityListDeps{Activities: s.deps.Stores.Activities})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleCreateActivity handles POST /api/activities
func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	draft := activity.NewDraft()
	if err := decodeDraft(r, &draft, "participants"); err != nil {
		writeError(w, err)
		return
	}
	a, err := orchestrators.ExecuteCreateActivity(r.Context(), orchestrators.CreateActivityInput{
		Draft: draft,
		Actor: middleware.Actor(r.Context()),
	}, s.activityDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// handleGetActivity handles GET /api/activities/{id}
func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	a, err := projections.QueryGetActivity(r.Context(), chi.URLParam(r, "id"),
		projections.GetActivityDeps{Activities: s.deps.Stores.Activities})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activityDetail{Activity: a, DescriptionHTML: renderMarkdown(a.Description)})
}

// handleUpdateActivity handles PUT /api/activities/{id}
// The body replaces every mutable field.
func (s *Server) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	var draft activity.Draft
	if err := decodeDraft(r, &draft, "participants"); err != nil {
		writeError(w, err)
		return
	}
	a, err := orchestrators.ExecuteUpdateActivity(r.Context(), orchestrators.UpdateActivityInput{
		ID:    chi.URLParam(r, "id"),
		Draft: draft,
		Actor: middleware.Actor(r.Context()),
	}, s.activityDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// handleDeleteActivity handles DELETE /api/activities/{id}
// Deleting an unknown id still answers 204.
func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	_, err := orchestrators.ExecuteDeleteActivity(r.Context(), orchestrators.DeleteActivityInput{
		ID:    chi.URLParam(r, "id"),
		Actor: middleware.Actor(r.Context()),
	}, s.activityDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleActivityMap handles GET /api/activities/map
func (s *Server) handleActivityMap(w http.ResponseWriter, r *http.Request) {
	pins, err := projections.QueryActivityMap(r.Context(), projections.ActivityListDeps{Activities: s.deps.Stores.Activities})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pins)
}

// handlePublicActivities handles GET /api/public/activities?q=&category=&tab=upcoming|completed
func (s *Server) handlePublicActivities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := projections.QueryPublicActivities(r.Context(), projections.PublicActivityQuery{
		Search:   q.Get("q"),
		Category: q.Get("category"),
		Tab:      q.Get("tab"),
	}, projections.ActivityListDeps{Activities: s.deps.Stores.Activities})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

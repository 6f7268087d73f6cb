package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"komunitas/internal/adapters/http/middleware"
	"komunitas/internal/application/listutil"
	"komunitas/internal/application/orchestrators"
	"komunitas/internal/application/projections"
	"komunitas/internal/domain/cashflow"
	"komunitas/internal/domain/donation"
	"komunitas/internal/domain/review"
	"komunitas/internal/domain/submission"
	"komunitas/internal/domain/volunteer"
)

// statusRequest is the body of a review decision.
type statusRequest struct {
	Status string `json:"status"`
}

// statusResponse reports the record after a decision. Changed is false for a repeat.
type statusResponse struct {
	Record  any  `json:"record"`
	Changed bool `json:"changed"`
}

func requestListQuery(r *http.Request, sortKeys []string) projections.RequestListQuery {
	lp := listutil.ParseListParams(r.URL.Query(), listutil.DefaultPerPage, sortKeys, projections.RequestFilterKeys)
	return projections.RequestListQuery{
		Search:  lp.Search,
		Status:  lp.Filters["status"],
		Sort:    lp.Sort,
		Dir:     lp.Dir,
		Page:    lp.Page,
		PerPage: lp.PerPage,
	}
}

// decodeStatus reads a statusRequest and parses its status.
func decodeStatus(r *http.Request) (review.Status, error) {
	var body statusRequest
	if err := strictDecode(r, &body); err != nil {
		return "", err
	}
	return review.ParseStatus(body.Status)
}

// handleListDonations handles GET /api/donations
func (s *Server) handleListDonations(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryDonationList(r.Context(), requestListQuery(r, projections.DonationSortKeys),
		projections.DonationListDeps{Donations: s.deps.Stores.Donations})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleCreateDonation handles POST /api/donations (public pledge form)
func (s *Server) handleCreateDonation(w http.ResponseWriter, r *http.Request) {
	var draft donation.Draft
	if err := decodeDraft(r, &draft, "amount"); err != nil {
		writeError(w, err)
		return
	}
	req, err := orchestrators.ExecuteCreateDonation(r.Context(), draft, s.donationDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// handleSetDonationStatus handles POST /api/donations/{id}/status
func (s *Server) handleSetDonationStatus(w http.ResponseWriter, r *http.Request) {
	status, err := decodeStatus(r)
	if err != nil {
		writeError(w, err)
		return
	}
	req, changed, err := orchestrators.ExecuteSetDonationStatus(r.Context(), orchestrators.SetStatusInput{
		ID:     chi.URLParam(r, "id"),
		Status: status,
		Actor:  middleware.Actor(r.Context()),
	}, s.donationDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Record: req, Changed: changed})
}

// handleDeleteDonation handles DELETE /api/donations/{id}
func (s *Server) handleDeleteDonation(w http.ResponseWriter, r *http.Request) {
	_, err := orchestrators.ExecuteDeleteDonation(r.Context(), orchestrators.DeleteRequestInput{
		ID:    chi.URLParam(r, "id"),
		Actor: middleware.Actor(r.Context()),
	}, s.donationDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListVolunteers handles GET /api/volunteers
func (s *Server) handleListVolunteers(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryVolunteerList(r.Context(), requestListQuery(r, projections.VolunteerSortKeys),
		projections.VolunteerListDeps{Volunteers: s.deps.Stores.Volunteers})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleCreateVolunteer handles POST /api/volunteers (public sign-up form)
func (s *Server) handleCreateVolunteer(w http.ResponseWriter, r *http.Request) {
	var draft volunteer.Draft
	if err := strictDecode(r, &draft); err != nil {
		writeError(w, err)
		return
	}
	req, err := orchestrators.ExecuteCreateVolunteer(r.Context(), draft, s.volunteerDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// handleSetVolunteerStatus handles POST /api/volunteers/{id}/status
func (s *Server) handleSetVolunteerStatus(w http.ResponseWriter, r *http.Request) {
	status, err := decodeStatus(r)
	if err != nil {
		writeError(w, err)
		return
	}
	req, changed, err := orchestrators.ExecuteSetVolunteerStatus(r.Context(), orchestrators.SetStatusInput{
		ID:     chi.URLParam(r, "id"),
		Status: status,
		Actor:  middleware.Actor(r.Context()),
	}, s.volunteerDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Record: req, Changed: changed})
}

// handleDeleteVolunteer handles DELETE /api/volunteers/{id}
func (s *Server) handleDeleteVolunteer(w http.ResponseWriter, r *http.Request) {
	_, err := orchestrators.ExecuteDeleteVolunteer(r.Context(), orchestrators.DeleteRequestInput{
		ID:    chi.URLParam(r, "id"),
		Actor: middleware.Actor(r.Context()),
	}, s.volunteerDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// submissionRequest is the public proposal form.
type submissionRequest struct {
	Type         submission.Kind `json:"type"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	SubmittedBy  string          `json:"submittedBy"`
	Date         string          `json:"date"`
	Location     string          `json:"location"`
	Category     string          `json:"category"`
	Amount       int64           `json:"amount"`
	CashflowType cashflow.Type   `json:"cashflowType"`
}

// handleCreateSubmission handles POST /api/submissions
func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	var body submissionRequest
	if err := decodeDraft(r, &body, "amount"); err != nil {
		writeError(w, err)
		return
	}
	sub, err := orchestrators.ExecuteCreateSubmission(r.Context(), submission.Submission{
		Type:         body.Type,
		Title:        body.Title,
		Description:  body.Description,
		SubmittedBy:  body.SubmittedBy,
		Date:         body.Date,
		Location:     body.Location,
		Category:     body.Category,
		Amount:       body.Amount,
		CashflowType: body.CashflowType,
	}, s.submissionDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

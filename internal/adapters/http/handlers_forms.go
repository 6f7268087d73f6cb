package web

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"komunitas/internal/adapters/geo"
	"komunitas/internal/adapters/http/middleware"
	"komunitas/internal/application/forms"
)

// openFormRequest is the body of POST /api/forms.
type openFormRequest struct {
	Entity string `json:"entity"`
	Mode   string `json:"mode"`
	ID     string `json:"id"`
}

// locateRequest is the body of POST /api/forms/{id}/locate.
// Device carries a fix the browser already has; DeviceError reports why it has none
// ("denied", "unsupported", ...). With neither, the server resolves the client IP.
type locateRequest struct {
	Device      *geo.Coordinates `json:"device,omitempty"`
	DeviceError string           `json:"deviceError,omitempty"`
	Wait        bool             `json:"wait"`
}

// submitResponse names the record a form committed.
type submitResponse struct {
	RecordID string `json:"recordId"`
}

// handleOpenForm handles POST /api/forms
func (s *Server) handleOpenForm(w http.ResponseWriter, r *http.Request) {
	var body openFormRequest
	if err := strictDecode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	entity, err := forms.ParseEntity(body.Entity)
	if err != nil {
		writeError(w, err)
		return
	}
	mode, err := forms.ParseMode(body.Mode)
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := s.deps.Forms.Open(r.Context(), forms.OpenInput{Entity: entity, Mode: mode, TargetID: body.ID})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c.Snapshot())
}

// handleGetForm handles GET /api/forms/{id}
func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	c, err := s.deps.Forms.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Snapshot())
}

// handlePatchForm handles PATCH /api/forms/{id}
// The body is a partial draft; "mode" and "targetId" re-seed the form first.
func (s *Server) handlePatchForm(w http.ResponseWriter, r *http.Request) {
	c, err := s.deps.Forms.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	raw, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := c.Patch(r.Context(), raw); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Snapshot())
}

// handleCloseForm handles DELETE /api/forms/{id}
func (s *Server) handleCloseForm(w http.ResponseWriter, r *http.Request) {
	s.deps.Forms.Close(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// handleLocateForm handles POST /api/forms/{id}/locate
// Answers 202 with the pending state, or 200 with the outcome when wait is set.
func (s *Server) handleLocateForm(w http.ResponseWriter, r *http.Request) {
	c, err := s.deps.Forms.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	var body locateRequest
	if r.ContentLength != 0 {
		if err := strictDecode(r, &body); err != nil {
			writeError(w, err)
			return
		}
	}

	_, done, err := c.Locate(geo.Request{
		IP:          net.ParseIP(middleware.ClientIP(r)),
		Device:      body.Device,
		DeviceError: body.DeviceError,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if !body.Wait {
		writeJSON(w, http.StatusAccepted, c.Snapshot())
		return
	}
	select {
	case <-done:
	case <-r.Context().Done():
		return
	}
	writeJSON(w, http.StatusOK, c.Snapshot())
}

// handleSubmitForm handles POST /api/forms/{id}/submit
func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	id, err := s.deps.Forms.Submit(r.Context(), chi.URLParam(r, "id"), middleware.Actor(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{RecordID: id})
}

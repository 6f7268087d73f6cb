package web

import (
	"net/http"

	"komunitas/internal/adapters/http/middleware"
	"komunitas/internal/application/orchestrators"
)

// loginRequest is the body of POST /api/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin handles POST /api/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := strictDecode(r, &body); err != nil {
		writeError(w, err)
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    body.Email,
		Password: body.Password,
	}, orchestrators.LoginDeps{
		Accounts:  s.deps.Stores.Accounts,
		AuditDeps: s.auditDeps(),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := s.deps.Sessions.Create(result.AccountID, result.Email, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token, s.cfg.Production)
	writeJSON(w, http.StatusOK, map[string]string{"email": result.Email, "role": result.Role})
}

// handleLogout handles POST /api/logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		s.deps.Sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w, s.cfg.Production)
	w.WriteHeader(http.StatusNoContent)
}

// changePasswordRequest is the body of POST /api/account/password.
type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// handleChangePassword handles POST /api/account/password
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var body changePasswordRequest
	if err := strictDecode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		AccountID:       sess.AccountID,
		CurrentPassword: body.CurrentPassword,
		NewPassword:     body.NewPassword,
	}, orchestrators.ChangePasswordDeps{
		Accounts:  s.deps.Stores.Accounts,
		AuditDeps: s.auditDeps(),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// createAccountRequest is the body of POST /api/admin/accounts.
type createAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// handleCreateAccount handles POST /api/admin/accounts
func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var body createAccountRequest
	if err := strictDecode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	acct, err := orchestrators.ExecuteCreateAccount(r.Context(), orchestrators.CreateAccountInput{
		Email:    body.Email,
		Password: body.Password,
		Role:     body.Role,
	}, orchestrators.CreateAccountDeps{
		Accounts:  s.deps.Stores.Accounts,
		AuditDeps: s.auditDeps(),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": acct.ID, "email": acct.Email, "role": acct.Role})
}

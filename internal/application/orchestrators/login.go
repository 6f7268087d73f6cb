package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"komunitas/internal/domain/account"
	"komunitas/internal/domain/audit"
)

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	AccountID string
	Email     string
	Role      string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Accounts Updater[account.Account]
	AuditDeps
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts")
)

func findByEmail(items []account.Account, email string) int {
	for i, a := range items {
		if strings.EqualFold(a.Email, email) {
			return i
		}
	}
	return -1
}

// ExecuteLogin validates credentials and returns account info for session creation.
// PRE: Valid email and password provided
// POST: Returns account info on success, records failed login on failure
// INVARIANT: Account must not be locked
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	now := deps.now()

	var result LoginResult
	var loginErr error
	err := deps.Accounts.Update(ctx, func(items []account.Account) ([]account.Account, bool, error) {
		i := findByEmail(items, email)
		if i < 0 {
			slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "not_found")
			loginErr = ErrInvalidCredentials
			return nil, false, nil
		}
		acct := &items[i]

		if acct.IsLocked(now) {
			slog.Info("auth_event", "event", "login_blocked", "email", email, "reason", "locked")
			loginErr = ErrAccountLocked
			return nil, false, nil
		}

		if err := acct.CheckPassword(input.Password); err != nil {
			acct.RecordFailedLogin(now)
			slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "wrong_password", "failed_logins", acct.FailedLogins)
			loginErr = ErrInvalidCredentials
			return items, true, nil
		}

		changed := acct.FailedLogins > 0 || !acct.LockedUntil.IsZero()
		acct.ResetFailedLogins()
		result = LoginResult{AccountID: acct.ID, Email: acct.Email, Role: acct.Role}
		return items, changed, nil
	})
	if err != nil {
		return LoginResult{}, err
	}
	if loginErr != nil {
		return LoginResult{}, loginErr
	}

	deps.record(ctx, deps.event(audit.CollectionAccounts, audit.ActionLogin, result.AccountID, result.Email))
	slog.Info("auth_event", "event", "login_success", "email", result.Email, "role", result.Role)
	return result, nil
}

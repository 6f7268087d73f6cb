package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"komunitas/internal/domain/account"
	"komunitas/internal/domain/audit"
)

// ChangePasswordInput carries input for the change-password orchestrator.
type ChangePasswordInput struct {
	AccountID       string
	CurrentPassword string
	NewPassword     string
}

// ChangePasswordDeps holds dependencies for ChangePassword.
type ChangePasswordDeps struct {
	Accounts Updater[account.Account]
	AuditDeps
}

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrCurrentPasswordWrong = errors.New("current password is incorrect")
	ErrNewPasswordSame      = errors.New("new password must be different from current password")
)

// ExecuteChangePassword verifies the current password and stores a hash of the new one.
// PRE: AccountID names the signed-in operator
// POST: On any error the stored account is unchanged
func ExecuteChangePassword(ctx context.Context, input ChangePasswordInput, deps ChangePasswordDeps) error {
	if input.CurrentPassword == "" || input.NewPassword == "" {
		return account.ErrEmptyPassword
	}
	if input.CurrentPassword == input.NewPassword {
		return ErrNewPasswordSame
	}

	var email string
	err := deps.Accounts.Update(ctx, func(items []account.Account) ([]account.Account, bool, error) {
		i := indexOf(items, input.AccountID, func(a account.Account) string { return a.ID })
		if i < 0 {
			return nil, false, ErrAccountNotFound
		}
		acct := items[i]
		if err := acct.CheckPassword(input.CurrentPassword); err != nil {
			return nil, false, ErrCurrentPasswordWrong
		}
		if err := acct.SetPassword(input.NewPassword); err != nil {
			return nil, false, err
		}
		email = acct.Email
		items[i] = acct
		return items, true, nil
	})
	if err != nil {
		return err
	}

	deps.record(ctx, deps.event(audit.CollectionAccounts, audit.ActionUpdate, input.AccountID, email).WithDescription("password changed"))
	slog.Info("auth_event", "event", "password_changed", "account_id", input.AccountID)
	return nil
}

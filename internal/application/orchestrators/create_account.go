package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"komunitas/internal/domain/account"
	"komunitas/internal/domain/audit"
)

// CreateAccountInput carries input for the orchestrator.
type CreateAccountInput struct {
	Email    string
	Password string
	Role     string
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	Accounts Updater[account.Account]
	AuditDeps
}

var ErrEmailAlreadyExists = errors.New("an account with this email already exists")

// ExecuteCreateAccount coordinates account creation.
// PRE: Valid email, password >= 12 chars, valid role
// POST: Account created with hashed password
// INVARIANT: Email must be unique, compared case-insensitively
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (account.Account, error) {
	acct := account.Account{
		ID:        deps.GenerateID(),
		Email:     strings.TrimSpace(input.Email),
		Role:      input.Role,
		CreatedAt: deps.now(),
	}
	if err := acct.Validate(); err != nil {
		return account.Account{}, err
	}
	// Hash outside the collection lock.
	if err := acct.SetPassword(input.Password); err != nil {
		return account.Account{}, err
	}

	err := deps.Accounts.Update(ctx, func(items []account.Account) ([]account.Account, bool, error) {
		if findByEmail(items, acct.Email) >= 0 {
			return nil, false, ErrEmailAlreadyExists
		}
		return append(items, acct), true, nil
	})
	if err != nil {
		return account.Account{}, err
	}

	deps.record(ctx, deps.event(audit.CollectionAccounts, audit.ActionCreate, acct.ID, acct.Email))
	slog.Info("auth_event", "event", "account_created", "email", acct.Email, "role", acct.Role)
	return acct, nil
}

// ExecuteSeedAdmin creates a default admin account if no accounts exist.
// PRE: Storage is initialized
// POST: Admin account created if the accounts collection is empty
func ExecuteSeedAdmin(ctx context.Context, deps CreateAccountDeps, email, password string) error {
	existing, err := deps.Accounts.Read(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil // Accounts already exist, skip seeding
	}

	_, err = ExecuteCreateAccount(ctx, CreateAccountInput{
		Email:    email,
		Password: password,
		Role:     account.RoleAdmin,
	}, deps)
	if err != nil {
		return err
	}

	slog.Info("auth_event", "event", "admin_seeded", "email", email)
	return nil
}

package orchestrators

import (
	"context"
	"log/slog"

	"komunitas/internal/domain/audit"
	"komunitas/internal/domain/cashflow"
)

// CashflowDeps holds dependencies for the cashflow orchestrators.
type CashflowDeps struct {
	Cashflow Updater[cashflow.Item]
	AuditDeps
}

func cashflowID(it cashflow.Item) string { return it.ID }

// CreateCashflowInput carries input for the create cashflow orchestrator.
type CreateCashflowInput struct {
	Draft cashflow.Draft
	Actor string
}

// ExecuteCreateCashflow records a new income or expense at the head of the ledger.
// PRE: GenerateID returns a unique id
// POST: Item prepended with a fresh ID and UTC CreatedAt
func ExecuteCreateCashflow(ctx context.Context, input CreateCashflowInput, deps CashflowDeps) (cashflow.Item, error) {
	if err := input.Draft.Validate(); err != nil {
		return cashflow.Item{}, err
	}

	it := cashflow.Item{ID: deps.GenerateID(), CreatedAt: deps.now()}
	it.Apply(input.Draft)

	err := deps.Cashflow.Update(ctx, func(items []cashflow.Item) ([]cashflow.Item, bool, error) {
		return prepend(items, it), true, nil
	})
	if err != nil {
		return cashflow.Item{}, err
	}

	deps.record(ctx, deps.event(audit.CollectionCashflow, audit.ActionCreate, it.ID, input.Actor).WithDescription(it.Title))
	slog.Info("cashflow_event", "event", "cashflow_created", "item_id", it.ID, "type", it.Type, "amount", it.Amount)
	return it, nil
}

// UpdateCashflowInput carries input for the update cashflow orchestrator.
type UpdateCashflowInput struct {
	ID    string
	Draft cashflow.Draft
	Actor string
}

// ExecuteUpdateCashflow replaces every mutable field of an existing item.
// POST: Returns cashflow.ErrNotFound without writing when ID is absent
func ExecuteUpdateCashflow(ctx context.Context, input UpdateCashflowInput, deps CashflowDeps) (cashflow.Item, error) {
	if err := input.Draft.Validate(); err != nil {
		return cashflow.Item{}, err
	}

	var updated cashflow.Item
	err := deps.Cashflow.Update(ctx, func(items []cashflow.Item) ([]cashflow.Item, bool, error) {
		i := indexOf(items, input.ID, cashflowID)
		if i < 0 {
			return nil, false, cashflow.ErrNotFound
		}
		items[i].Apply(input.Draft)
		updated = items[i]
		return items, true, nil
	})
	if err != nil {
		return cashflow.Item{}, err
	}

	deps.record(ctx, deps.event(audit.CollectionCashflow, audit.ActionUpdate, updated.ID, input.Actor).WithDescription(updated.Title))
	slog.Info("cashflow_event", "event", "cashflow_updated", "item_id", updated.ID, "type", updated.Type, "amount", updated.Amount)
	return updated, nil
}

// DeleteCashflowInput carries input for the delete cashflow orchestrator.
type DeleteCashflowInput struct {
	ID    string
	Actor string
}

// ExecuteDeleteCashflow removes an item from the ledger.
// POST: Absent IDs are a no-op
func ExecuteDeleteCashflow(ctx context.Context, input DeleteCashflowInput, deps CashflowDeps) (deleted bool, err error) {
	err = deps.Cashflow.Update(ctx, func(items []cashflow.Item) ([]cashflow.Item, bool, error) {
		i := indexOf(items, input.ID, cashflowID)
		if i < 0 {
			return nil, false, nil
		}
		deleted = true
		return without(items, i), true, nil
	})
	if err != nil || !deleted {
		return false, err
	}

	deps.record(ctx, deps.event(audit.CollectionCashflow, audit.ActionDelete, input.ID, input.Actor))
	slog.Info("cashflow_event", "event", "cashflow_deleted", "item_id", input.ID)
	return true, nil
}

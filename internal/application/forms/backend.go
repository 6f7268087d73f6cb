package forms

import (
	"context"

	"komunitas/internal/application/orchestrators"
	"komunitas/internal/application/projections"
	"komunitas/internal/domain/activity"
	"komunitas/internal/domain/cashflow"
)

// OrchestratorBackend commits forms through the mutation handlers.
type OrchestratorBackend struct {
	Activity orchestrators.ActivityDeps
	Cashflow orchestrators.CashflowDeps
}

// LoadActivity implements Backend.
func (b OrchestratorBackend) LoadActivity(ctx context.Context, id string) (activity.Activity, error) {
	return projections.QueryGetActivity(ctx, id, projections.GetActivityDeps{Activities: b.Activity.Activities})
}

// LoadCashflow implements Backend.
func (b OrchestratorBackend) LoadCashflow(ctx context.Context, id string) (cashflow.Item, error) {
	return projections.QueryGetCashflowItem(ctx, id, projections.CashflowListDeps{Cashflow: b.Cashflow.Cashflow})
}

// SubmitActivity implements Backend.
func (b OrchestratorBackend) SubmitActivity(ctx context.Context, targetID string, d activity.Draft, actor string) (string, error) {
	if targetID == "" {
		a, err := orchestrators.ExecuteCreateActivity(ctx, orchestrators.CreateActivityInput{Draft: d, Actor: actor}, b.Activity)
		return a.ID, err
	}
	a, err := orchestrators.ExecuteUpdateActivity(ctx, orchestrators.UpdateActivityInput{ID: targetID, Draft: d, Actor: actor}, b.Activity)
	return a.ID, err
}

// SubmitCashflow implements Backend.
func (b OrchestratorBackend) SubmitCashflow(ctx context.Context, targetID string, d cashflow.Draft, actor string) (string, error) {
	if targetID == "" {
		it, err := orchestrators.ExecuteCreateCashflow(ctx, orchestrators.CreateCashflowInput{Draft: d, Actor: actor}, b.Cashflow)
		return it.ID, err
	}
	it, err := orchestrators.ExecuteUpdateCashflow(ctx, orchestrators.UpdateCashflowInput{ID: targetID, Draft: d, Actor: actor}, b.Cashflow)
	return it.ID, err
}

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	emailAdapter "komunitas/internal/adapters/email"
	"komunitas/internal/adapters/storage/collection"
	"komunitas/internal/adapters/storage/slot"
	"komunitas/internal/application/orchestrators"
	"komunitas/internal/domain/review"
)

func init() {
	color.NoColor = true
}

type fixture struct {
	stores   *collection.Stores
	sender   *emailAdapter.NoopSender
	out      *bytes.Buffer
	opened   int
	released int
}

func newFixture() *fixture {
	return &fixture{
		stores: collection.NewStores(slot.NewMemoryStore()),
		sender: emailAdapter.NewNoopSender(),
		out:    &bytes.Buffer{},
	}
}

// open implements OpenFunc over the fixture's in-memory stores.
// PRE: none
// POST: every call is counted; release is counted when invoked
func (f *fixture) open(string) (*App, func() error, error) {
	f.opened++
	n := 0
	return &App{
		Stores: f.stores,
		Notify: orchestrators.NotifyDeps{EmailSender: f.sender, FromAddress: "noreply@komunitas.id"},
		GenerateID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
		Now: func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) },
		Out: f.out,
	}, func() error { f.released++; return nil }, nil
}

func (f *fixture) run(t *testing.T, args ...string) error {
	t.Helper()
	f.out.Reset()
	return Execute(context.Background(), f.open, args)
}

func TestFormatIDR(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "Rp 0"},
		{250000, "Rp 250.000"},
		{14500000, "Rp 14.500.000"},
	}
	for _, tt := range tests {
		if got := FormatIDR(tt.amount); got != tt.want {
			t.Errorf("FormatIDR(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestCashflowList_TotalsAndPaging(t *testing.T) {
	f := newFixture()
	if err := f.run(t, "cashflow", "list", "--type", "expense", "--sort", "amount", "--dir", "desc"); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := f.out.String()
	if !strings.Contains(out, "Rp 3.000.000") || !strings.Contains(out, "Rp 8.100.000") {
		t.Errorf("output missing amounts or balance:\n%s", out)
	}
	if strings.Index(out, "cf-4") > strings.Index(out, "cf-2") {
		t.Errorf("cf-4 should sort before cf-2:\n%s", out)
	}
	if !strings.Contains(out, "rows 1-3 of 3") {
		t.Errorf("footer missing:\n%s", out)
	}
	if f.opened != 1 || f.released != 1 {
		t.Errorf("opened %d released %d", f.opened, f.released)
	}
}

func TestActivitiesList_Filters(t *testing.T) {
	f := newFixture()
	if err := f.run(t, "activities", "list", "--status", "completed", "-q", "yatim"); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := f.out.String()
	if !strings.Contains(out, "act-2") || strings.Contains(out, "act-3") {
		t.Errorf("filtered list:\n%s", out)
	}
}

func TestApproveDonation_NotifiesOnce(t *testing.T) {
	f := newFixture()
	if err := f.run(t, "approve", "donation", "don-1"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := f.run(t, "approve", "donation", "don-1"); err != nil {
		t.Fatalf("repeat approve: %v", err)
	}
	if !strings.Contains(f.out.String(), "already approved") {
		t.Errorf("repeat output = %q", f.out.String())
	}
	if f.sender.Sent() != 1 {
		t.Errorf("sent %d notices, want 1", f.sender.Sent())
	}

	err := f.run(t, "reject", "donation", "don-1")
	if !errors.Is(err, review.ErrAlreadyResolved) {
		t.Errorf("flip err = %v", err)
	}

	audit, _ := f.stores.AuditLog.Read(context.Background())
	if len(audit) != 1 || audit[0].Actor != "komunitasctl" {
		t.Errorf("audit = %+v", audit)
	}
}

func TestApproveSubmission_CreatesRecord(t *testing.T) {
	f := newFixture()
	if err := f.run(t, "approve", "submission", "sub-3", "--actor", "bendahara"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !strings.Contains(f.out.String(), "created cashflow") {
		t.Errorf("output = %q", f.out.String())
	}
	items, _ := f.stores.Cashflow.Read(context.Background())
	if len(items) != 7 || items[0].Amount != 2500000 {
		t.Errorf("cashflow after approval = %d items, first %+v", len(items), items[0])
	}
}

func TestReset_RequiresConfirmation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	if err := f.stores.Activities.Write(ctx, nil); err != nil {
		t.Fatal(err)
	}

	if err := f.run(t, "reset"); !errors.Is(err, errConfirmReset) {
		t.Fatalf("reset without --yes err = %v", err)
	}
	if err := f.run(t, "reset", "--yes"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	all, _ := f.stores.Activities.Read(ctx)
	if len(all) != 6 {
		t.Errorf("activities after reset = %d, want the 6 defaults", len(all))
	}
}

func TestGroupCommand_DoesNotOpen(t *testing.T) {
	f := newFixture()
	if err := f.run(t, "cashflow"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if f.opened != 0 {
		t.Errorf("help for a group opened the store %d times", f.opened)
	}
}

func TestDashboard(t *testing.T) {
	f := newFixture()
	if err := f.run(t, "dashboard"); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := f.out.String()
	for _, want := range []string{"Active activities", "Rp 14.500.000", "Bagi-bagi Takjil Ramadhan"} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard missing %q:\n%s", want, out)
		}
	}
}

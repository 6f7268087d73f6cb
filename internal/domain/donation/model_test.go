package donation_test

import (
	"testing"
	"time"

	"komunitas/internal/domain/donation"
	"komunitas/internal/domain/review"
)

// TestDraft_Validate tests validation of donation drafts.
func TestDraft_Validate(t *testing.T) {
	tests := []struct {
		name    string
		draft   donation.Draft
		wantErr error
	}{
		{
			name:  "valid pledge",
			draft: donation.Draft{Name: "Ahmad Fauzi", Email: "ahmad@mail.com", Amount: 250000},
		},
		{
			name:    "empty name",
			draft:   donation.Draft{Email: "a@b.c"},
			wantErr: donation.ErrEmptyName,
		},
		{
			name:    "email without at sign",
			draft:   donation.Draft{Name: "A", Email: "ahmad.mail.com"},
			wantErr: donation.ErrInvalidEmail,
		},
		{
			name:    "negative amount",
			draft:   donation.Draft{Name: "A", Email: "a@b.c", Amount: -5},
			wantErr: donation.ErrNegativeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.draft.Validate(); err != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewRequest_StartsPending(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	r := donation.NewRequest("d-1", donation.Draft{Name: " Siti ", Email: "siti@mail.com", Amount: 10}, now)
	if r.Status != review.StatusPending {
		t.Errorf("Status = %q, want pending", r.Status)
	}
	if r.Name != "Siti" {
		t.Errorf("Name = %q, want trimmed", r.Name)
	}
	if !r.CreatedAt.Equal(now) || r.ID != "d-1" {
		t.Errorf("identity = (%q, %v)", r.ID, r.CreatedAt)
	}
}

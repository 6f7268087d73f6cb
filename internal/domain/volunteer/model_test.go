package volunteer_test

import (
	"strings"
	"testing"
	"time"

	"komunitas/internal/domain/review"
	"komunitas/internal/domain/volunteer"
)

// TestDraft_Validate tests validation of volunteer drafts.
func TestDraft_Validate(t *testing.T) {
	tests := []struct {
		name    string
		draft   volunteer.Draft
		wantErr error
	}{
		{
			name:  "valid applicant",
			draft: volunteer.Draft{Name: "Andi", Email: "andi@mail.com", Skills: []string{"Logistik"}},
		},
		{
			name:    "empty name",
			draft:   volunteer.Draft{Email: "andi@mail.com"},
			wantErr: volunteer.ErrEmptyName,
		},
		{
			name:    "skill too long",
			draft:   volunteer.Draft{Name: "Andi", Email: "andi@mail.com", Skills: []string{strings.Repeat("x", 51)}},
			wantErr: volunteer.ErrSkillTooLong,
		},
		{
			name:    "too many skills",
			draft:   volunteer.Draft{Name: "Andi", Email: "andi@mail.com", Skills: make([]string, 21)},
			wantErr: volunteer.ErrTooManySkills,
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

func TestNewRequest_KeepsSkillOrder(t *testing.T) {
	r := volunteer.NewRequest("v-1", volunteer.Draft{
		Name:   "Andi",
		Email:  "andi@mail.com",
		Skills: []string{"Event", " ", "Logistik "},
	}, time.Now())

	if r.Status != review.StatusPending {
		t.Errorf("Status = %q, want pending", r.Status)
	}
	if len(r.Skills) != 2 || r.Skills[0] != "Event" || r.Skills[1] != "Logistik" {
		t.Errorf("Skills = %v, want [Event Logistik]", r.Skills)
	}
}

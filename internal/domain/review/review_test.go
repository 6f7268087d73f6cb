package review_test

import (
	"testing"

	"komunitas/internal/domain/review"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name        string
		current     review.Status
		next        review.Status
		wantChanged bool
		wantErr     error
	}{
		{"pending to approved", review.StatusPending, review.StatusApproved, true, nil},
		{"pending to rejected", review.StatusPending, review.StatusRejected, true, nil},
		{"approved repeated is a no-op", review.StatusApproved, review.StatusApproved, false, nil},
		{"rejected repeated is a no-op", review.StatusRejected, review.StatusRejected, false, nil},
		{"pending repeated is a no-op", review.StatusPending, review.StatusPending, false, nil},
		{"approved to rejected refused", review.StatusApproved, review.StatusRejected, false, review.ErrAlreadyResolved},
		{"rejected to pending refused", review.StatusRejected, review.StatusPending, false, review.ErrAlreadyResolved},
		{"unknown target", review.StatusPending, "archived", false, review.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed, err := review.Transition(tt.current, tt.next)
			if err != tt.wantErr {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
		})
	}
}

func TestCounts_Add(t *testing.T) {
	var c review.Counts
	for _, s := range []review.Status{review.StatusPending, review.StatusPending, review.StatusApproved, "bogus"} {
		c.Add(s)
	}
	if c.Pending != 2 || c.Approved != 1 || c.Rejected != 0 {
		t.Errorf("Counts = %+v", c)
	}
}

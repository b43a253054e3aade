package errors

import (
	stdErrors "errors"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"not found", ErrNotFound},
		{"invalid task", ErrInvalidTask},
		{"empty response", ErrEmptyResponse},
		{"insufficient balance", ErrInsufficientBalance},
		{"not pending", ErrNotPending},
		{"below minimum", ErrBelowMinimum},
		{"no payout destination", ErrNoPayoutDestination},
		{"invalid amount", ErrInvalidAmount},
		{"not member", ErrNotMember},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !stdErrors.Is(tc.err, tc.err) {
				t.Fatalf("expected error to match itself: %v", tc.err)
			}
		})
	}
}

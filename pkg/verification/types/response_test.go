package types

import (
	"testing"
	"time"
)

func TestReviewAssignmentIsLive(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		assignment *ReviewAssignment
		want       bool
	}{
		{
			name:       "nil assignment",
			assignment: nil,
			want:       false,
		},
		{
			name: "assignment in the future",
			assignment: &ReviewAssignment{
				AssignedTo: "reviewer1",
				ExpiresAt:  now.Add(5 * time.Minute),
			},
			want: true,
		},
		{
			name: "expired assignment",
			assignment: &ReviewAssignment{
				AssignedTo: "reviewer1",
				ExpiresAt:  now.Add(-time.Second),
			},
			want: false,
		},
		{
			name: "expiry exactly now",
			assignment: &ReviewAssignment{
				AssignedTo: "reviewer1",
				ExpiresAt:  now,
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.assignment.IsLive(now); got != tt.want {
				t.Errorf("IsLive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsValidInterviewMode(t *testing.T) {
	tests := []struct {
		mode string
		want bool
	}{
		{mode: INTERVIEW_MODE_CAPI, want: true},
		{mode: INTERVIEW_MODE_CATI, want: true},
		{mode: INTERVIEW_MODE_ONLINE, want: true},
		{mode: "CAPI", want: false},
		{mode: "", want: false},
		{mode: "phone", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			if got := IsValidInterviewMode(tt.mode); got != tt.want {
				t.Errorf("IsValidInterviewMode(%q) = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestIsValidRejectionReason(t *testing.T) {
	tests := []struct {
		reason string
		want   bool
	}{
		{reason: REJECTION_REASON_MANUAL, want: true},
		{reason: REJECTION_REASON_DUPLICATE, want: true},
		{reason: REJECTION_REASON_QUOTA_MET, want: true},
		{reason: REJECTION_REASON_INVALID_DATA, want: true},
		{reason: "", want: false},
		{reason: "other", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			if got := IsValidRejectionReason(tt.reason); got != tt.want {
				t.Errorf("IsValidRejectionReason(%q) = %v, want %v", tt.reason, got, tt.want)
			}
		})
	}
}

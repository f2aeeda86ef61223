package jwthandling

import (
	"testing"
	"time"
)

func TestReviewerTokenRoundTrip(t *testing.T) {
	token, err := GenerateNewReviewerToken(time.Minute, "reviewer-1", "testinstance", true, "test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, valid, err := ValidateReviewerToken(token, "test-key")
	if err != nil || !valid {
		t.Fatalf("expected valid token, valid: %t, err: %v", valid, err)
	}
	if claims.Subject != "reviewer-1" || claims.InstanceID != "testinstance" || !claims.IsAdmin {
		t.Errorf("unexpected claims: %+v", claims)
	}

	if _, valid, _ := ValidateReviewerToken(token, "other-key"); valid {
		t.Error("token signed with a different key must not validate")
	}
}

func TestReviewerTokenExpired(t *testing.T) {
	token, err := GenerateNewReviewerToken(-time.Minute, "reviewer-1", "testinstance", false, "test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, valid, _ := ValidateReviewerToken(token, "test-key"); valid {
		t.Error("expired token must not validate")
	}
}

func TestInterviewerTokenRoundTrip(t *testing.T) {
	token, err := GenerateNewInterviewerToken(time.Minute, "interviewer-1", "testinstance", "cati", "test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, valid, err := ValidateInterviewerToken(token, "test-key")
	if err != nil || !valid {
		t.Fatalf("expected valid token, valid: %t, err: %v", valid, err)
	}
	if claims.Subject != "interviewer-1" || claims.InstanceID != "testinstance" || claims.InterviewMode != "cati" {
		t.Errorf("unexpected claims: %+v", claims)
	}

	if _, valid, _ := ValidateInterviewerToken(token, "other-key"); valid {
		t.Error("token signed with a different key must not validate")
	}
}

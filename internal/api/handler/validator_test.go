package handler

import (
	"strings"
	"testing"
)

type validatedRequest struct {
	Email string `json:"email" validate:"required,email"`
	Holes int    `json:"holes" validate:"omitempty,min=1,max=90"`
	Role  string `json:"role" validate:"omitempty,oneof=admin manager staff viewer"`
}

func TestValidateCollectsEveryFailure(t *testing.T) {
	err := NewValidator().Validate(&validatedRequest{
		Email: "not-an-email",
		Holes: 120,
		Role:  "root",
	})
	if err == nil {
		t.Fatal("expected validation failure")
	}
	msg := err.Error()
	for _, want := range []string{
		"email must be a valid email",
		"holes must be at most 90",
		"role must be one of: admin manager staff viewer",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}
}

func TestValidateRequiredAndMin(t *testing.T) {
	err := NewValidator().Validate(&validatedRequest{Email: "a@b.com", Holes: -3})
	if err == nil || !strings.Contains(err.Error(), "holes must be at least 1") {
		t.Fatalf("min message missing: %v", err)
	}

	err = NewValidator().Validate(&validatedRequest{})
	if err == nil || !strings.Contains(err.Error(), "email is required") {
		t.Fatalf("required message missing: %v", err)
	}
}

func TestValidateAcceptsValidPayload(t *testing.T) {
	if err := NewValidator().Validate(&validatedRequest{Email: "a@b.com", Holes: 18, Role: "staff"}); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
}

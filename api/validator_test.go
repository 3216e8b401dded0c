package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/apperr"
)

func TestValidatorKeepsFirstMessagePerField(t *testing.T) {
	v := newValidator()
	v.checkEmail("")
	if got := v.errors["email"]; got != "must be provided" {
		t.Fatalf("expected first failure to stick, got %q", got)
	}
}

func TestValidatorPassword(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"", false},
		{"12345", false},
		{"123456", true},
		{strings.Repeat("p", 200), true},
	}
	for _, tt := range tests {
		v := newValidator()
		v.checkPassword(tt.password)
		if v.hasErrors() == tt.valid {
			t.Errorf("password of %d bytes: expected valid=%v, got errors %v", len(tt.password), tt.valid, v.errors)
		}
	}
}

func TestValidatorRoleAndEmail(t *testing.T) {
	v := newValidator()
	v.checkEmail("a@x.com")
	v.checkRole("")
	v.checkRole("admin")
	if v.hasErrors() {
		t.Fatalf("unexpected errors %v", v.errors)
	}

	v.checkRole("superuser")
	v.checkEmail("not-an-email")
	if len(v.errors) != 2 {
		t.Fatalf("expected role and email errors, got %v", v.errors)
	}
}

func TestValidatorToError(t *testing.T) {
	v := newValidator()
	title := "t"
	v.checkProvided(&title, "title")
	v.checkProvided(nil, "description")

	err := v.toError()
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	e, ok := apperr.As(err)
	if !ok {
		t.Fatal("expected *apperr.Error")
	}
	if len(e.Fields) != 1 || e.Fields["description"] != "must be provided" {
		t.Fatalf("unexpected fields %v", e.Fields)
	}
}

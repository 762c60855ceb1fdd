package services

import (
	"context"
	"errors"
	"testing"

	"github.com/baharkarakas/imagify-backend/internal/apperr"
)

func TestUsers_RegisterStartingCredits(t *testing.T) {
	h := setupServices(t)

	u, tok, err := h.users.Register(context.Background(), "Ann", " A@X.com ", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.CreditBalance != 5 {
		t.Errorf("starting balance %d, want 5", u.CreditBalance)
	}
	if u.Email != "a@x.com" {
		t.Errorf("email not normalized: %q", u.Email)
	}
	uid, err := h.tm.Verify(tok)
	if err != nil || uid != u.ID {
		t.Errorf("token resolves to %q, %v", uid, err)
	}
}

func TestUsers_RegisterDuplicate(t *testing.T) {
	h := setupServices(t)
	ctx := context.Background()
	if _, _, err := h.users.Register(ctx, "Ann", "a@x.com", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := h.users.Register(ctx, "Bob", "A@x.com", "pw2"); !errors.Is(err, apperr.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUsers_RegisterValidation(t *testing.T) {
	h := setupServices(t)
	ctx := context.Background()

	if _, _, err := h.users.Register(ctx, "", "a@x.com", "pw"); !errors.Is(err, apperr.ErrMissingFields) {
		t.Errorf("expected ErrMissingFields, got %v", err)
	}
	if _, _, err := h.users.Register(ctx, "Ann", "not-an-email", "pw"); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestUsers_Login(t *testing.T) {
	h := setupServices(t)
	ctx := context.Background()
	reg, _, _ := h.users.Register(ctx, "Ann", "a@x.com", "pw")

	u, tok, err := h.users.Login(ctx, "a@x.com", "pw")
	if err != nil || u.ID != reg.ID || tok == "" {
		t.Fatalf("login: %+v %v", u, err)
	}
	if _, _, err := h.users.Login(ctx, "a@x.com", "bad"); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := h.users.Login(ctx, "nobody@x.com", "pw"); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

package service

import (
	"context"
	"testing"

	"pricelist/internal/repository"
)

func newAccounts(t *testing.T) *AccountService {
	t.Helper()
	return NewAccountService(repository.NewMemoryAccounts(repository.NewMemoryStore()), "ADMIN123")
}

func TestRegister_AdminCode(t *testing.T) {
	ctx := context.Background()
	as := newAccounts(t)

	a, err := as.Register(ctx, "alice", "pw", "ADMIN123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !a.IsAdmin {
		t.Fatalf("expected admin")
	}

	b, err := as.Register(ctx, "bob", "pw", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if b.IsAdmin {
		t.Fatalf("expected regular user")
	}

	c, err := as.Register(ctx, "carol", "pw", "WRONG")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if c.IsAdmin {
		t.Fatalf("wrong code must not grant admin")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	as := newAccounts(t)

	if _, err := as.Register(ctx, "bob", "pw", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := as.Register(ctx, "bob", "other", ""); err != ErrUsernameTaken {
		t.Fatalf("expected username taken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	as := newAccounts(t)

	if _, err := as.Register(ctx, "bob", "pw", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	a, err := as.Login(ctx, "bob", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if a.Username != "bob" {
		t.Fatalf("wrong account: %+v", a)
	}

	if _, err := as.Login(ctx, "bob", "nope"); err != ErrUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := as.Login(ctx, "nobody", "pw"); err != ErrUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

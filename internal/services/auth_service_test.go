package services_test

import (
	"errors"
	"testing"

	"bazaar/internal/repos"
	"bazaar/internal/services"
)

func TestRegisterAndResolve(t *testing.T) {
	db := memdb(t)
	auth := &services.AuthService{Tokens: repos.NewTokenRepo(db), Accounts: repos.NewAccountRepo(db)}

	const addr = "0xabc123abc123abc123abc123abc123abc123abcd"
	token, err := auth.Register(addr)
	if err != nil {
		t.Fatal(err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	got, err := auth.Resolve(token)
	if err != nil {
		t.Fatal(err)
	}
	if got != addr {
		t.Fatalf("want %s, got %s", addr, got)
	}

	// registering creates the account with zero balance
	b, err := repos.NewAccountRepo(db).Balance(addr)
	if err != nil {
		t.Fatal(err)
	}
	if b != 0 {
		t.Fatalf("new account must start at zero, got %d", b)
	}
}

func TestResolveRejectsGarbage(t *testing.T) {
	db := memdb(t)
	auth := &services.AuthService{Tokens: repos.NewTokenRepo(db), Accounts: repos.NewAccountRepo(db)}

	for _, tok := range []string{"", "no-dot", "unknown.secret", "tok-seller.wrong-secret"} {
		if _, err := auth.Resolve(tok); !errors.Is(err, services.ErrBadToken) {
			t.Fatalf("token %q: want ErrBadToken, got %v", tok, err)
		}
	}

	// seeded dev token resolves
	addr, err := auth.Resolve("tok-seller.dev-seller-secret")
	if err != nil {
		t.Fatal(err)
	}
	if addr != repos.SeedSeller {
		t.Fatalf("want seed seller, got %s", addr)
	}
}

func TestRevoke(t *testing.T) {
	db := memdb(t)
	auth := &services.AuthService{Tokens: repos.NewTokenRepo(db), Accounts: repos.NewAccountRepo(db)}

	token, err := auth.Register("0xdef456def456def456def456def456def456def0")
	if err != nil {
		t.Fatal(err)
	}
	if err := auth.Revoke(token); err != nil {
		t.Fatal(err)
	}
	if _, err := auth.Resolve(token); !errors.Is(err, services.ErrBadToken) {
		t.Fatalf("revoked token must not resolve, got %v", err)
	}
}

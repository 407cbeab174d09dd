package services

import (
	"errors"
	"strings"

	"bazaar/internal/repos"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrBadToken = errors.New("invalid or unknown token")

// AuthService maps bearer tokens to already-authenticated principals
// (wallet addresses). The ledger itself never sees tokens, only addresses.
// Bearer format is "<id>.<secret>"; only a bcrypt hash of the secret is
// stored.
type AuthService struct {
	Tokens   *repos.TokenRepo
	Accounts *repos.AccountRepo
}

// Register creates the account row for address (zero balance if new) and
// issues a fresh bearer token for it.
func (s *AuthService) Register(address string) (string, error) {
	if err := s.Accounts.Ensure(address); err != nil {
		return "", err
	}
	id := uuid.NewString()
	secret := uuid.NewString()
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	if err := s.Tokens.Insert(id, address, string(h)); err != nil {
		return "", err
	}
	return id + "." + secret, nil
}

// Resolve returns the principal behind a bearer token.
func (s *AuthService) Resolve(token string) (string, error) {
	id, secret, ok := strings.Cut(token, ".")
	if !ok || id == "" || secret == "" {
		return "", ErrBadToken
	}
	row, err := s.Tokens.Get(id)
	if err != nil {
		return "", ErrBadToken
	}
	if bcrypt.CompareHashAndPassword([]byte(row.SecretHash), []byte(secret)) != nil {
		return "", ErrBadToken
	}
	return row.Address, nil
}

// Revoke invalidates a bearer token.
func (s *AuthService) Revoke(token string) error {
	id, _, ok := strings.Cut(token, ".")
	if !ok {
		return ErrBadToken
	}
	return s.Tokens.Revoke(id)
}

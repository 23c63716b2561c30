// Package auth authenticates accounts and tracks the current account across
// requests with a signed session cookie.
package auth

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"todo-web/internal/model"
	"todo-web/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrMissingCredentials = errors.New("username and password are required")
	ErrCredentialsTooLong = errors.New("username or password is too long")
)

type AccountStore interface {
	AccountByUsername(ctx context.Context, username string) (model.Account, error)
	CreateAccount(ctx context.Context, username, password string) (model.Account, error)
}

type Service struct {
	accounts AccountStore
}

func NewService(accounts AccountStore) *Service {
	return &Service{accounts: accounts}
}

// Login succeeds iff the username exists and the stored password matches exactly.
func (s *Service) Login(ctx context.Context, username, password string) (model.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.Account{}, ErrInvalidCredentials
	}
	a, err := s.accounts.AccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Account{}, ErrInvalidCredentials
		}
		return model.Account{}, err
	}
	if a.Password != password {
		return model.Account{}, ErrInvalidCredentials
	}
	return a, nil
}

// Signup creates an account. It does not establish a session.
func (s *Service) Signup(ctx context.Context, username, password string) (model.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.Account{}, ErrMissingCredentials
	}
	if utf8.RuneCountInString(username) > model.MaxUsernameLen || utf8.RuneCountInString(password) > model.MaxPasswordLen {
		return model.Account{}, ErrCredentialsTooLong
	}

	if _, err := s.accounts.AccountByUsername(ctx, username); err == nil {
		return model.Account{}, ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return model.Account{}, err
	}

	a, err := s.accounts.CreateAccount(ctx, username, password)
	if errors.Is(err, store.ErrUsernameTaken) {
		return model.Account{}, ErrUsernameTaken
	}
	return a, err
}

// Package auth implements registration, login and logout, and the HTTP
// handlers in front of them.
package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"recipebox/accounts"
	"recipebox/apperr"
	"recipebox/models"
)

// Session is what a successful login hands back to the client. Token is empty
// when the server runs with the legacy email header.
type Session struct {
	Email     string    `json:"email"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
}

type Service struct {
	store  accounts.Store
	tokens *Tokens
}

// NewService wires the account service. tokens may be nil, in which case
// Login returns no bearer token.
func NewService(store accounts.Store, tokens *Tokens) *Service {
	return &Service{store: store, tokens: tokens}
}

// Register creates an account and returns its email.
func (s *Service) Register(ctx context.Context, email, password, fullName string) (string, error) {
	email = accounts.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", apperr.New(apperr.ErrBadRequest, "Email and password are required")
	}

	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return "", apperr.New(apperr.ErrConflict, "Email already registered")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return "", err
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return "", err
	}
	acct, err := s.store.Create(ctx, email, hashed)
	if errors.Is(err, apperr.ErrConflict) {
		return "", apperr.New(apperr.ErrConflict, "Email already registered")
	}
	if err != nil {
		return "", err
	}

	if name := strings.TrimSpace(fullName); name != "" {
		if _, err := s.store.UpdateByID(ctx, acct.ID, models.AccountUpdate{DisplayName: &name}); err != nil {
			log.Printf("Failed to store display name for %s: %v", acct.Email, err)
		}
	}

	log.Printf("Registered user %s", acct.Email)
	return acct.Email, nil
}

// Login checks the password and returns the identifier the client presents on
// later requests. No server-side session is created.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = accounts.NormalizeEmail(email)
	acct, err := s.store.FindByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.New(apperr.ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, err
	}

	ok, legacy := CheckPassword(acct.Password, password)
	if !ok {
		return nil, apperr.New(apperr.ErrInvalidCredential, "Wrong password")
	}
	if legacy {
		s.upgradePassword(ctx, acct, password)
	}

	sess := &Session{Email: acct.Email}
	if s.tokens != nil {
		sess.Token, sess.ExpiresAt, err = s.tokens.Issue(acct.Email)
		if err != nil {
			return nil, err
		}
	}
	return sess, nil
}

func (s *Service) upgradePassword(ctx context.Context, acct *models.Account, password string) {
	hashed, err := HashPassword(password)
	if err == nil {
		err = s.store.SetPassword(ctx, acct.ID, hashed)
	}
	if err != nil {
		log.Printf("Failed to hash legacy password for %s: %v", acct.Email, err)
		return
	}
	log.Printf("Upgraded legacy password for %s", acct.Email)
}

// Logout always succeeds. The client discards its identifier; there is no
// server state to destroy.
func (s *Service) Logout(context.Context) error {
	return nil
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"recipebox/apperr"
	"recipebox/globals"
	"recipebox/models"
	"recipebox/utils"

	"github.com/julienschmidt/httprouter"
)

// AccountFinder is the slice of the account store the resolver needs.
type AccountFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
}

// TokenParser verifies a bearer token and returns the email it names.
type TokenParser interface {
	Parse(token string) (string, error)
}

// Resolver turns the identity a request presents into an account. With a
// TokenParser it reads "Authorization: Bearer <jwt>"; without one it trusts the
// X-User-Email header. Either way the failures are the same: missing
// identifier, invalid identifier, unknown user.
type Resolver struct {
	finder AccountFinder
	tokens TokenParser
}

func NewTokenResolver(finder AccountFinder, tokens TokenParser) *Resolver {
	return &Resolver{finder: finder, tokens: tokens}
}

func NewHeaderResolver(finder AccountFinder) *Resolver {
	return &Resolver{finder: finder}
}

// Identify extracts the asserted email without touching storage.
func (rv *Resolver) Identify(r *http.Request) (string, error) {
	if rv.tokens == nil {
		email := strings.TrimSpace(r.Header.Get(globals.IdentityHeader))
		if email == "" {
			return "", apperr.ErrMissingIdentifier
		}
		return email, nil
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", apperr.ErrMissingIdentifier
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", apperr.ErrInvalidToken
	}
	return rv.tokens.Parse(strings.TrimSpace(token))
}

// Resolve identifies the caller and loads the matching account.
func (rv *Resolver) Resolve(r *http.Request) (*models.Account, error) {
	email, err := rv.Identify(r)
	if err != nil {
		return nil, err
	}
	acct, err := rv.finder.FindByEmail(r.Context(), email)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrUnknownUser
	}
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// Authenticate rejects the request with 401 unless the caller resolves to an
// existing account, whose id and email are then stored on the context.
func (rv *Resolver) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		acct, err := rv.Resolve(r)
		if err != nil {
			utils.RespondWithError(w, err, "Unauthorized")
			return
		}
		ctx := utils.WithIdentity(r.Context(), acct.ID, acct.Email)
		next(w, r.WithContext(ctx), ps)
	}
}

// OptionalAuth records the asserted email when one is present and valid and
// never rejects the request.
func (rv *Resolver) OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if email, err := rv.Identify(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), globals.EmailKey, email))
		}
		next(w, r, ps)
	}
}

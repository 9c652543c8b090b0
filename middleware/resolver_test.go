package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipebox/accounts"
	"recipebox/apperr"
	"recipebox/auth"
	"recipebox/globals"
	"recipebox/models"
	"recipebox/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFinder records whether storage was consulted.
type countingFinder struct {
	store accounts.Store
	calls int
}

func (f *countingFinder) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	f.calls++
	return f.store.FindByEmail(ctx, email)
}

func setup(t *testing.T) (*countingFinder, *models.Account) {
	t.Helper()
	store := accounts.NewMemoryStore()
	acct, err := store.Create(context.Background(), "a@x.com", "h")
	require.NoError(t, err)
	return &countingFinder{store: store}, acct
}

func TestHeaderResolver(t *testing.T) {
	finder, acct := setup(t)
	rv := NewHeaderResolver(finder)

	r := httptest.NewRequest(http.MethodGet, "/saved", nil)
	_, err := rv.Resolve(r)
	assert.ErrorIs(t, err, apperr.ErrMissingIdentifier)
	assert.Zero(t, finder.calls)

	r.Header.Set(globals.IdentityHeader, "ghost@x.com")
	_, err = rv.Resolve(r)
	assert.ErrorIs(t, err, apperr.ErrUnknownUser)

	r.Header.Set(globals.IdentityHeader, "a@x.com")
	got, err := rv.Resolve(r)
	require.NoError(t, err)
	assert.Equal(t, acct.ID, got.ID)
}

func TestTokenResolver(t *testing.T) {
	finder, acct := setup(t)
	tokens := auth.NewTokens("k", time.Hour)
	rv := NewTokenResolver(finder, tokens)

	r := httptest.NewRequest(http.MethodGet, "/saved", nil)
	_, err := rv.Resolve(r)
	assert.ErrorIs(t, err, apperr.ErrMissingIdentifier)

	r.Header.Set(globals.IdentityHeader, "a@x.com")
	_, err = rv.Resolve(r)
	assert.ErrorIs(t, err, apperr.ErrMissingIdentifier, "plain email header is not accepted in token mode")

	r.Header.Set("Authorization", "Token abc")
	_, err = rv.Resolve(r)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)

	r.Header.Set("Authorization", "Bearer garbage")
	_, err = rv.Resolve(r)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
	assert.Zero(t, finder.calls)

	ghost, _, _ := tokens.Issue("ghost@x.com")
	r.Header.Set("Authorization", "Bearer "+ghost)
	_, err = rv.Resolve(r)
	assert.ErrorIs(t, err, apperr.ErrUnknownUser)

	good, _, _ := tokens.Issue("a@x.com")
	r.Header.Set("Authorization", "Bearer "+good)
	got, err := rv.Resolve(r)
	require.NoError(t, err)
	assert.Equal(t, acct.ID, got.ID)
}

func TestAuthenticate(t *testing.T) {
	finder, acct := setup(t)
	rv := NewHeaderResolver(finder)

	var seenID, seenEmail string
	h := rv.Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		seenID = utils.GetUserIDFromRequest(r)
		seenEmail = utils.GetEmailFromRequest(r)
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/saved", nil), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Unauthorized: Missing user identifier", body["message"])
	assert.Empty(t, seenID)

	r := httptest.NewRequest(http.MethodGet, "/saved", nil)
	r.Header.Set(globals.IdentityHeader, "a@x.com")
	rec = httptest.NewRecorder()
	h(rec, r, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, acct.ID, seenID)
	assert.Equal(t, "a@x.com", seenEmail)
}

func TestOptionalAuth(t *testing.T) {
	finder, _ := setup(t)
	rv := NewHeaderResolver(finder)

	var seen string
	h := rv.OptionalAuth(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		seen = utils.GetEmailFromRequest(r)
	})

	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/current-user", nil), nil)
	assert.Empty(t, seen)

	r := httptest.NewRequest(http.MethodGet, "/current-user", nil)
	r.Header.Set(globals.IdentityHeader, "someone@x.com")
	h(httptest.NewRecorder(), r, nil)
	assert.Equal(t, "someone@x.com", seen)
	assert.Zero(t, finder.calls)
}

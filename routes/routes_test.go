package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipebox/accounts"
	"recipebox/auth"
	"recipebox/filemgr"
	"recipebox/middleware"
	"recipebox/models"
	"recipebox/profile"
	"recipebox/rdx"
	"recipebox/recipes"
	"recipebox/saved"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct{}

func (stubSearcher) Search(context.Context, string) ([]models.RecipeSummary, error) {
	return []models.RecipeSummary{
		{ID: "p1", Title: "Cheese Pizza", Tags: []string{"cheese", "pizza"}},
		{ID: "p2", Title: "Veggie Bowl", Tags: []string{"veggie", "bowl"}},
	}, nil
}

type harness struct {
	srv   *httptest.Server
	store *accounts.MemoryStore
	token bool
}

func newHarness(t *testing.T, tokenMode, legacy bool) *harness {
	t.Helper()
	store := accounts.NewMemoryStore()
	cache := rdx.NewMemoryCache()
	dir := t.TempDir()

	var tokens *auth.Tokens
	resolver := middleware.NewHeaderResolver(store)
	if tokenMode {
		tokens = auth.NewTokens("test-secret", time.Hour)
		resolver = middleware.NewTokenResolver(store, tokens)
	}

	router := NewRouter(Deps{
		Auth:               auth.NewHandlers(auth.NewService(store, tokens)),
		Profile:            profile.NewHandlers(profile.NewService(store, filemgr.NewAvatars(filemgr.NewLocalStore(dir)), cache, time.Minute)),
		Saved:              saved.NewHandlers(saved.NewService(store, "https://r.test/%s")),
		Recipes:            recipes.NewHandlers(stubSearcher{}),
		Resolver:           resolver,
		UploadDir:          dir,
		LegacyProfileRoute: legacy,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &harness{srv: srv, store: store, token: tokenMode}
}

// call sends a JSON request; identity is the login token or email, depending on mode.
func (h *harness) call(t *testing.T, method, path, identity, body string) (int, map[string]any, string) {
	t.Helper()
	req, err := http.NewRequest(method, h.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if identity != "" {
		if h.token {
			req.Header.Set("Authorization", "Bearer "+identity)
		} else {
			req.Header.Set("X-User-Email", identity)
		}
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	var obj map[string]any
	_ = json.Unmarshal(raw, &obj)
	return resp.StatusCode, obj, string(raw)
}

func (h *harness) login(t *testing.T, email, password string) string {
	t.Helper()
	status, body, _ := h.call(t, http.MethodPost, "/login", "", `{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, status)
	if h.token {
		return body["token"].(string)
	}
	return body["email"].(string)
}

func TestRegisterTwice(t *testing.T) {
	h := newHarness(t, true, false)

	status, body, _ := h.call(t, http.MethodPost, "/register", "", `{"email":"a@x.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "User registered!", body["message"])

	status, body, _ = h.call(t, http.MethodPost, "/register", "", `{"email":"a@x.com","password":"other"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Email already registered", body["message"])
	assert.Equal(t, 1, h.store.Len())
}

func TestLoginFailures(t *testing.T) {
	h := newHarness(t, true, false)
	h.call(t, http.MethodPost, "/register", "", `{"email":"a@x.com","password":"secret"}`)

	status, body, _ := h.call(t, http.MethodPost, "/login", "", `{"email":"a@x.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Wrong password", body["message"])
	assert.Nil(t, body["token"])

	status, body, _ = h.call(t, http.MethodPost, "/login", "", `{"email":"b@x.com","password":"secret"}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User not found", body["message"])
}

func TestSaveRemoveScenario(t *testing.T) {
	for _, tokenMode := range []bool{true, false} {
		name := "header"
		if tokenMode {
			name = "token"
		}
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, tokenMode, false)

			status, _, _ := h.call(t, http.MethodPost, "/register", "", `{"email":"a@x.com","password":"secret"}`)
			require.Equal(t, http.StatusOK, status)

			status, body, _ := h.call(t, http.MethodPost, "/login", "", `{"email":"a@x.com","password":"secret"}`)
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, "a@x.com", body["email"])
			id := h.login(t, "a@x.com", "secret")

			save := `{"recipe":{"id":"r1","title":"Pizza","image":"/i.png"}}`
			status, _, raw := h.call(t, http.MethodPost, "/save", id, save)
			require.Equal(t, http.StatusOK, status)
			assert.JSONEq(t, `{"success":true,"savedRecipes":[{"id":"r1","title":"Pizza","image":"/i.png"}]}`, raw)

			status, _, raw = h.call(t, http.MethodPost, "/save", id, save)
			require.Equal(t, http.StatusOK, status)
			assert.JSONEq(t, `{"success":true,"savedRecipes":[{"id":"r1","title":"Pizza","image":"/i.png"}]}`, raw)

			_, _, raw = h.call(t, http.MethodGet, "/saved", id, "")
			assert.JSONEq(t, `[{"id":"r1","title":"Pizza","image":"/i.png"}]`, raw)

			status, _, raw = h.call(t, http.MethodDelete, "/saved", id, `{"recipeId":"nope"}`)
			require.Equal(t, http.StatusOK, status)
			assert.JSONEq(t, `{"success":true,"savedRecipes":[{"id":"r1","title":"Pizza","image":"/i.png"}]}`, raw)

			status, _, raw = h.call(t, http.MethodDelete, "/saved", id, `{"recipeId":"r1"}`)
			require.Equal(t, http.StatusOK, status)
			assert.JSONEq(t, `{"success":true,"savedRecipes":[]}`, raw)
		})
	}
}

func TestProtectedRoutesWithoutIdentity(t *testing.T) {
	h := newHarness(t, true, false)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/saved", ""},
		{http.MethodPost, "/save", `{"recipe":{"id":"r1"}}`},
		{http.MethodDelete, "/saved", `{"recipeId":"r1"}`},
		{http.MethodGet, "/profile", ""},
	} {
		status, body, _ := h.call(t, tc.method, tc.path, "", tc.body)
		assert.Equal(t, http.StatusUnauthorized, status, tc.path)
		assert.Equal(t, false, body["success"], tc.path)
		assert.Equal(t, "Unauthorized: Missing user identifier", body["message"], tc.path)
	}
}

func TestUnknownUserIdentity(t *testing.T) {
	h := newHarness(t, false, false)

	status, body, _ := h.call(t, http.MethodGet, "/saved", "ghost@x.com", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized: User not found", body["message"])
}

func TestInvalidToken(t *testing.T) {
	h := newHarness(t, true, false)

	status, body, _ := h.call(t, http.MethodGet, "/saved", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, false, body["success"])
}

func TestCurrentUser(t *testing.T) {
	h := newHarness(t, true, false)
	h.call(t, http.MethodPost, "/register", "", `{"email":"a@x.com","password":"secret"}`)
	token := h.login(t, "a@x.com", "secret")

	_, _, raw := h.call(t, http.MethodGet, "/current-user", "", "")
	assert.JSONEq(t, `{"email":null}`, raw)

	_, _, raw = h.call(t, http.MethodGet, "/current-user", token, "")
	assert.JSONEq(t, `{"email":"a@x.com"}`, raw)
}

func TestProfileAndLegacyRoute(t *testing.T) {
	h := newHarness(t, false, false)
	h.call(t, http.MethodPost, "/register", "", `{"email":"a@x.com","password":"secret"}`)

	_, _, raw := h.call(t, http.MethodGet, "/profile", "a@x.com", "")
	assert.JSONEq(t, `{"success":true,"fullName":"a@x.com","email":"a@x.com","avatar":"avatar.jpeg"}`, raw)

	status, _, _ := h.call(t, http.MethodGet, "/profile/a@x.com", "", "")
	assert.Equal(t, http.StatusNotFound, status)

	legacy := newHarness(t, false, true)
	legacy.call(t, http.MethodPost, "/register", "", `{"email":"a@x.com","password":"secret"}`)
	status, body, raw := legacy.call(t, http.MethodGet, "/profile/a@x.com", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, raw, "password")
}

func TestRecipesAndHealth(t *testing.T) {
	h := newHarness(t, true, false)

	_, body, _ := h.call(t, http.MethodGet, "/recipes?q=pizza", "", "")
	list := body["recipes"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "p1", list[0].(map[string]any)["id"])

	resp, err := http.Get(h.srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(h.srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recipebox/apperr"
	"recipebox/globals"
	"recipebox/models"
)

// APIError is a non-2xx answer from the server. It unwraps to the apperr kind
// matching the status so callers can use errors.Is. A 401 from /login is a
// rejected password, not a missing identity.
type APIError struct {
	Status  int
	Path    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		if strings.HasSuffix(e.Path, "/login") {
			return apperr.ErrInvalidCredential
		}
		return apperr.ErrUnauthorized
	case http.StatusNotFound:
		return apperr.ErrNotFound
	case http.StatusConflict:
		return apperr.ErrConflict
	case http.StatusBadRequest:
		return apperr.ErrBadRequest
	}
	return apperr.ErrUpstream
}

// LoginResult is the body of a successful POST /login.
type LoginResult struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// API is a typed client for the HTTP surface. A zero identity makes
// anonymous calls; As returns a copy that presents one.
type API struct {
	base  string
	http  *http.Client
	email string
	token string
}

func NewAPI(base string, hc *http.Client) *API {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &API{base: strings.TrimRight(base, "/"), http: hc}
}

// As returns a client identified by token when set, otherwise by the legacy
// email header.
func (a *API) As(email, token string) *API {
	c := *a
	c.email, c.token = email, token
	return &c
}

func (a *API) BaseURL() string { return a.base }

func (a *API) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.base+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	switch {
	case a.token != "":
		req.Header.Set("Authorization", "Bearer "+a.token)
	case a.email != "":
		req.Header.Set(globals.IdentityHeader, a.email)
	}
	return req, nil
}

func (a *API) do(req *http.Request, out any) error {
	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body)
		return &APIError{Status: resp.StatusCode, Path: req.URL.Path, Message: body.Message}
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if w, ok := out.(io.Writer); ok {
		_, err := io.Copy(w, resp.Body)
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func (a *API) sendJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body, contentType = bytes.NewReader(raw), "application/json"
	}
	req, err := a.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	return a.do(req, out)
}

func (a *API) Register(ctx context.Context, fullName, email, password string) (string, error) {
	var out struct {
		Email string `json:"email"`
	}
	err := a.sendJSON(ctx, http.MethodPost, "/register", map[string]string{
		"fullName": fullName,
		"email":    email,
		"password": password,
	}, &out)
	return out.Email, err
}

func (a *API) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	err := a.sendJSON(ctx, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	return out, err
}

func (a *API) Logout(ctx context.Context) error {
	return a.sendJSON(ctx, http.MethodPost, "/logout", nil, nil)
}

// CurrentUser returns the email the server recognises, or "" for anonymous.
func (a *API) CurrentUser(ctx context.Context) (string, error) {
	var out struct {
		Email *string `json:"email"`
	}
	if err := a.sendJSON(ctx, http.MethodGet, "/current-user", nil, &out); err != nil {
		return "", err
	}
	if out.Email == nil {
		return "", nil
	}
	return *out.Email, nil
}

func (a *API) Profile(ctx context.Context) (models.Profile, error) {
	var out models.Profile
	err := a.sendJSON(ctx, http.MethodGet, "/profile", nil, &out)
	return out, err
}

// PublicProfile calls the legacy unauthenticated profile route.
func (a *API) PublicProfile(ctx context.Context, email string) (*models.Account, error) {
	var out struct {
		User *models.Account `json:"user"`
	}
	err := a.sendJSON(ctx, http.MethodGet, "/profile/"+url.PathEscape(email), nil, &out)
	return out.User, err
}

// AvatarFile is an image to upload with UpdateProfile.
type AvatarFile struct {
	Name string
	Body io.Reader
}

// UpdateProfile sends the multipart profile form. A nil fullName or avatar
// leaves that field out.
func (a *API) UpdateProfile(ctx context.Context, fullName *string, avatar *AvatarFile) (*models.Account, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if fullName != nil {
		if err := mw.WriteField("fullName", *fullName); err != nil {
			return nil, err
		}
	}
	if avatar != nil {
		fw, err := mw.CreateFormFile("avatar", avatar.Name)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(fw, avatar.Body); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := a.newRequest(ctx, http.MethodPost, "/profile/update", &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	var out struct {
		User *models.Account `json:"user"`
	}
	err = a.do(req, &out)
	return out.User, err
}

type savedResponse struct {
	SavedRecipes []models.SavedRecipe `json:"savedRecipes"`
}

func (a *API) Save(ctx context.Context, ref models.SavedRecipe) ([]models.SavedRecipe, error) {
	var out savedResponse
	err := a.sendJSON(ctx, http.MethodPost, "/save", map[string]any{"recipe": ref}, &out)
	return out.SavedRecipes, err
}

func (a *API) Saved(ctx context.Context) ([]models.SavedRecipe, error) {
	var out []models.SavedRecipe
	err := a.sendJSON(ctx, http.MethodGet, "/saved", nil, &out)
	return out, err
}

func (a *API) Remove(ctx context.Context, recipeID string) ([]models.SavedRecipe, error) {
	var out savedResponse
	err := a.sendJSON(ctx, http.MethodDelete, "/saved", map[string]string{"recipeId": recipeID}, &out)
	return out.SavedRecipes, err
}

// ExportSaved streams the saved-recipes PDF into w.
func (a *API) ExportSaved(ctx context.Context, w io.Writer) error {
	req, err := a.newRequest(ctx, http.MethodGet, "/saved/export", nil, "")
	if err != nil {
		return err
	}
	return a.do(req, w)
}

// Recipes runs a search on the server and applies filter there.
func (a *API) Recipes(ctx context.Context, search, filter string) ([]models.RecipeSummary, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if filter != "" {
		q.Set("q", filter)
	}
	path := "/recipes"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out struct {
		Recipes []models.RecipeSummary `json:"recipes"`
	}
	err := a.sendJSON(ctx, http.MethodGet, path, nil, &out)
	return out.Recipes, err
}

// AvatarURL resolves the avatar reported by GET /profile against the server
// base URL. Absolute URLs are returned untouched.
func AvatarURL(base, avatar string) string {
	if strings.HasPrefix(avatar, "http") {
		return avatar
	}
	if avatar == "" {
		avatar = models.DefaultAvatar
	}
	if !strings.HasPrefix(avatar, "/") {
		avatar = "/" + avatar
	}
	return strings.TrimRight(base, "/") + avatar
}

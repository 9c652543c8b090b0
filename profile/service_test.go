package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipebox/accounts"
	"recipebox/apperr"
	"recipebox/filemgr"
	"recipebox/models"
	"recipebox/rdx"
	"recipebox/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAvatars struct {
	calls int
	got   []byte
}

func (f *fakeAvatars) SaveAvatar(_ context.Context, up filemgr.Upload) (string, error) {
	f.calls++
	f.got, _ = io.ReadAll(up.Body)
	return "/uploads/new.jpg", nil
}

func setup(t *testing.T) (*Service, *accounts.MemoryStore, *fakeAvatars, *models.Account) {
	t.Helper()
	store := accounts.NewMemoryStore()
	acct, err := store.Create(context.Background(), "a@x.com", "hash")
	require.NoError(t, err)
	avatars := &fakeAvatars{}
	return NewService(store, avatars, rdx.NewMemoryCache(), time.Minute), store, avatars, acct
}

func ptr(s string) *string { return &s }

func TestGetProfileFallbacks(t *testing.T) {
	svc, _, _, acct := setup(t)

	p, err := svc.GetProfile(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Profile{FullName: "a@x.com", Email: "a@x.com", Avatar: "avatar.jpeg"}, p)
}

func TestGetProfileUnknownAccount(t *testing.T) {
	svc, _, _, _ := setup(t)
	_, err := svc.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateProfileInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	svc, _, avatars, acct := setup(t)

	_, err := svc.GetProfile(ctx, acct.ID)
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, acct.ID, ptr("Ann"), &filemgr.Upload{Filename: "a.png", Body: bytes.NewReader([]byte("img"))})
	require.NoError(t, err)
	assert.Equal(t, "Ann", updated.DisplayName)
	assert.Equal(t, "/uploads/new.jpg", updated.AvatarPath)
	assert.Equal(t, 1, avatars.calls)

	p, err := svc.GetProfile(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", p.FullName)
	assert.Equal(t, "/uploads/new.jpg", p.Avatar)
}

func TestUpdateProfileBlankNameKeepsExisting(t *testing.T) {
	ctx := context.Background()
	svc, _, _, acct := setup(t)

	_, err := svc.UpdateProfile(ctx, acct.ID, ptr("Ann"), nil)
	require.NoError(t, err)
	updated, err := svc.UpdateProfile(ctx, acct.ID, ptr("  "), nil)
	require.NoError(t, err)
	assert.Equal(t, "Ann", updated.DisplayName)
}

func TestUpdateProfileMissingAccountWritesNoFile(t *testing.T) {
	svc, _, avatars, _ := setup(t)
	_, err := svc.UpdateProfile(context.Background(), "missing", nil, &filemgr.Upload{Filename: "a.png", Body: bytes.NewReader(nil)})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Zero(t, avatars.calls)
}

func withIdentity(r *http.Request, acct *models.Account) *http.Request {
	return r.WithContext(utils.WithIdentity(r.Context(), acct.ID, acct.Email))
}

func TestUpdateProfileHandlerMultipart(t *testing.T) {
	svc, _, avatars, acct := setup(t)
	h := NewHandlers(svc)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("fullName", "Ann"))
	fw, err := mw.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/profile/update", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, withIdentity(req, acct), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success bool `json:"success"`
		User    struct {
			Email    string `json:"email"`
			FullName string `json:"fullName"`
			Avatar   string `json:"avatar"`
			Password string `json:"password"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Ann", resp.User.FullName)
	assert.Equal(t, "/uploads/new.jpg", resp.User.Avatar)
	assert.Empty(t, resp.User.Password)
	assert.Equal(t, "png-bytes", string(avatars.got))
}

func TestGetProfileHandler(t *testing.T) {
	svc, _, _, acct := setup(t)
	h := NewHandlers(svc)

	rec := httptest.NewRecorder()
	h.GetProfile(rec, withIdentity(httptest.NewRequest(http.MethodGet, "/profile", nil), acct), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"fullName":"a@x.com","email":"a@x.com","avatar":"avatar.jpeg"}`, rec.Body.String())
}

func TestByEmailHandlerHidesPassword(t *testing.T) {
	svc, _, _, _ := setup(t)
	h := NewHandlers(svc)

	rec := httptest.NewRecorder()
	h.ByEmail(rec, httptest.NewRequest(http.MethodGet, "/profile/a@x.com", nil),
		httprouter.Params{{Key: "email", Value: "a@x.com"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hash")
	assert.NotContains(t, rec.Body.String(), "password")

	rec = httptest.NewRecorder()
	h.ByEmail(rec, httptest.NewRequest(http.MethodGet, "/profile/b@x.com", nil),
		httprouter.Params{{Key: "email", Value: "b@x.com"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

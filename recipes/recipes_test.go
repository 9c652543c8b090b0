package recipes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"recipebox/apperr"
	"recipebox/models"
	"recipebox/rdx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forkifyBody = `{"status":"success","results":2,"data":{"recipes":[
	{"publisher":"101 Cookbooks","image_url":"http://img/1.jpg","title":"Cheese Pizza","id":"p1"},
	{"publisher":"Simply Recipes","image_url":"http://img/2.jpg","title":"Veggie  Bowl","id":"p2"}
]}}`

func newAPI(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "pizza", r.URL.Query().Get("search"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestSearchMapsRecipes(t *testing.T) {
	srv, _ := newAPI(t, http.StatusOK, forkifyBody)
	c := NewClient(srv.URL, time.Second, nil, time.Minute)

	got, err := c.Search(context.Background(), " Pizza ")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.RecipeSummary{
		ID: "p1", Title: "Cheese Pizza", Img: "http://img/1.jpg", Publisher: "101 Cookbooks",
		Tags: []string{"cheese", "pizza"},
	}, got[0])
	assert.Equal(t, []string{"veggie", "bowl"}, got[1].Tags)
}

func TestSearchUsesCache(t *testing.T) {
	srv, hits := newAPI(t, http.StatusOK, forkifyBody)
	c := NewClient(srv.URL, time.Second, rdx.NewMemoryCache(), time.Minute)

	for i := 0; i < 3; i++ {
		got, err := c.Search(context.Background(), "pizza")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestSearchUpstreamFailures(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv, _ := newAPI(t, http.StatusInternalServerError, `{"status":"fail"}`)
		_, err := NewClient(srv.URL, time.Second, nil, 0).Search(context.Background(), "pizza")
		assert.ErrorIs(t, err, apperr.ErrUpstream)
	})
	t.Run("body", func(t *testing.T) {
		srv, _ := newAPI(t, http.StatusOK, `not json`)
		_, err := NewClient(srv.URL, time.Second, nil, 0).Search(context.Background(), "pizza")
		assert.ErrorIs(t, err, apperr.ErrUpstream)
	})
	t.Run("unreachable", func(t *testing.T) {
		srv, _ := newAPI(t, http.StatusOK, forkifyBody)
		url := srv.URL
		srv.Close()
		_, err := NewClient(url, time.Second, nil, 0).Search(context.Background(), "pizza")
		assert.ErrorIs(t, err, apperr.ErrUpstream)
	})
}

func TestFilter(t *testing.T) {
	list := []models.RecipeSummary{
		{ID: "1", Title: "Cheese Pizza", Tags: []string{"cheese", "pizza"}},
		{ID: "2", Title: "Veggie Bowl", Tags: []string{"veggie", "bowl"}},
		{ID: "3", Title: "Calzone", Tags: []string{"pizza-dough"}},
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"pizza", []string{"1", "3"}},
		{"  BOWL ", []string{"2"}},
		{"", []string{"1", "2", "3"}},
		{"sushi", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var ids []string
			for _, r := range Filter(list, tt.query) {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilterExample(t *testing.T) {
	list := []models.RecipeSummary{
		{Title: "Cheese Pizza", Tags: []string{"cheese", "pizza"}},
		{Title: "Veggie Bowl", Tags: []string{"veggie", "bowl"}},
	}
	assert.Equal(t, list[:1], Filter(list, "pizza"))
}

type failingSearcher struct{}

func (failingSearcher) Search(context.Context, string) ([]models.RecipeSummary, error) {
	return nil, apperr.ErrUpstream
}

func TestSearchHandlerDegradesToEmpty(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandlers(failingSearcher{}).Search(rec, httptest.NewRequest(http.MethodGet, "/recipes", nil), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"recipes":[]}`, rec.Body.String())
}

func TestSearchHandlerFilters(t *testing.T) {
	srv, _ := newAPI(t, http.StatusOK, forkifyBody)
	h := NewHandlers(NewClient(srv.URL, time.Second, nil, 0))

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/recipes?search=pizza&q=veggie", nil), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"p2"`)
	assert.NotContains(t, rec.Body.String(), `"id":"p1"`)
}

// Package recipes searches the external recipe API and filters the results.
package recipes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recipebox/apperr"
	"recipebox/metrics"
	"recipebox/models"
	"recipebox/rdx"
)

const maxResponseSize = 4 << 20

type apiRecipe struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	ImageURL  string `json:"image_url"`
	Publisher string `json:"publisher"`
}

type searchResponse struct {
	Status string `json:"status"`
	Data   struct {
		Recipes []apiRecipe `json:"recipes"`
	} `json:"data"`
}

// Client talks to a forkify-compatible search endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	cache   rdx.Cache
	ttl     time.Duration
}

func NewClient(baseURL string, timeout time.Duration, cache rdx.Cache, ttl time.Duration) *Client {
	if cache == nil {
		cache = rdx.NopCache{}
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		cache:   cache,
		ttl:     ttl,
	}
}

func cacheKey(query string) string {
	return "recipes:search:" + query
}

// Search returns the summaries matching query. Transport errors and non-2xx
// answers are reported as apperr.ErrUpstream.
func (c *Client) Search(ctx context.Context, query string) ([]models.RecipeSummary, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, apperr.New(apperr.ErrBadRequest, "Search term is required")
	}

	key := cacheKey(query)
	if raw, ok, err := c.cache.Get(ctx, key); err != nil {
		log.Printf("recipe cache get %s: %v", key, err)
	} else if ok {
		var out []models.RecipeSummary
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			return out, nil
		}
	}

	out, err := c.fetch(ctx, query)
	if err != nil {
		metrics.UpstreamFailures.WithLabelValues("recipes").Inc()
		return nil, err
	}

	if raw, err := json.Marshal(out); err == nil {
		if err := c.cache.Set(ctx, key, string(raw), c.ttl); err != nil {
			log.Printf("recipe cache set %s: %v", key, err)
		}
	}
	return out, nil
}

func (c *Client) fetch(ctx context.Context, query string) ([]models.RecipeSummary, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: bad recipe api url: %v", apperr.ErrUpstream, err)
	}
	q := u.Query()
	q.Set("search", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return nil, fmt.Errorf("%w: recipe api returned %s", apperr.ErrUpstream, resp.Status)
	}

	var body searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode recipe api response: %v", apperr.ErrUpstream, err)
	}

	out := make([]models.RecipeSummary, 0, len(body.Data.Recipes))
	for _, r := range body.Data.Recipes {
		out = append(out, models.RecipeSummary{
			ID:        r.ID,
			Title:     r.Title,
			Img:       r.ImageURL,
			Publisher: r.Publisher,
			Tags:      Tags(r.Title),
		})
	}
	return out, nil
}

// Tags derives search tags from a title: lowercased, split on whitespace.
func Tags(title string) []string {
	return strings.Fields(strings.ToLower(title))
}

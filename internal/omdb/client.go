// Package omdb is a client for the OMDb movie metadata API.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/models"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// ErrNotFound is returned when OMDb answers with Response "False".
var ErrNotFound = errors.New("omdb: movie not found")

const (
	searchCacheSize = 256
	searchCacheTTL  = 10 * time.Minute
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client

	lookups  singleflight.Group
	searches *expirable.LRU[string, []dto.ExternalMovie]
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
		searches: expirable.NewLRU[string, []dto.ExternalMovie](searchCacheSize, nil, searchCacheTTL),
	}
}

type searchResponse struct {
	Response string       `json:"Response"`
	Error    string       `json:"Error"`
	Search   []searchItem `json:"Search"`
}

type searchItem struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

type movieResponse struct {
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Rated      string `json:"Rated"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Writer     string `json:"Writer"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Language   string `json:"Language"`
	Country    string `json:"Country"`
	Awards     string `json:"Awards"`
	Poster     string `json:"Poster"`
	ImdbRating string `json:"imdbRating"`
	ImdbVotes  string `json:"imdbVotes"`
	ImdbID     string `json:"imdbID"`
}

// SearchByTitle returns movie hits for title. An unknown title is an empty
// result, not an error.
func (c *Client) SearchByTitle(ctx context.Context, title string) ([]dto.ExternalMovie, error) {
	key := strings.ToLower(strings.TrimSpace(title))
	if hits, ok := c.searches.Get(key); ok {
		return append([]dto.ExternalMovie(nil), hits...), nil
	}

	q := url.Values{}
	q.Set("apikey", c.apiKey)
	q.Set("s", title)
	q.Set("type", "movie")

	var resp searchResponse
	if err := c.get(ctx, q, &resp); err != nil {
		return nil, err
	}

	hits := make([]dto.ExternalMovie, 0, len(resp.Search))
	if resp.Response == "True" {
		for _, s := range resp.Search {
			hits = append(hits, dto.ExternalMovie{
				ExternalID: s.ImdbID,
				Title:      s.Title,
				Year:       s.Year,
				Type:       s.Type,
				Poster:     s.Poster,
			})
		}
	}
	c.searches.Add(key, hits)
	return append([]dto.ExternalMovie(nil), hits...), nil
}

// GetByExternalID fetches the full record for an IMDb id. Concurrent calls
// for the same id share one upstream request.
func (c *Client) GetByExternalID(ctx context.Context, externalID string) (*models.Movie, error) {
	v, err, _ := c.lookups.Do(externalID, func() (any, error) {
		q := url.Values{}
		q.Set("apikey", c.apiKey)
		q.Set("i", externalID)
		q.Set("plot", "full")

		var resp movieResponse
		if err := c.get(ctx, q, &resp); err != nil {
			return nil, err
		}
		if resp.Response != "True" {
			return nil, ErrNotFound
		}
		return &resp, nil
	})
	if err != nil {
		return nil, err
	}
	// each caller sharing a flight gets its own record
	return v.(*movieResponse).toMovie(), nil
}

// Ping checks that OMDb answers a title lookup. A "not found" answer still
// counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("apikey", c.apiKey)
	q.Set("t", "test")

	var resp movieResponse
	return c.get(ctx, q, &resp)
}

func (c *Client) get(ctx context.Context, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("omdb: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("omdb: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("omdb: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("omdb: decode response: %w", err)
	}
	return nil
}

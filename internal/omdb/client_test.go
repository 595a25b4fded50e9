package omdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shawshank = `{
  "Title": "The Shawshank Redemption",
  "Year": "1994",
  "Rated": "R",
  "Released": "14 Oct 1994",
  "Runtime": "142 min",
  "Genre": "Drama",
  "Director": "Frank Darabont",
  "Writer": "Stephen King, Frank Darabont",
  "Actors": "Tim Robbins, Morgan Freeman, Bob Gunton",
  "Plot": "Two imprisoned men bond over a number of years.",
  "Language": "English",
  "Country": "United States",
  "Awards": "N/A",
  "Poster": "https://example.com/shawshank.jpg",
  "imdbRating": "9.3",
  "imdbVotes": "2,900,000",
  "imdbID": "tt0111161",
  "Response": "True"
}`

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "test-key", time.Second)
}

func TestClient_GetByExternalIDMapsFields(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		assert.Equal(t, "tt0111161", r.URL.Query().Get("i"))
		assert.Equal(t, "full", r.URL.Query().Get("plot"))
		_, _ = w.Write([]byte(shawshank))
	})

	m, err := c.GetByExternalID(context.Background(), "tt0111161")
	require.NoError(t, err)

	assert.Equal(t, "tt0111161", m.ExternalID)
	assert.Equal(t, "The Shawshank Redemption", m.Title)
	assert.Equal(t, 1994, m.Year)
	assert.Equal(t, []string{"Drama"}, []string(m.Genres))
	assert.Equal(t, []string{"Tim Robbins", "Morgan Freeman", "Bob Gunton"}, []string(m.Actors))
	assert.Equal(t, "Frank Darabont", m.Director)
	assert.InDelta(t, 9.3, m.Rating, 0.001)
	assert.Equal(t, 142, m.Duration)

	meta := m.Metadata.Data()
	for key, want := range map[string]string{"imdbVotes": "2,900,000", "rated": "R", "awards": ""} {
		got, ok := meta[key].AsString()
		require.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
}

func TestClient_GetByExternalIDNotFound(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Incorrect IMDb ID."}`))
	})

	_, err := c.GetByExternalID(context.Background(), "tt0000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_UpstreamFailure(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.GetByExternalID(context.Background(), "tt0111161")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestClient_ConcurrentLookupsShareOneRequest(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write([]byte(shawshank))
	})

	var wg sync.WaitGroup
	results := make([]string, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := c.GetByExternalID(context.Background(), "tt0111161")
			if err == nil {
				results[i] = m.Title
			}
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), hits.Load())
	for _, title := range results {
		assert.Equal(t, "The Shawshank Redemption", title)
	}
}

func TestClient_SearchByTitleIsMemoized(t *testing.T) {
	var hits atomic.Int32
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "movie", r.URL.Query().Get("type"))
		assert.Equal(t, "Heat", r.URL.Query().Get("s"))
		_, _ = w.Write([]byte(`{"Response":"True","Search":[
			{"Title":"Heat","Year":"1995","imdbID":"tt0113277","Type":"movie","Poster":"N/A"}
		]}`))
	})

	first, err := c.SearchByTitle(context.Background(), "Heat")
	require.NoError(t, err)
	second, err := c.SearchByTitle(context.Background(), "Heat")
	require.NoError(t, err)

	require.Len(t, first, 1)
	assert.Equal(t, "tt0113277", first[0].ExternalID)
	assert.Equal(t, "1995", first[0].Year)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_SearchByTitleNoResults(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	})

	hits, err := c.SearchByTitle(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestClient_Ping(t *testing.T) {
	reachable := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test", r.URL.Query().Get("t"))
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	})
	assert.NoError(t, reachable.Ping(context.Background()))

	badKey := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Invalid API key!"}`))
	})
	assert.Error(t, badKey.Ping(context.Background()))
}

func TestParsers(t *testing.T) {
	assert.Equal(t, 2008, parseYear("2008–2013"))
	assert.Equal(t, 0, parseYear("N/A"))
	assert.Equal(t, 0, parseRuntime("N/A"))
	assert.Equal(t, 90, parseRuntime("90 min"))
	assert.Equal(t, 0.0, parseRating("N/A"))
	assert.Equal(t, []string{}, splitList("N/A"))
	assert.Equal(t, []string{"Action", "Crime"}, splitList("Action, Crime,"))
}

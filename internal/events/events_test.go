package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMovieEvent_WireFormat(t *testing.T) {
	m := &models.Movie{ID: uuid.New(), ExternalID: "tt0111161", Title: "The Shawshank Redemption"}

	raw, err := json.Marshal(NewMovieEvent(MovieImported, m))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "movie.imported", got["type"])
	assert.Equal(t, m.ID.String(), got["movie_id"])
	assert.Equal(t, "tt0111161", got["external_id"])
	assert.Equal(t, "The Shawshank Redemption", got["title"])
	assert.Contains(t, got, "occurred_at")
}

func TestEmit_SwallowsPublishErrors(t *testing.T) {
	rec := &Recorder{Err: errors.New("broker down")}

	assert.NotPanics(t, func() {
		Emit(context.Background(), rec, Event{Type: MovieDeleted})
		Emit(context.Background(), nil, Event{Type: MovieDeleted})
	})
	assert.Empty(t, rec.Events)
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.Publish(context.Background(), Event{Type: MovieCreated}))
	assert.NoError(t, p.Close())
}

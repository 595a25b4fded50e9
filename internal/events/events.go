// Package events announces catalog changes to other services.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/models"
	"github.com/google/uuid"
)

type Type string

const (
	MovieCreated  Type = "movie.created"
	MovieUpdated  Type = "movie.updated"
	MovieDeleted  Type = "movie.deleted"
	MovieImported Type = "movie.imported"
	MovieSynced   Type = "movie.synced"
)

type Event struct {
	Type       Type      `json:"type"`
	MovieID    uuid.UUID `json:"movie_id"`
	ExternalID string    `json:"external_id,omitempty"`
	Title      string    `json:"title,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewMovieEvent(t Type, m *models.Movie) Event {
	return Event{
		Type:       t,
		MovieID:    m.ID,
		ExternalID: m.ExternalID,
		Title:      m.Title,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Emit publishes e and only logs a failure. Catalog writes have already been
// committed by the time events go out.
func Emit(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		slog.Warn("event publish failed",
			"type", string(e.Type),
			"movie_id", e.MovieID.String(),
			"error", err,
		)
	}
}

// Noop discards events. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	Events []Event
	Err    error
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	if r.Err != nil {
		return r.Err
	}
	r.Events = append(r.Events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Types lists the recorded event types in order.
func (r *Recorder) Types() []Type {
	out := make([]Type, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Type)
	}
	return out
}

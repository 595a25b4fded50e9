package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/models"
	"github.com/google/uuid"
)

// MovieRequest is the body of both create and update; updates replace every field.
type MovieRequest struct {
	ExternalID  string          `json:"external_id" validate:"omitempty,max=20"`
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Year        int             `json:"year" validate:"movie_year"`
	Genres      []string        `json:"genres" validate:"omitempty,dive,required,max=50"`
	Director    string          `json:"director" validate:"max=100"`
	Actors      []string        `json:"actors" validate:"omitempty,dive,required,max=100"`
	Rating      float64         `json:"rating" validate:"gte=0,lte=10"`
	Duration    int             `json:"duration" validate:"gte=0"`
	Poster      string          `json:"poster" validate:"omitempty,url,max=500"`
	Metadata    models.Metadata `json:"metadata"`
}

// MovieQuery selects a page of movies. At most one of Title, Genre and
// Director is expected; when several are set they are combined.
type MovieQuery struct {
	Page     int
	PageSize int
	Title    string
	Genre    string
	Director string
}

type MovieResponse struct {
	ID          uuid.UUID       `json:"id"`
	ExternalID  string          `json:"external_id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Year        int             `json:"year"`
	Genres      []string        `json:"genres"`
	Director    string          `json:"director"`
	Actors      []string        `json:"actors"`
	Rating      float64         `json:"rating"`
	Duration    int             `json:"duration"`
	Poster      string          `json:"poster"`
	Metadata    models.Metadata `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewMovieResponse(m *models.Movie) MovieResponse {
	genres := []string(m.Genres)
	if genres == nil {
		genres = []string{}
	}
	actors := []string(m.Actors)
	if actors == nil {
		actors = []string{}
	}
	return MovieResponse{
		ID:          m.ID,
		ExternalID:  m.ExternalID,
		Title:       m.Title,
		Description: m.Description,
		Year:        m.Year,
		Genres:      genres,
		Director:    m.Director,
		Actors:      actors,
		Rating:      m.Rating,
		Duration:    m.Duration,
		Poster:      m.Poster,
		Metadata:    m.Metadata.Data(),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func NewMovieResponses(movies []models.Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for i := range movies {
		out = append(out, NewMovieResponse(&movies[i]))
	}
	return out
}

// ExternalMovie is a search hit from the metadata provider.
type ExternalMovie struct {
	ExternalID string `json:"external_id"`
	Title      string `json:"title"`
	Year       string `json:"year"`
	Type       string `json:"type"`
	Poster     string `json:"poster"`
}

type GenreCount struct {
	Genre string `json:"genre"`
	Count int64  `json:"count"`
}

type YearCount struct {
	Year  int   `json:"year"`
	Count int64 `json:"count"`
}

type DirectorCount struct {
	Director string `json:"director"`
	Count    int64  `json:"count"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Movie struct {
	ID          uuid.UUID                    `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID  string                       `gorm:"size:20;index" json:"external_id,omitempty"`
	Title       string                       `gorm:"size:200;not null;index" json:"title"`
	Description string                       `gorm:"type:text" json:"description"`
	Year        int                          `gorm:"index" json:"year"`
	Genres      datatypes.JSONSlice[string]  `json:"genres"`
	Director    string                       `gorm:"size:100;index" json:"director"`
	Actors      datatypes.JSONSlice[string]  `json:"actors"`
	Rating      float64                      `gorm:"type:decimal(3,1);not null;default:0" json:"rating"`
	Duration    int                          `json:"duration"`
	Poster      string                       `gorm:"size:500" json:"poster"`
	Metadata    datatypes.JSONType[Metadata] `json:"metadata"`
	IsDeleted   bool                         `gorm:"not null;default:false;index" json:"-"`
	CreatedAt   time.Time                    `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time                    `json:"updated_at"`
}

func (m *Movie) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Genres == nil {
		m.Genres = datatypes.JSONSlice[string]{}
	}
	if m.Actors == nil {
		m.Actors = datatypes.JSONSlice[string]{}
	}
	return nil
}

// Overwrite copies every catalog field of src onto m. Identity, timestamps
// and the soft-delete flag are left alone.
func (m *Movie) Overwrite(src *Movie) {
	m.ExternalID = src.ExternalID
	m.Title = src.Title
	m.Description = src.Description
	m.Year = src.Year
	m.Genres = src.Genres
	m.Director = src.Director
	m.Actors = src.Actors
	m.Rating = src.Rating
	m.Duration = src.Duration
	m.Poster = src.Poster
	m.Metadata = src.Metadata
}

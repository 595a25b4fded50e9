package repository

import (
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MovieFilter narrows movie listings. Empty fields are ignored.
type MovieFilter struct {
	// Title is a case-insensitive substring of the title.
	Title string
	// Genre must be one of the movie's genres exactly.
	Genre string
	// Director is a case-insensitive substring of the director.
	Director string
}

// Active hides soft-deleted movies.
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// Filtered applies f on top of Active.
func Filtered(f MovieFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = Active(db)
		if f.Title != "" {
			db = db.Where(`LOWER(title) LIKE ? ESCAPE '\'`, containsPattern(f.Title))
		}
		if f.Genre != "" {
			db = db.Where(datatypes.JSONArrayQuery("genres").Contains(f.Genre))
		}
		if f.Director != "" {
			db = db.Where(`LOWER(director) LIKE ? ESCAPE '\'`, containsPattern(f.Director))
		}
		return db
	}
}

// Paginate skips to a 1-indexed page.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if pageSize < 1 {
			pageSize = 1
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// NewestFirst orders by creation time, breaking ties by id so pages are stable.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

package omdb

import (
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/models"
	"gorm.io/datatypes"
)

const notAvailable = "N/A"

func (r *movieResponse) toMovie() *models.Movie {
	return &models.Movie{
		ExternalID:  r.ImdbID,
		Title:       r.Title,
		Description: clean(r.Plot),
		Year:        parseYear(r.Year),
		Genres:      datatypes.JSONSlice[string](splitList(r.Genre)),
		Director:    clean(r.Director),
		Actors:      datatypes.JSONSlice[string](splitList(r.Actors)),
		Rating:      parseRating(r.ImdbRating),
		Duration:    parseRuntime(r.Runtime),
		Poster:      clean(r.Poster),
		Metadata: datatypes.NewJSONType(models.Metadata{
			"imdbVotes": models.StringValue(clean(r.ImdbVotes)),
			"rated":     models.StringValue(clean(r.Rated)),
			"released":  models.StringValue(clean(r.Released)),
			"writer":    models.StringValue(clean(r.Writer)),
			"language":  models.StringValue(clean(r.Language)),
			"country":   models.StringValue(clean(r.Country)),
			"awards":    models.StringValue(clean(r.Awards)),
		}),
	}
}

func clean(s string) string {
	s = strings.TrimSpace(s)
	if s == notAvailable {
		return ""
	}
	return s
}

func splitList(s string) []string {
	s = clean(s)
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseYear reads the leading year of values such as "1994" or "2008–2013".
func parseYear(s string) int {
	s = clean(s)
	if len(s) > 4 {
		s = s[:4]
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return y
}

func parseRating(s string) float64 {
	r, err := strconv.ParseFloat(clean(s), 64)
	if err != nil {
		return 0
	}
	return r
}

// parseRuntime keeps the digits of values such as "142 min".
func parseRuntime(s string) int {
	var b strings.Builder
	for _, r := range clean(s) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}

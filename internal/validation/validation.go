// Package validation checks request DTOs before they reach the services and
// turns validator failures into field-level messages for API clients.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// MinMovieYear is the year of the earliest surviving film.
const MinMovieYear = 1888

var (
	once     sync.Once
	validate *validator.Validate
	now      = time.Now
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("password_strength", passwordStrength)
		_ = v.RegisterValidation("movie_year", movieYear)
		validate = v
	})
	return validate
}

// MaxMovieYear is the latest release year accepted today.
func MaxMovieYear() int { return now().Year() + 5 }

// Struct validates s and returns one message per failing field, or nil.
func Struct(s any) []string {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, message(fe))
	}
	return msgs
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param())
	case "gte":
		if field == "rating" {
			return "rating must be between 0 and 10"
		}
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		if field == "rating" {
			return "rating must be between 0 and 10"
		}
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "eqfield":
		return "passwords do not match"
	case "password_strength":
		return field + " must contain at least one uppercase letter, one lowercase letter and one digit"
	case "movie_year":
		return fmt.Sprintf("%s must be between %d and %d", field, MinMovieYear, MaxMovieYear())
	}
	return fmt.Sprintf("%s is invalid", field)
}

func passwordStrength(fl validator.FieldLevel) bool {
	var upper, lower, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

func movieYear(fl validator.FieldLevel) bool {
	y := fl.Field().Int()
	return y >= MinMovieYear && y <= int64(MaxMovieYear())
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every failing field of a movie draft so the
// caller can report them together in a single response.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// MovieValidator checks field constraints and slug uniqueness before a
// create or update is accepted. All field failures are collected rather
// than short-circuiting on the first.
type MovieValidator struct {
	movies MovieStore
}

// NewMovieValidator returns a validator backed by the given store for
// slug lookups.
func NewMovieValidator(movies MovieStore) *MovieValidator {
	return &MovieValidator{movies: movies}
}

// Validate returns a *ValidationError listing every violated rule, or a
// plain error when the uniqueness lookup itself fails. Uniqueness
// passes when no movie owns the candidate slug, or when the only owner
// is the movie being updated.
func (v *MovieValidator) Validate(ctx context.Context, m *model.Movie) error {
	var errs []FieldError
	if strings.TrimSpace(m.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title must not be empty"})
	}
	if len(m.Genres) == 0 {
		errs = append(errs, FieldError{Field: "genres", Message: "at least one genre is required"})
	}
	if strings.TrimSpace(m.Image) == "" {
		errs = append(errs, FieldError{Field: "image", Message: "image is required"})
	}
	if m.ReleaseYear > time.Now().UTC().Year() {
		errs = append(errs, FieldError{Field: "releaseYear", Message: "release year cannot be in the future"})
	}

	existing, err := v.movies.GetBySlug(ctx, m.Slug())
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != m.ID {
		errs = append(errs, FieldError{Field: "slug", Message: "a movie with this title and release year already exists"})
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

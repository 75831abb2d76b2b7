// Package model defines the domain entities persisted by the catalog
// service. These types are shared between the repository and service
// layers; handlers define separate request/response shapes with their
// own JSON tags.
package model

import (
	"fmt"
	"regexp"
	"strings"
)

// slugStrip matches every character that must not survive in a slug:
// anything other than ASCII letters, digits, spaces and hyphens.
var slugStrip = regexp.MustCompile(`[^0-9A-Za-z -]`)

// Movie is the denormalized catalog entity. A movie row in the database
// holds the scalar fields; Genres and Cast live in child tables keyed by
// the movie id. Rating and UserRating are derived values attached on
// reads and are never written to the movies table.
//
// Pointer fields are nullable columns. Rating is the aggregate mean of
// all user ratings rounded to one decimal; UserRating is the requesting
// user's own rating when a user context is present.
type Movie struct {
	ID          string
	Title       string
	Description *string
	Duration    int // minutes
	ReleaseYear int
	Director    *string
	Trailer     *string
	Image       string
	Genres      []string
	Cast        []string
	Rating      *float64
	UserRating  *int
}

// Slug returns the movie's derived URL identifier. It is computed from
// the title and release year and never stored independently of them;
// repeated calls always yield the same value for the same inputs.
func (m *Movie) Slug() string {
	return MakeSlug(m.Title, m.ReleaseYear)
}

// MakeSlug lowercases the title, strips everything that is not a letter,
// digit, space or hyphen, replaces spaces with hyphens and appends the
// release year. Example: ("The Matrix", 1999) -> "the-matrix-1999".
func MakeSlug(title string, releaseYear int) string {
	s := slugStrip.ReplaceAllString(title, "")
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	return fmt.Sprintf("%s-%d", s, releaseYear)
}

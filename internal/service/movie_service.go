// Package service contains the catalog's business layer: validation,
// identifier assignment and composition of rating data onto movie
// reads. Services depend on interface-typed stores so tests can swap in
// in-memory fakes.
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// MovieStore is the persistence contract for movies. Implemented by
// repository.MovieRepo. A nil movie with a nil error means "not found".
type MovieStore interface {
	Create(ctx context.Context, m *model.Movie) (bool, error)
	GetByID(ctx context.Context, id string) (*model.Movie, error)
	GetBySlug(ctx context.Context, slug string) (*model.Movie, error)
	GetAll(ctx context.Context) ([]*model.Movie, error)
	Update(ctx context.Context, m *model.Movie) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// RatingStore is the persistence contract for ratings. Implemented by
// repository.RatingRepo.
type RatingStore interface {
	Rate(ctx context.Context, movieID, userID string, rating int) (bool, error)
	Unrate(ctx context.Context, movieID, userID string) (bool, error)
	AggregateRating(ctx context.Context, movieID string) (*float64, error)
	AggregateAndUserRating(ctx context.Context, movieID, userID string) (*float64, *int, error)
	ListForUser(ctx context.Context, userID string) ([]model.MovieRating, error)
}

// MovieService validates catalog writes before they reach storage and
// attaches rating data to every read. The optional userID parameter on
// reads personalizes the result with that user's own rating; passing
// nil yields only the aggregate.
type MovieService struct {
	movies    MovieStore
	ratings   RatingStore
	validator *MovieValidator
}

// NewMovieService wires a MovieService from its stores.
func NewMovieService(movies MovieStore, ratings RatingStore) *MovieService {
	return &MovieService{
		movies:    movies,
		ratings:   ratings,
		validator: NewMovieValidator(movies),
	}
}

// Create validates the draft, assigns a fresh identifier and delegates
// to the store. A *ValidationError carries every offending field,
// including a duplicate slug.
func (s *MovieService) Create(ctx context.Context, m *model.Movie) (bool, error) {
	m.ID = uuid.NewString()
	if err := s.validator.Validate(ctx, m); err != nil {
		return false, err
	}
	return s.movies.Create(ctx, m)
}

// Update validates the incoming movie (a movie may keep its own slug)
// and checks existence before delegating. A missing id yields (nil,
// nil) so callers can distinguish not-found from a validation failure.
// On success the updated entity is returned with current rating data
// attached.
func (s *MovieService) Update(ctx context.Context, m *model.Movie, userID *string) (*model.Movie, error) {
	if err := s.validator.Validate(ctx, m); err != nil {
		return nil, err
	}
	exists, err := s.movies.ExistsByID(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	if _, err := s.movies.Update(ctx, m); err != nil {
		return nil, err
	}
	if err := s.attachRatings(ctx, m, userID); err != nil {
		return nil, err
	}
	return m, nil
}

// GetByID returns one movie with rating data attached, or nil when it
// does not exist.
func (s *MovieService) GetByID(ctx context.Context, id string, userID *string) (*model.Movie, error) {
	m, err := s.movies.GetByID(ctx, id)
	if err != nil || m == nil {
		return nil, err
	}
	if err := s.attachRatings(ctx, m, userID); err != nil {
		return nil, err
	}
	return m, nil
}

// GetBySlug is GetByID keyed by the derived slug.
func (s *MovieService) GetBySlug(ctx context.Context, slug string, userID *string) (*model.Movie, error) {
	m, err := s.movies.GetBySlug(ctx, slug)
	if err != nil || m == nil {
		return nil, err
	}
	if err := s.attachRatings(ctx, m, userID); err != nil {
		return nil, err
	}
	return m, nil
}

// GetAll returns every movie, each enriched with its aggregate rating
// and, when a user context is present, that user's own rating.
func (s *MovieService) GetAll(ctx context.Context, userID *string) ([]*model.Movie, error) {
	movies, err := s.movies.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range movies {
		if err := s.attachRatings(ctx, m, userID); err != nil {
			return nil, err
		}
	}
	return movies, nil
}

// Delete removes the movie and all of its child rows. Rating rows are
// cleaned up inside the same store transaction, so no orphans survive.
func (s *MovieService) Delete(ctx context.Context, id string) (bool, error) {
	return s.movies.Delete(ctx, id)
}

func (s *MovieService) attachRatings(ctx context.Context, m *model.Movie, userID *string) error {
	if userID == nil {
		agg, err := s.ratings.AggregateRating(ctx, m.ID)
		if err != nil {
			return err
		}
		m.Rating = agg
		return nil
	}
	agg, mine, err := s.ratings.AggregateAndUserRating(ctx, m.ID, *userID)
	if err != nil {
		return err
	}
	m.Rating = agg
	m.UserRating = mine
	return nil
}

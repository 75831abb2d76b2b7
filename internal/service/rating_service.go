package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/queue"
)

// ErrInvalidRating is returned when a rating value falls outside [1,5].
// The check happens here so the store never sees an out-of-range value.
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// RatingEventPublisher pushes rating events to the broker. Satisfied by
// queue.Publisher; a nil publisher disables events entirely.
type RatingEventPublisher interface {
	PublishRatingEvent(ctx context.Context, event queue.RatingEvent) error
}

// RatingService guards the rating store: it validates the value range,
// verifies the movie exists and emits an event after a successful
// write. Publish failures are logged and ignored; they never fail the
// request.
type RatingService struct {
	ratings RatingStore
	movies  MovieStore
	events  RatingEventPublisher
}

// NewRatingService wires a RatingService. events may be nil.
func NewRatingService(ratings RatingStore, movies MovieStore, events RatingEventPublisher) *RatingService {
	return &RatingService{ratings: ratings, movies: movies, events: events}
}

// Rate upserts the user's rating for a movie. Returns ErrInvalidRating
// for out-of-range values and (false, nil) when the movie does not
// exist.
func (s *RatingService) Rate(ctx context.Context, movieID, userID string, rating int) (bool, error) {
	if rating < 1 || rating > 5 {
		return false, ErrInvalidRating
	}
	exists, err := s.movies.ExistsByID(ctx, movieID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	ok, err := s.ratings.Rate(ctx, movieID, userID, rating)
	if err != nil {
		return false, err
	}
	if ok {
		s.publish(ctx, queue.RatingEvent{
			Action:     queue.ActionRated,
			MovieID:    movieID,
			UserID:     userID,
			Rating:     rating,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return ok, nil
}

// Unrate removes the user's rating. Returns (false, nil) when the movie
// does not exist or the user had no rating.
func (s *RatingService) Unrate(ctx context.Context, movieID, userID string) (bool, error) {
	exists, err := s.movies.ExistsByID(ctx, movieID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	ok, err := s.ratings.Unrate(ctx, movieID, userID)
	if err != nil {
		return false, err
	}
	if ok {
		s.publish(ctx, queue.RatingEvent{
			Action:     queue.ActionUnrated,
			MovieID:    movieID,
			UserID:     userID,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return ok, nil
}

// ListForUser returns all ratings the user has made.
func (s *RatingService) ListForUser(ctx context.Context, userID string) ([]model.MovieRating, error) {
	return s.ratings.ListForUser(ctx, userID)
}

func (s *RatingService) publish(ctx context.Context, ev queue.RatingEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishRatingEvent(ctx, ev); err != nil {
		log.Printf("rating-service: publish %s event failed: %v", ev.Action, err)
	}
}

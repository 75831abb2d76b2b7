package service

import (
	"context"
	"errors"
	"testing"

	"github.com/iliyamo/movie-catalog/internal/queue"
)

func seedRatedMovie(t *testing.T) (*fakeMovieStore, *fakeRatingStore, string) {
	t.Helper()
	movies := newFakeMovieStore()
	ratings := newFakeRatingStore(movies)
	m := draftMovie("The Matrix", 1999)
	svc := NewMovieService(movies, ratings)
	if _, err := svc.Create(context.Background(), m); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}
	return movies, ratings, m.ID
}

func TestRateRejectsOutOfRange(t *testing.T) {
	movies, ratings, movieID := seedRatedMovie(t)
	svc := NewRatingService(ratings, movies, nil)

	for _, value := range []int{0, 6, -1, 100} {
		if _, err := svc.Rate(context.Background(), movieID, "u1", value); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("Rate(%d) error = %v, want ErrInvalidRating", value, err)
		}
	}
	if agg, _ := ratings.AggregateRating(context.Background(), movieID); agg != nil {
		t.Errorf("rejected ratings were stored, aggregate = %v", *agg)
	}
}

func TestRateMissingMovie(t *testing.T) {
	movies := newFakeMovieStore()
	ratings := newFakeRatingStore(movies)
	svc := NewRatingService(ratings, movies, nil)

	ok, err := svc.Rate(context.Background(), "no-such-movie", "u1", 4)
	if err != nil {
		t.Fatalf("rate of missing movie errored: %v", err)
	}
	if ok {
		t.Error("rate of missing movie reported success")
	}
}

func TestRateUpsertsExistingRating(t *testing.T) {
	movies, ratings, movieID := seedRatedMovie(t)
	svc := NewRatingService(ratings, movies, nil)

	if _, err := svc.Rate(context.Background(), movieID, "u1", 5); err != nil {
		t.Fatalf("first rate failed: %v", err)
	}
	if _, err := svc.Rate(context.Background(), movieID, "u1", 2); err != nil {
		t.Fatalf("re-rate failed: %v", err)
	}

	agg, mine, err := ratings.AggregateAndUserRating(context.Background(), movieID, "u1")
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	if mine == nil || *mine != 2 {
		t.Errorf("user rating = %v, want 2 (second rating replaces first)", mine)
	}
	if agg == nil || *agg != 2.0 {
		t.Errorf("aggregate = %v, want 2.0 (single voter)", agg)
	}
}

func TestUnrate(t *testing.T) {
	movies, ratings, movieID := seedRatedMovie(t)
	svc := NewRatingService(ratings, movies, nil)

	if _, err := svc.Rate(context.Background(), movieID, "u1", 4); err != nil {
		t.Fatalf("rate failed: %v", err)
	}
	ok, err := svc.Unrate(context.Background(), movieID, "u1")
	if err != nil || !ok {
		t.Fatalf("Unrate() = %v, %v; want true, nil", ok, err)
	}
	if agg, _ := ratings.AggregateRating(context.Background(), movieID); agg != nil {
		t.Errorf("aggregate after unrate = %v, want nil", *agg)
	}
	if ok, _ := svc.Unrate(context.Background(), movieID, "u1"); ok {
		t.Error("second unrate reported success")
	}
}

func TestRatingEventsPublished(t *testing.T) {
	movies, ratings, movieID := seedRatedMovie(t)
	pub := &recordingPublisher{}
	svc := NewRatingService(ratings, movies, pub)

	if _, err := svc.Rate(context.Background(), movieID, "u1", 4); err != nil {
		t.Fatalf("rate failed: %v", err)
	}
	if _, err := svc.Unrate(context.Background(), movieID, "u1"); err != nil {
		t.Fatalf("unrate failed: %v", err)
	}

	if len(pub.events) != 2 {
		t.Fatalf("published %d events, want 2", len(pub.events))
	}
	rated, unrated := pub.events[0], pub.events[1]
	if rated.Action != queue.ActionRated || rated.MovieID != movieID || rated.UserID != "u1" || rated.Rating != 4 {
		t.Errorf("rated event = %+v", rated)
	}
	if unrated.Action != queue.ActionUnrated || unrated.MovieID != movieID || unrated.UserID != "u1" {
		t.Errorf("unrated event = %+v", unrated)
	}
	if rated.OccurredAt == "" {
		t.Error("rated event has no timestamp")
	}
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	movies, ratings, movieID := seedRatedMovie(t)
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewRatingService(ratings, movies, pub)

	ok, err := svc.Rate(context.Background(), movieID, "u1", 4)
	if err != nil || !ok {
		t.Fatalf("Rate() = %v, %v; want true, nil even when publishing fails", ok, err)
	}
	if _, mine, _ := ratings.AggregateAndUserRating(context.Background(), movieID, "u1"); mine == nil || *mine != 4 {
		t.Errorf("rating not stored despite publish failure: %v", mine)
	}
}

func TestNoMovieRatedEventWhenMovieMissing(t *testing.T) {
	movies := newFakeMovieStore()
	ratings := newFakeRatingStore(movies)
	pub := &recordingPublisher{}
	svc := NewRatingService(ratings, movies, pub)

	if _, err := svc.Rate(context.Background(), "no-such-movie", "u1", 4); err != nil {
		t.Fatalf("rate errored: %v", err)
	}
	if len(pub.events) != 0 {
		t.Errorf("published %d events for a missing movie, want 0", len(pub.events))
	}
}

func TestListForUser(t *testing.T) {
	movies, ratings, movieID := seedRatedMovie(t)
	svc := NewRatingService(ratings, movies, nil)

	if _, err := svc.Rate(context.Background(), movieID, "u1", 3); err != nil {
		t.Fatalf("rate failed: %v", err)
	}
	if _, err := svc.Rate(context.Background(), movieID, "u2", 5); err != nil {
		t.Fatalf("rate failed: %v", err)
	}

	list, err := svc.ListForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("list length = %d, want 1", len(list))
	}
	got := list[0]
	if got.MovieID != movieID || got.Rating != 3 || got.Slug != "the-matrix-1999" {
		t.Errorf("listed rating = %+v", got)
	}
}

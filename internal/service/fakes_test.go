package service

import (
	"context"
	"math"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/queue"
)

// fakeMovieStore is an in-memory MovieStore used by the service tests.
// It mirrors the repository contract: a missing movie is (nil, nil),
// update never inserts, delete reports whether a row was removed.
type fakeMovieStore struct {
	movies map[string]*model.Movie
}

func newFakeMovieStore() *fakeMovieStore {
	return &fakeMovieStore{movies: make(map[string]*model.Movie)}
}

func (s *fakeMovieStore) Create(ctx context.Context, m *model.Movie) (bool, error) {
	if _, exists := s.movies[m.ID]; exists {
		return false, nil
	}
	cp := *m
	s.movies[m.ID] = &cp
	return true, nil
}

func (s *fakeMovieStore) GetByID(ctx context.Context, id string) (*model.Movie, error) {
	m, ok := s.movies[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (s *fakeMovieStore) GetBySlug(ctx context.Context, slug string) (*model.Movie, error) {
	for _, m := range s.movies {
		if m.Slug() == slug {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeMovieStore) GetAll(ctx context.Context) ([]*model.Movie, error) {
	out := make([]*model.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeMovieStore) Update(ctx context.Context, m *model.Movie) (bool, error) {
	if _, exists := s.movies[m.ID]; !exists {
		return false, nil
	}
	cp := *m
	s.movies[m.ID] = &cp
	return true, nil
}

func (s *fakeMovieStore) Delete(ctx context.Context, id string) (bool, error) {
	if _, exists := s.movies[id]; !exists {
		return false, nil
	}
	delete(s.movies, id)
	return true, nil
}

func (s *fakeMovieStore) ExistsByID(ctx context.Context, id string) (bool, error) {
	_, exists := s.movies[id]
	return exists, nil
}

// fakeRatingStore keeps ratings as movieID -> userID -> value. It
// borrows the movie store for slug joins in ListForUser.
type fakeRatingStore struct {
	ratings map[string]map[string]int
	movies  *fakeMovieStore
}

func newFakeRatingStore(movies *fakeMovieStore) *fakeRatingStore {
	return &fakeRatingStore{ratings: make(map[string]map[string]int), movies: movies}
}

func (s *fakeRatingStore) Rate(ctx context.Context, movieID, userID string, rating int) (bool, error) {
	if s.ratings[movieID] == nil {
		s.ratings[movieID] = make(map[string]int)
	}
	s.ratings[movieID][userID] = rating
	return true, nil
}

func (s *fakeRatingStore) Unrate(ctx context.Context, movieID, userID string) (bool, error) {
	if _, ok := s.ratings[movieID][userID]; !ok {
		return false, nil
	}
	delete(s.ratings[movieID], userID)
	return true, nil
}

func (s *fakeRatingStore) AggregateRating(ctx context.Context, movieID string) (*float64, error) {
	byUser := s.ratings[movieID]
	if len(byUser) == 0 {
		return nil, nil
	}
	sum := 0
	for _, v := range byUser {
		sum += v
	}
	avg := math.Round(float64(sum)/float64(len(byUser))*10) / 10
	return &avg, nil
}

func (s *fakeRatingStore) AggregateAndUserRating(ctx context.Context, movieID, userID string) (*float64, *int, error) {
	agg, err := s.AggregateRating(ctx, movieID)
	if err != nil {
		return nil, nil, err
	}
	var mine *int
	if v, ok := s.ratings[movieID][userID]; ok {
		mine = &v
	}
	return agg, mine, nil
}

func (s *fakeRatingStore) ListForUser(ctx context.Context, userID string) ([]model.MovieRating, error) {
	var out []model.MovieRating
	for movieID, byUser := range s.ratings {
		if v, ok := byUser[userID]; ok {
			slug := ""
			if m := s.movies.movies[movieID]; m != nil {
				slug = m.Slug()
			}
			out = append(out, model.MovieRating{MovieID: movieID, Slug: slug, Rating: v})
		}
	}
	return out, nil
}

// recordingPublisher captures rating events instead of talking to a
// broker.
type recordingPublisher struct {
	events []queue.RatingEvent
	err    error
}

func (p *recordingPublisher) PublishRatingEvent(ctx context.Context, ev queue.RatingEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

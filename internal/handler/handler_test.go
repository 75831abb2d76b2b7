package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/service"
)

// memMovies and memRatings are in-memory stores backing the handler
// tests. Both follow the repository contract: missing rows are
// (nil, nil) or (false, nil), never errors.
type memMovies struct {
	byID map[string]*model.Movie
}

func newMemMovies() *memMovies {
	return &memMovies{byID: make(map[string]*model.Movie)}
}

func (s *memMovies) Create(ctx context.Context, m *model.Movie) (bool, error) {
	cp := *m
	s.byID[m.ID] = &cp
	return true, nil
}

func (s *memMovies) GetByID(ctx context.Context, id string) (*model.Movie, error) {
	m, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (s *memMovies) GetBySlug(ctx context.Context, slug string) (*model.Movie, error) {
	for _, m := range s.byID {
		if m.Slug() == slug {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memMovies) GetAll(ctx context.Context) ([]*model.Movie, error) {
	out := make([]*model.Movie, 0, len(s.byID))
	for _, m := range s.byID {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memMovies) Update(ctx context.Context, m *model.Movie) (bool, error) {
	if _, ok := s.byID[m.ID]; !ok {
		return false, nil
	}
	cp := *m
	s.byID[m.ID] = &cp
	return true, nil
}

func (s *memMovies) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := s.byID[id]; !ok {
		return false, nil
	}
	delete(s.byID, id)
	return true, nil
}

func (s *memMovies) ExistsByID(ctx context.Context, id string) (bool, error) {
	_, ok := s.byID[id]
	return ok, nil
}

type memRatings struct {
	byMovie map[string]map[string]int
	movies  *memMovies
}

func newMemRatings(movies *memMovies) *memRatings {
	return &memRatings{byMovie: make(map[string]map[string]int), movies: movies}
}

func (s *memRatings) Rate(ctx context.Context, movieID, userID string, rating int) (bool, error) {
	if s.byMovie[movieID] == nil {
		s.byMovie[movieID] = make(map[string]int)
	}
	s.byMovie[movieID][userID] = rating
	return true, nil
}

func (s *memRatings) Unrate(ctx context.Context, movieID, userID string) (bool, error) {
	if _, ok := s.byMovie[movieID][userID]; !ok {
		return false, nil
	}
	delete(s.byMovie[movieID], userID)
	return true, nil
}

func (s *memRatings) AggregateRating(ctx context.Context, movieID string) (*float64, error) {
	byUser := s.byMovie[movieID]
	if len(byUser) == 0 {
		return nil, nil
	}
	sum := 0
	for _, v := range byUser {
		sum += v
	}
	avg := float64(sum) / float64(len(byUser))
	return &avg, nil
}

func (s *memRatings) AggregateAndUserRating(ctx context.Context, movieID, userID string) (*float64, *int, error) {
	agg, err := s.AggregateRating(ctx, movieID)
	if err != nil {
		return nil, nil, err
	}
	var mine *int
	if v, ok := s.byMovie[movieID][userID]; ok {
		mine = &v
	}
	return agg, mine, nil
}

func (s *memRatings) ListForUser(ctx context.Context, userID string) ([]model.MovieRating, error) {
	var out []model.MovieRating
	for movieID, byUser := range s.byMovie {
		if v, ok := byUser[userID]; ok {
			slug := ""
			if m := s.movies.byID[movieID]; m != nil {
				slug = m.Slug()
			}
			out = append(out, model.MovieRating{MovieID: movieID, Slug: slug, Rating: v})
		}
	}
	return out, nil
}

// newTestHandlers wires real services over the in-memory stores so the
// tests exercise the full handler->service->store path.
func newTestHandlers() (*MovieHandler, *RatingHandler, *memMovies, *memRatings) {
	movies := newMemMovies()
	ratings := newMemRatings(movies)
	movieSvc := service.NewMovieService(movies, ratings)
	ratingSvc := service.NewRatingService(ratings, movies, nil)
	return NewMovieHandler(movieSvc), NewRatingHandler(ratingSvc), movies, ratings
}

// doJSON runs a handler against a synthetic request and returns the
// recorder. Path params and context values (user identity) are applied
// before the handler runs.
func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string, params map[string]string, userID string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	if userID != "" {
		c.Set("user_id", userID)
		c.Set("role", model.RoleUser)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

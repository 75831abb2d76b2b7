// Package handler defines the HTTP handlers for the catalog API. This
// file implements the movie endpoints: create, read (by id or slug),
// list, update and delete. Validation failures come back as a
// structured list of {field, message} pairs with a 400 status; a
// missing movie is a bare 404 with no payload.
package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/service"
)

// MovieHandler bundles the movie endpoints' single dependency.
type MovieHandler struct {
	Movies *service.MovieService
}

// NewMovieHandler constructs a MovieHandler.
func NewMovieHandler(movies *service.MovieService) *MovieHandler {
	return &MovieHandler{Movies: movies}
}

// ----- DTOs -----

type movieReq struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Duration    int      `json:"duration"`
	ReleaseYear int      `json:"releaseYear"`
	Director    *string  `json:"director,omitempty"`
	Trailer     *string  `json:"trailer,omitempty"`
	Image       string   `json:"image"`
	Genres      []string `json:"genres"`
	Cast        []string `json:"cast"`
}

type movieResp struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Duration    int      `json:"duration"`
	ReleaseYear int      `json:"releaseYear"`
	Director    *string  `json:"director,omitempty"`
	Trailer     *string  `json:"trailer,omitempty"`
	Image       string   `json:"image"`
	Genres      []string `json:"genres"`
	Cast        []string `json:"cast"`
	Rating      *float64 `json:"rating,omitempty"`
	UserRating  *int     `json:"userRating,omitempty"`
}

type validationResp struct {
	Errors []service.FieldError `json:"errors"`
}

func (r movieReq) toMovie(id string) *model.Movie {
	return &model.Movie{
		ID:          id,
		Title:       r.Title,
		Description: r.Description,
		Duration:    r.Duration,
		ReleaseYear: r.ReleaseYear,
		Director:    r.Director,
		Trailer:     r.Trailer,
		Image:       r.Image,
		Genres:      r.Genres,
		Cast:        r.Cast,
	}
}

func toMovieResp(m *model.Movie) movieResp {
	genres := m.Genres
	if genres == nil {
		genres = []string{}
	}
	cast := m.Cast
	if cast == nil {
		cast = []string{}
	}
	return movieResp{
		ID:          m.ID,
		Slug:        m.Slug(),
		Title:       m.Title,
		Description: m.Description,
		Duration:    m.Duration,
		ReleaseYear: m.ReleaseYear,
		Director:    m.Director,
		Trailer:     m.Trailer,
		Image:       m.Image,
		Genres:      genres,
		Cast:        cast,
		Rating:      m.Rating,
		UserRating:  m.UserRating,
	}
}

// writeServiceError maps service-layer failures onto HTTP responses.
// Validation failures (including a slug race caught by the unique
// index) become 400 with the field list; anything else is a generic 500
// so internals never leak.
func writeServiceError(c echo.Context, err error) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, validationResp{Errors: verr.Errors})
	}
	if errors.Is(err, repository.ErrDuplicateSlug) {
		return c.JSON(http.StatusBadRequest, validationResp{Errors: []service.FieldError{
			{Field: "slug", Message: "a movie with this title and release year already exists"},
		}})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// Create handles POST /api/movies. Requires a trusted member or admin
// token. Returns 201 with the created movie or 400 with the collected
// validation failures.
func (h *MovieHandler) Create(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	m := req.toMovie("") // service assigns the id
	ok, err := h.Movies.Create(c.Request().Context(), m)
	if err != nil {
		return writeServiceError(c, err)
	}
	if !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, toMovieResp(m))
}

// Get handles GET /api/movies/:idOrSlug. The parameter is dispatched as
// a UUID when it parses as one and as a slug otherwise. When the caller
// is authenticated, their own rating is included.
func (h *MovieHandler) Get(c echo.Context) error {
	idOrSlug := c.Param("idOrSlug")
	userID := optionalUserID(c)

	var (
		m   *model.Movie
		err error
	)
	if _, perr := uuid.Parse(idOrSlug); perr == nil {
		m, err = h.Movies.GetByID(c.Request().Context(), idOrSlug, userID)
	} else {
		m, err = h.Movies.GetBySlug(c.Request().Context(), idOrSlug, userID)
	}
	if err != nil {
		return writeServiceError(c, err)
	}
	if m == nil {
		return c.NoContent(http.StatusNotFound)
	}
	return c.JSON(http.StatusOK, toMovieResp(m))
}

// GetAll handles GET /api/movies.
func (h *MovieHandler) GetAll(c echo.Context) error {
	movies, err := h.Movies.GetAll(c.Request().Context(), optionalUserID(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	out := make([]movieResp, 0, len(movies))
	for _, m := range movies {
		out = append(out, toMovieResp(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": out})
}

// Update handles PUT /api/movies/:id. A well-formed request against a
// missing id yields 404; validation failures yield 400. On success the
// updated movie is returned with current rating data.
func (h *MovieHandler) Update(c echo.Context) error {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	m, err := h.Movies.Update(c.Request().Context(), req.toMovie(id), optionalUserID(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	if m == nil {
		return c.NoContent(http.StatusNotFound)
	}
	return c.JSON(http.StatusOK, toMovieResp(m))
}

// Delete handles DELETE /api/movies/:id. Admin only. Ratings and child
// rows vanish with the movie in one transaction.
func (h *MovieHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ok, err := h.Movies.Delete(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}
	return c.NoContent(http.StatusNoContent)
}

// optionalUserID returns the authenticated user's id from context, or
// nil for anonymous requests. OptionalAuth/JWTAuth set the value.
func optionalUserID(c echo.Context) *string {
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		return &v
	}
	return nil
}

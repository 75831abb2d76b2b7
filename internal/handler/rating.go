package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/service"
)

// RatingHandler implements the rating endpoints. All of them require an
// authenticated user; the movie id comes from the path and the user id
// from the token.
type RatingHandler struct {
	Ratings *service.RatingService
}

// NewRatingHandler constructs a RatingHandler.
func NewRatingHandler(ratings *service.RatingService) *RatingHandler {
	return &RatingHandler{Ratings: ratings}
}

type rateReq struct {
	Rating int `json:"rating"`
}

type userRatingResp struct {
	MovieID string `json:"movieId"`
	Slug    string `json:"slug"`
	Rating  int    `json:"rating"`
}

// Rate handles PUT /api/movies/:id/ratings. Re-rating overwrites the
// previous value. Out-of-range values are rejected with the same
// {field, message} shape as movie validation; a missing movie is 404.
func (h *RatingHandler) Rate(c echo.Context) error {
	movieID := c.Param("id")
	if _, err := uuid.Parse(movieID); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req rateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	rated, err := h.Ratings.Rate(c.Request().Context(), movieID, userID, req.Rating)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRating) {
			return c.JSON(http.StatusBadRequest, validationResp{Errors: []service.FieldError{
				{Field: "rating", Message: "rating must be between 1 and 5"},
			}})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if !rated {
		return c.NoContent(http.StatusNotFound)
	}
	return c.NoContent(http.StatusOK)
}

// Unrate handles DELETE /api/movies/:id/ratings. Removing a rating that
// does not exist (or rating a missing movie) yields 404.
func (h *RatingHandler) Unrate(c echo.Context) error {
	movieID := c.Param("id")
	if _, err := uuid.Parse(movieID); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	removed, err := h.Ratings.Unrate(c.Request().Context(), movieID, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if !removed {
		return c.NoContent(http.StatusNotFound)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetUserRatings handles GET /api/ratings/me: every rating the
// authenticated user has made, with the movie slug for display.
func (h *RatingHandler) GetUserRatings(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ratings, err := h.Ratings.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	out := make([]userRatingResp, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, userRatingResp{MovieID: r.MovieID, Slug: r.Slug, Rating: r.Rating})
	}
	return c.JSON(http.StatusOK, echo.Map{"ratings": out})
}

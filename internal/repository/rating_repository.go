package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// RatingRepo owns the ratings table. Every operation here is a single
// statement, so no explicit transactions are needed; the composite
// primary key (user_id, movie_id) enforces at most one rating per user
// per movie. Range validation happens upstream in the service layer.
type RatingRepo struct {
	db *sql.DB
}

// NewRatingRepo constructs a RatingRepo bound to the given database.
func NewRatingRepo(db *sql.DB) *RatingRepo {
	return &RatingRepo{db: db}
}

// Rate upserts a rating on the (user, movie) composite key. A repeated
// rating from the same user overwrites the previous value instead of
// adding a second row.
func (r *RatingRepo) Rate(ctx context.Context, movieID, userID string, rating int) (bool, error) {
	const q = `INSERT INTO ratings (user_id, movie_id, rating) VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE rating = VALUES(rating)`
	res, err := r.db.ExecContext(ctx, q, userID, movieID, rating)
	if err != nil {
		return false, fmt.Errorf("rate movie: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Unrate deletes the single matching rating row. Returns false when the
// user had no rating for the movie.
func (r *RatingRepo) Unrate(ctx context.Context, movieID, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM ratings WHERE movie_id = ? AND user_id = ?", movieID, userID)
	if err != nil {
		return false, fmt.Errorf("unrate movie: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AggregateRating returns the mean of all ratings for a movie rounded
// to one decimal place, or nil when the movie has no ratings. AVG over
// zero rows yields NULL, which is exactly the absent case.
func (r *RatingRepo) AggregateRating(ctx context.Context, movieID string) (*float64, error) {
	var avg sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		"SELECT ROUND(AVG(rating), 1) FROM ratings WHERE movie_id = ?", movieID).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("aggregate rating: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

// AggregateAndUserRating returns the aggregate together with the given
// user's own rating in one round trip. Either value may be nil.
func (r *RatingRepo) AggregateAndUserRating(ctx context.Context, movieID, userID string) (*float64, *int, error) {
	const q = `SELECT ROUND(AVG(rating), 1),
	                  (SELECT rating FROM ratings WHERE movie_id = ? AND user_id = ? LIMIT 1)
	           FROM ratings WHERE movie_id = ?`
	var (
		avg  sql.NullFloat64
		mine sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, q, movieID, userID, movieID).Scan(&avg, &mine)
	if err != nil {
		return nil, nil, fmt.Errorf("aggregate and user rating: %w", err)
	}
	var aggregate *float64
	if avg.Valid {
		aggregate = &avg.Float64
	}
	var userRating *int
	if mine.Valid {
		v := int(mine.Int64)
		userRating = &v
	}
	return aggregate, userRating, nil
}

// ListForUser returns every rating the user has made, joined with the
// movie slug for display.
func (r *RatingRepo) ListForUser(ctx context.Context, userID string) ([]model.MovieRating, error) {
	const q = `SELECT r.movie_id, m.slug, r.rating
	           FROM ratings r
	           INNER JOIN movies m ON r.movie_id = m.id
	           WHERE r.user_id = ?`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list user ratings: %w", err)
	}
	defer rows.Close()

	var out []model.MovieRating
	for rows.Next() {
		var mr model.MovieRating
		if err := rows.Scan(&mr.MovieID, &mr.Slug, &mr.Rating); err != nil {
			return nil, err
		}
		out = append(out, mr)
	}
	return out, rows.Err()
}

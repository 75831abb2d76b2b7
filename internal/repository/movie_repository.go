package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// MovieRepo owns the movies, genres, cast_members and ratings-cleanup
// side of the schema. Every multi-statement write runs inside a single
// transaction: either all rows land or none do. Child rows are always
// deleted before their parent to satisfy the foreign keys.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle. This
// allows dependency injection of the database in tests and at startup.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// movieColumns is the scalar column list shared by every movie SELECT.
// The slug column is written on create/update but never scanned back;
// the entity derives it from title and release year.
const movieColumns = "id, title, description, duration, release_year, director, trailer, image"

// Create inserts the movie row and one child row per genre and cast
// member inside one transaction. If the movie row insert affects no
// rows, the children are skipped and false is returned. A duplicate id
// or slug aborts the transaction; nothing is left behind.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin create movie: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const q = `INSERT INTO movies (id, slug, title, description, duration, release_year, director, trailer, image)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		m.ID, m.Slug(), m.Title, m.Description, m.Duration, m.ReleaseYear, m.Director, m.Trailer, m.Image)
	if err != nil {
		if isDuplicateKey(err) {
			return false, ErrDuplicateSlug
		}
		return false, fmt.Errorf("insert movie: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	if err := insertChildrenTx(ctx, tx, "genres", m.ID, m.Genres); err != nil {
		return false, fmt.Errorf("insert genres: %w", err)
	}
	if err := insertChildrenTx(ctx, tx, "cast_members", m.ID, m.Cast); err != nil {
		return false, fmt.Errorf("insert cast: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit create movie: %w", err)
	}
	return true, nil
}

// GetByID fetches a movie with its genre and cast collections attached.
// A missing movie is not an error: the result is simply nil.
func (r *MovieRepo) GetByID(ctx context.Context, id string) (*model.Movie, error) {
	return r.getOne(ctx, "SELECT "+movieColumns+" FROM movies WHERE id = ?", id)
}

// GetBySlug is the same lookup keyed by the derived slug column. The
// stored slug always matches the create-time derivation, so looking it
// up here is equivalent to recomputing it.
func (r *MovieRepo) GetBySlug(ctx context.Context, slug string) (*model.Movie, error) {
	return r.getOne(ctx, "SELECT "+movieColumns+" FROM movies WHERE slug = ?", slug)
}

func (r *MovieRepo) getOne(ctx context.Context, query string, arg any) (*model.Movie, error) {
	m, err := scanMovie(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query movie: %w", err)
	}
	if m.Genres, err = r.childNames(ctx, "genres", m.ID); err != nil {
		return nil, err
	}
	if m.Cast, err = r.childNames(ctx, "cast_members", m.ID); err != nil {
		return nil, err
	}
	return m, nil
}

// GetAll returns every movie with its child collections. The children
// are loaded with two set queries and stitched onto the parents in
// memory, so each movie appears exactly once regardless of how many
// genre or cast rows it owns.
func (r *MovieRepo) GetAll(ctx context.Context) ([]*model.Movie, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+movieColumns+" FROM movies")
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	var movies []*model.Movie
	byID := make(map[string]*model.Movie)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, m)
		byID[m.ID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return movies, nil
	}

	attach := func(table string, assign func(m *model.Movie, name string)) error {
		crows, err := r.db.QueryContext(ctx, "SELECT movie_id, name FROM "+table)
		if err != nil {
			return fmt.Errorf("query %s: %w", table, err)
		}
		defer crows.Close()
		for crows.Next() {
			var movieID, name string
			if err := crows.Scan(&movieID, &name); err != nil {
				return err
			}
			if m, ok := byID[movieID]; ok {
				assign(m, name)
			}
		}
		return crows.Err()
	}
	if err := attach("genres", func(m *model.Movie, name string) { m.Genres = append(m.Genres, name) }); err != nil {
		return nil, err
	}
	if err := attach("cast_members", func(m *model.Movie, name string) { m.Cast = append(m.Cast, name) }); err != nil {
		return nil, err
	}
	return movies, nil
}

// Update replaces the movie's child sets and scalar row in one
// transaction: delete all genre rows, delete all cast rows, re-insert
// the incoming sets, then update the movie row. The movie row is never
// inserted here; a caller updating a missing id gets false back (the
// child inserts fail on the foreign key first, which also rolls back).
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin update movie: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM genres WHERE movie_id = ?", m.ID); err != nil {
		return false, fmt.Errorf("delete genres: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM cast_members WHERE movie_id = ?", m.ID); err != nil {
		return false, fmt.Errorf("delete cast: %w", err)
	}
	if err := insertChildrenTx(ctx, tx, "genres", m.ID, m.Genres); err != nil {
		return false, fmt.Errorf("insert genres: %w", err)
	}
	if err := insertChildrenTx(ctx, tx, "cast_members", m.ID, m.Cast); err != nil {
		return false, fmt.Errorf("insert cast: %w", err)
	}

	const q = `UPDATE movies SET slug = ?, title = ?, description = ?, duration = ?, release_year = ?, director = ?, trailer = ?, image = ?
	           WHERE id = ?`
	res, err := tx.ExecContext(ctx, q,
		m.Slug(), m.Title, m.Description, m.Duration, m.ReleaseYear, m.Director, m.Trailer, m.Image, m.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return false, ErrDuplicateSlug
		}
		return false, fmt.Errorf("update movie: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit update movie: %w", err)
	}
	return n > 0, nil
}

// Delete removes a movie and everything hanging off it in one
// transaction. Order matters: genre, cast and rating rows reference the
// movie row, so they go first. Returns true iff the movie row itself
// was removed.
func (r *MovieRepo) Delete(ctx context.Context, id string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete movie: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"genres", "cast_members", "ratings"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE movie_id = ?", id); err != nil {
			return false, fmt.Errorf("delete %s: %w", table, err)
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete movie: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete movie: %w", err)
	}
	return n > 0, nil
}

// ExistsByID reports whether a movie row exists. Read-only.
func (r *MovieRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM movies WHERE id = ?)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("movie exists: %w", err)
	}
	return exists, nil
}

// childNames loads the name column of a child table for one movie, in
// row insertion order.
func (r *MovieRepo) childNames(ctx context.Context, table, movieID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT name FROM "+table+" WHERE movie_id = ?", movieID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// insertChildrenTx bulk-inserts (movie_id, name) rows into a child
// table within the given transaction. An empty set is a no-op.
func insertChildrenTx(ctx context.Context, tx *sql.Tx, table, movieID string, names []string) error {
	if len(names) == 0 {
		return nil
	}
	query := "INSERT INTO " + table + " (movie_id, name) VALUES "
	args := make([]interface{}, 0, len(names)*2)
	for i, name := range names {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, movieID, name)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// rowScanner lets scanMovie work with both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanMovie decodes one movies row into the entity. Nullable columns go
// through sql.Null* and come out as pointers; the column contract is
// fixed by movieColumns.
func scanMovie(row rowScanner) (*model.Movie, error) {
	var (
		m                             model.Movie
		description, director, trailer sql.NullString
	)
	if err := row.Scan(&m.ID, &m.Title, &description, &m.Duration, &m.ReleaseYear, &director, &trailer, &m.Image); err != nil {
		return nil, err
	}
	if description.Valid {
		m.Description = &description.String
	}
	if director.Valid {
		m.Director = &director.String
	}
	if trailer.Valid {
		m.Trailer = &trailer.String
	}
	return &m, nil
}

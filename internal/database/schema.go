package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds the idempotent DDL executed once at startup. Statements
// are ordered parents before children so that foreign keys resolve on a
// fresh database. The unique index on movies.slug is the storage-level
// backstop for the slug uniqueness invariant; the service layer checks
// it first, the index catches races between concurrent writers.
//
// The cast table is named cast_members because CAST is a reserved word
// in MySQL.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		id           CHAR(36)     NOT NULL,
		slug         VARCHAR(255) NOT NULL,
		title        VARCHAR(255) NOT NULL,
		description  TEXT         NULL,
		duration     INT          NOT NULL DEFAULT 0,
		release_year INT          NOT NULL,
		director     VARCHAR(255) NULL,
		trailer      TEXT         NULL,
		image        TEXT         NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY movies_slug_idx (slug)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS genres (
		movie_id CHAR(36)     NOT NULL,
		name     VARCHAR(255) NOT NULL,
		KEY genres_movie_id_idx (movie_id),
		CONSTRAINT fk_genres_movie FOREIGN KEY (movie_id) REFERENCES movies (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS cast_members (
		movie_id CHAR(36)     NOT NULL,
		name     VARCHAR(255) NOT NULL,
		KEY cast_members_movie_id_idx (movie_id),
		CONSTRAINT fk_cast_members_movie FOREIGN KEY (movie_id) REFERENCES movies (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS ratings (
		user_id  CHAR(36) NOT NULL,
		movie_id CHAR(36) NOT NULL,
		rating   TINYINT  NOT NULL,
		PRIMARY KEY (user_id, movie_id),
		CONSTRAINT fk_ratings_movie FOREIGN KEY (movie_id) REFERENCES movies (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS users (
		id            CHAR(36)     NOT NULL,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		role          VARCHAR(32)  NOT NULL DEFAULT 'USER',
		is_active     TINYINT(1)   NOT NULL DEFAULT 1,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY users_email_idx (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id    CHAR(36)        NOT NULL,
		token_hash CHAR(64)        NOT NULL,
		expires_at DATETIME        NOT NULL,
		revoked_at DATETIME        NULL,
		created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY refresh_tokens_hash_idx (token_hash),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Initialize creates all required tables and indexes if they do not
// exist yet. It is safe to run on every startup; existing tables are
// left untouched. Any failure aborts with the offending statement
// wrapped in the error.
func Initialize(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}
	}
	return nil
}

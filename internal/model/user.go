package model

import "time"

// Roles carried in the JWT "role" claim. TRUSTED_MEMBER and ADMIN may
// create and update movies; only ADMIN may delete them. Every
// authenticated user may rate.
const (
	RoleUser          = "USER"
	RoleTrustedMember = "TRUSTED_MEMBER"
	RoleAdmin         = "ADMIN"
)

// User represents an account row in the `users` table. IDs are UUID
// strings so that rating rows and JWT subjects share one identifier
// format with movies.
type User struct {
	ID           string    // users.id
	Email        string    // users.email, stored lowercase
	PasswordHash string    // users.password_hash (bcrypt)
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hash of the raw token is persisted; the raw value is handed
// to the client once and never stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    string     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}

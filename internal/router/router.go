// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/model"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Register, login,
// refresh and logout are open; /api/auth/me requires a valid access
// token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterCatalog wires the movie and rating endpoints.
//
// Reads are public but personalized: OptionalAuth extracts the caller's
// identity when a token is present so responses can include their own
// rating. Writes are gated by role: trusted members and admins may
// create and update movies, only admins may delete them, and any
// authenticated user may rate. The limiter middleware wraps the write
// endpoints; pass a no-op middleware to disable it.
func RegisterCatalog(e *echo.Echo, m *handler.MovieHandler, r *handler.RatingHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	// Public, personalized reads.
	reads := e.Group("/api", middleware.OptionalAuth(jwtSecret))
	reads.GET("/movies", m.GetAll)
	reads.GET("/movies/:idOrSlug", m.Get)

	// Catalog writes: trusted members and admins.
	writes := e.Group("/api", limit, middleware.JWTAuth(jwtSecret))
	trusted := writes.Group("", middleware.RequireRole(model.RoleTrustedMember, model.RoleAdmin))
	trusted.POST("/movies", m.Create)
	trusted.PUT("/movies/:id", m.Update)

	// Destructive operations: admins only.
	admin := writes.Group("", middleware.RequireRole(model.RoleAdmin))
	admin.DELETE("/movies/:id", m.Delete)

	// Ratings: any authenticated user.
	rated := writes.Group("", middleware.RequireRole(model.RoleUser, model.RoleTrustedMember, model.RoleAdmin))
	rated.PUT("/movies/:id/ratings", r.Rate)
	rated.DELETE("/movies/:id/ratings", r.Unrate)
	rated.GET("/ratings/me", r.GetUserRatings)
}

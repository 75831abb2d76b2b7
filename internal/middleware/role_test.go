package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
)

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		role    string
		want    int
	}{
		{
			name:    "admin allowed for admin route",
			allowed: []string{model.RoleAdmin},
			role:    model.RoleAdmin,
			want:    http.StatusOK,
		},
		{
			name:    "trusted member allowed for write route",
			allowed: []string{model.RoleTrustedMember, model.RoleAdmin},
			role:    model.RoleTrustedMember,
			want:    http.StatusOK,
		},
		{
			name:    "plain user denied for write route",
			allowed: []string{model.RoleTrustedMember, model.RoleAdmin},
			role:    model.RoleUser,
			want:    http.StatusForbidden,
		},
		{
			name:    "trusted member denied for admin route",
			allowed: []string{model.RoleAdmin},
			role:    model.RoleTrustedMember,
			want:    http.StatusForbidden,
		},
		{
			name:    "missing role denied",
			allowed: []string{model.RoleUser, model.RoleTrustedMember, model.RoleAdmin},
			role:    "",
			want:    http.StatusForbidden,
		},
		{
			name:    "unknown role denied",
			allowed: []string{model.RoleAdmin},
			role:    "SUPERUSER",
			want:    http.StatusForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.role != "" {
				c.Set("role", tt.role)
			}

			next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
			if err := RequireRole(tt.allowed...)(next)(c); err != nil {
				t.Fatalf("middleware returned error: %v", err)
			}
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

package middleware

import (
	"net/http"
	"strings"

	"verifyme-backend/internal/domain/account"
	accountUC "verifyme-backend/internal/usecase/account"

	"github.com/labstack/echo/v4"
)

const userContextKey = "auth.user"

// Auth parses the Bearer token and loads the user onto the context.
// Missing, malformed, expired or unknown tokens all return 401.
func Auth(accounts *accountUC.Usecase) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			const prefix = "Bearer "
			if raw == "" || !strings.HasPrefix(raw, prefix) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			user, err := accounts.Authenticate(c.Request().Context(), strings.TrimSpace(raw[len(prefix):]))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user Auth stored on the context, nil outside
// an authenticated route.
func CurrentUser(c echo.Context) *account.User {
	u, _ := c.Get(userContextKey).(*account.User)
	return u
}

// RequireRoles rejects authenticated users whose role is not listed.
func RequireRoles(roles ...account.Role) echo.MiddlewareFunc {
	allowed := make(map[account.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := CurrentUser(c)
			if u == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			if !allowed[u.Role] {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "insufficient role"})
			}
			return next(c)
		}
	}
}

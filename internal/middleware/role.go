package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/da-dashboard/internal/model"
)

// RequireKind lets the request through only when the authenticated
// principal has one of kinds.  It must run after BearerAuth.
func RequireKind(kinds ...model.Kind) echo.MiddlewareFunc {
	allowed := make(map[model.Kind]bool, len(kinds))
	for _, k := range kinds {
		allowed[k] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			if !allowed[p.Kind] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

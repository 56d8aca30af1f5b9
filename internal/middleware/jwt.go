package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/da-dashboard/internal/utils"
)

// BearerAuth validates the Authorization bearer token and stores the
// decoded principal on the context.  Any missing, malformed, forged or
// expired token is answered with 401 and the same body.
func BearerAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			p, ok := utils.DecodePrincipal(secret, raw)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			SetPrincipal(c, p)
			return next(c)
		}
	}
}

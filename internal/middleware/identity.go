package middleware

// identity.go holds the helpers that move the authenticated principal
// through the echo context.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/da-dashboard/internal/model"
)

const principalKey = "principal"

// SetPrincipal stores p on the request context.
func SetPrincipal(c echo.Context, p model.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the principal stored by BearerAuth.
func PrincipalFrom(c echo.Context) (model.Principal, bool) {
	p, ok := c.Get(principalKey).(model.Principal)
	return p, ok
}

// principalLabel names the caller for logs, "anonymous" before login.
func principalLabel(c echo.Context) string {
	if p, ok := PrincipalFrom(c); ok {
		return string(p.Kind) + ":" + p.Identifier
	}
	return "anonymous"
}

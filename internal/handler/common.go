// Package handler exposes the HTTP handlers of the dashboard API.  Every
// error response has the shape {"error": "<message>"}.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/da-dashboard/internal/middleware"
	"github.com/iliyamo/da-dashboard/internal/model"
	"github.com/iliyamo/da-dashboard/internal/repository"
	"github.com/iliyamo/da-dashboard/internal/service"
)

// requestTimeout bounds the store work of one request.
const requestTimeout = 5 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// statusFor maps an error class to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrMissingFields), errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func respondError(c echo.Context, err error) error {
	msg := service.Message(err)
	if errors.Is(err, repository.ErrNotFound) {
		msg = "DA not found"
	}
	return c.JSON(statusFor(err), echo.Map{"error": msg})
}

// currentPrincipal returns the principal set by the bearer middleware.
func currentPrincipal(c echo.Context) (model.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return model.Principal{}, service.ErrUnauthorized
	}
	return p, nil
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/da-dashboard/internal/model"
	"github.com/iliyamo/da-dashboard/internal/repository"
	"github.com/iliyamo/da-dashboard/internal/service"
)

// StatsHandler serves the public statistics and the per-caller KPIs.
type StatsHandler struct {
	Stats  *repository.StatsRepo
	Users  *repository.DAUserRepo
	Scopes *service.ScopeCalculator
	Log    *zap.Logger
}

func NewStatsHandler(stats *repository.StatsRepo, users *repository.DAUserRepo, scopes *service.ScopeCalculator, log *zap.Logger) *StatsHandler {
	return &StatsHandler{Stats: stats, Users: users, Scopes: scopes, Log: log}
}

// PublicStats returns ministry-wide aggregates.  No authentication.
func (h *StatsHandler) PublicStats(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	out, err := h.Stats.PublicStats(ctx)
	if err != nil {
		h.Log.Error("public stats failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, out)
}

// KPIs compares the caller's scope with the whole table.
func (h *StatsHandler) KPIs(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	scope, err := h.Scopes.ScopeFor(ctx, p, false)
	if err != nil {
		return respondError(c, err)
	}

	var k model.KPIs
	if k.GlobalTotalDAs, k.GlobalTotalData, err = h.Stats.GlobalTotals(ctx); err != nil {
		h.Log.Error("global totals failed", zap.Error(err))
		return respondError(c, err)
	}
	if scope.AllRows {
		k.RepTotalDAs, k.RepTotalData = k.GlobalTotalDAs, k.GlobalTotalData
		return c.JSON(http.StatusOK, k)
	}
	if k.RepTotalDAs, k.RepTotalData, err = h.Users.Totals(ctx, scope); err != nil {
		h.Log.Error("scoped totals failed", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, k)
}

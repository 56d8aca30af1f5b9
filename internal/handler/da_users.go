package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/da-dashboard/internal/queue"
	"github.com/iliyamo/da-dashboard/internal/repository"
	"github.com/iliyamo/da-dashboard/internal/service"
)

// EventPublisher receives a notification for every applied DA update.
type EventPublisher interface {
	PublishDAUpdated(ctx context.Context, ev queue.DAUpdatedEvent) error
}

// DAUserHandler serves the scoped DA listing, updates and filter options.
type DAUserHandler struct {
	Users  *repository.DAUserRepo
	Scopes *service.ScopeCalculator
	Guard  *service.MutationGuard
	Events EventPublisher // optional
	Log    *zap.Logger
}

func NewDAUserHandler(users *repository.DAUserRepo, scopes *service.ScopeCalculator, guard *service.MutationGuard, events EventPublisher, log *zap.Logger) *DAUserHandler {
	return &DAUserHandler{Users: users, Scopes: scopes, Guard: guard, Events: events, Log: log}
}

func filterFromQuery(c echo.Context) repository.DAFilter {
	q := func(name string) string { return strings.TrimSpace(c.QueryParam(name)) }
	f := repository.DAFilter{
		Region: q("region"),
		Zone:   q("zone"),
		Woreda: q("woreda"),
		Kebele: q("kebele"),
		Status: q("status"),
		Search: q("q"),
	}
	if f.Search == "" {
		f.Search = q("search")
	}
	return f
}

// List returns the caller's DAs, narrowed by the query filters.
func (h *DAUserHandler) List(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	scope, err := h.Scopes.ScopeFor(ctx, p, c.QueryParam("global") == "true")
	if err != nil {
		return respondError(c, err)
	}
	users, err := h.Users.List(ctx, scope, filterFromQuery(c))
	if err != nil {
		h.Log.Error("list da users failed", zap.Error(err))
		return respondError(c, err)
	}
	service.SortDAUsers(users)
	return c.JSON(http.StatusOK, echo.Map{"daUsers": users})
}

// Update applies a status and/or data count change to one DA.
func (h *DAUserHandler) Update(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return respondError(c, err)
	}
	var req service.UpdateRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		// Read-only callers are refused whatever they send.
		if p.ReadOnly() {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "read-only access"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	upd, err := h.Guard.Authorize(ctx, p, req)
	if err != nil {
		if errors.Is(err, service.ErrInternal) {
			h.Log.Error("ownership check failed", zap.Error(err))
		}
		return respondError(c, err)
	}
	row, err := h.Users.ApplyUpdate(ctx, upd)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.Log.Error("update da user failed", zap.String("contact_number", upd.ContactNumber), zap.Error(err))
		}
		return respondError(c, err)
	}

	if h.Events != nil {
		ev := queue.NewDAUpdatedEvent(p, upd, row)
		pctx, pcancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := h.Events.PublishDAUpdated(pctx, ev); err != nil {
			h.Log.Warn("publish da.updated failed", zap.String("event_id", ev.EventID), zap.Error(err))
		}
		pcancel()
	}
	return c.JSON(http.StatusOK, echo.Map{"daUser": row})
}

// Filters returns the cascading region/zone/woreda/kebele choices within
// the caller's scope.  A region-locked caller always has its own region
// selected.
func (h *DAUserHandler) Filters(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	scope, err := h.Scopes.ScopeFor(ctx, p, c.QueryParam("global") == "true")
	if err != nil {
		return respondError(c, err)
	}
	locs, err := h.Users.Locations(ctx, scope)
	if err != nil {
		h.Log.Error("load da locations failed", zap.Error(err))
		return respondError(c, err)
	}
	f := filterFromQuery(c)
	if scope.RegionLocked {
		locs = repository.LockRegion(locs, p.Region)
		f.Region = p.Region
	}
	return c.JSON(http.StatusOK, repository.CascadeOptions(locs, f))
}

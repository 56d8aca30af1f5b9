package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iliyamo/da-dashboard/internal/model"
)

// UpdateRequest is the PATCH body.  status and total_data_collected are
// kept raw: an explicit null status is invalid, and clients send numbers,
// numeric strings and null alike for the total.
type UpdateRequest struct {
	ContactNumber      string          `json:"contact_number"`
	Status             json.RawMessage `json:"status"`
	TotalDataCollected json.RawMessage `json:"total_data_collected"`
}

// OwnershipChecker answers whether a DA reports to a given manager phone.
type OwnershipChecker interface {
	IsManagedBy(ctx context.Context, contactNumber, mobile string) (bool, error)
}

// MutationGuard decides whether a principal may apply an update.
type MutationGuard struct {
	owners       OwnershipChecker
	allowPending bool
}

func NewMutationGuard(owners OwnershipChecker, allowPending bool) *MutationGuard {
	return &MutationGuard{owners: owners, allowPending: allowPending}
}

// Authorize validates req for p and returns the update to apply.
// Read-only kinds are refused before the request is even looked at.
func (g *MutationGuard) Authorize(ctx context.Context, p model.Principal, req UpdateRequest) (model.DAUpdate, error) {
	if !p.Valid() {
		return model.DAUpdate{}, fmt.Errorf("%w: invalid principal", ErrUnauthorized)
	}
	if p.ReadOnly() {
		return model.DAUpdate{}, fmt.Errorf("%w: read-only access", ErrForbidden)
	}

	upd := model.DAUpdate{ContactNumber: strings.TrimSpace(req.ContactNumber)}
	if upd.ContactNumber == "" {
		return model.DAUpdate{}, fmt.Errorf("%w: contact_number required", ErrValidation)
	}
	if len(req.Status) > 0 {
		var st string
		if err := json.Unmarshal(req.Status, &st); err != nil || string(req.Status) == "null" {
			return model.DAUpdate{}, fmt.Errorf("%w: invalid status %s", ErrValidation, req.Status)
		}
		st = strings.TrimSpace(st)
		if !g.validStatus(st) {
			return model.DAUpdate{}, fmt.Errorf("%w: invalid status %q", ErrValidation, st)
		}
		upd.Status = &st
	}
	if len(req.TotalDataCollected) > 0 {
		n := CoerceTotal(req.TotalDataCollected)
		upd.TotalDataCollected = &n
	}
	if upd.Status == nil && upd.TotalDataCollected == nil {
		return model.DAUpdate{}, fmt.Errorf("%w: no fields to update", ErrValidation)
	}

	if p.ManagesOwnDAs() {
		ok, err := g.owners.IsManagedBy(ctx, upd.ContactNumber, p.Identifier)
		if err != nil {
			return model.DAUpdate{}, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		if !ok {
			return model.DAUpdate{}, fmt.Errorf("%w: not your DA", ErrForbidden)
		}
		upd.ManagerMobile = p.Identifier
	}
	return upd, nil
}

func (g *MutationGuard) validStatus(s string) bool {
	switch s {
	case model.StatusActive, model.StatusInactive:
		return true
	case model.StatusPending:
		return g.allowPending
	}
	return false
}

// CoerceTotal turns a raw JSON value into a data count.  Numbers are
// truncated, numeric strings parsed, anything else is 0, and negative
// results are clamped to 0.
func CoerceTotal(raw json.RawMessage) int64 {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(math.Trunc(f))
}

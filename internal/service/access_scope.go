package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/da-dashboard/internal/model"
)

// RegionResolver finds the stored spellings of a region name.
type RegionResolver interface {
	RegionVariants(ctx context.Context, region string) ([]string, error)
}

// ScopeCalculator derives the row scope of a principal.
type ScopeCalculator struct {
	regions RegionResolver
	log     *zap.Logger
}

func NewScopeCalculator(regions RegionResolver, log *zap.Logger) *ScopeCalculator {
	if log == nil {
		log = zap.NewNop()
	}
	return &ScopeCalculator{regions: regions, log: log}
}

// ScopeFor returns the rows p may see and whether p may write them.
// global only matters to a full administrator, who already sees every row;
// every other kind ignores it.
func (s *ScopeCalculator) ScopeFor(ctx context.Context, p model.Principal, global bool) (model.Scope, error) {
	if !p.Valid() {
		return model.Scope{}, fmt.Errorf("%w: invalid principal", ErrUnauthorized)
	}
	switch p.Kind {
	case model.KindAdministrator:
		return model.Scope{AllRows: true, CanWrite: true}, nil
	case model.KindViewOnlyAdministrator:
		return model.Scope{AllRows: true}, nil
	case model.KindRegionalManager:
		return s.regionScope(ctx, p.Region), nil
	case model.KindWoredaManager, model.KindWoredaRepresentative:
		return model.Scope{ManagerMobile: p.Identifier, CanWrite: true}, nil
	}
	return model.Scope{}, fmt.Errorf("%w: unknown principal kind", ErrUnauthorized)
}

// regionScope prefers the exact stored variants of region.  When none are
// found, or the lookup fails, rows are matched by trimmed case-insensitive
// comparison instead.
func (s *ScopeCalculator) regionScope(ctx context.Context, region string) model.Scope {
	sc := model.Scope{RegionLocked: true}
	variants, err := s.regions.RegionVariants(ctx, region)
	if err != nil {
		s.log.Warn("region variant lookup failed", zap.String("region", region), zap.Error(err))
	}
	if err == nil && len(variants) > 0 {
		sc.Regions = variants
		return sc
	}
	sc.RegionFold = region
	return sc
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/da-dashboard/internal/config"
	"github.com/iliyamo/da-dashboard/internal/database"
	"github.com/iliyamo/da-dashboard/internal/model"
	"github.com/iliyamo/da-dashboard/internal/repository"
	"github.com/iliyamo/da-dashboard/internal/utils"
)

// Fixed logins resolved without touching the store.
const (
	adminIdentifier         = "Admin@123"
	adminSecret             = "Admin@123"
	viewOnlyAdminIdentifier = "Admin123"
	viewOnlyAdminSecret     = "Admin123"
	regionalSecret          = "123"
	representativeSecret    = "123"
)

// regionalManagers maps a lowercased regional login to the region value as
// stored in da_users.  Some regions are stored in Ge'ez script.
var regionalManagers = map[string]string{
	"amhara@123":           "Amhara",
	"oromia@123":           "Oromia",
	"tigray@123":           "Tigray",
	"sidama@123":           "ሲዳማ",
	"afar@123":             "Afar",
	"somali@123":           "Somali",
	"benishangul@123":      "Benishangul Gumuz",
	"gambela@123":          "Gambela",
	"harari@123":           "Harari",
	"south_ethiopia@123":   "ደቡብ ኢትዮጵያ",
	"central_ethiopia@123": "ማዕከላዊ ኢትዮጵያ",
	"southwest@123":        "South West Ethiopia",
	"addis_ababa@123":      "Addis Ababa",
	"dire_dawa@123":        "Dire Dawa",
}

// RegionForLogin returns the region bound to a regional login, if any.
func RegionForLogin(identifier string) (string, bool) {
	r, ok := regionalManagers[strings.ToLower(strings.TrimSpace(identifier))]
	return r, ok
}

// CredentialStore reads the woreda credential tables.
type CredentialStore interface {
	ManagerByPhone(ctx context.Context, phone string) (model.WoredaManager, error)
	RepresentativeByPhone(ctx context.Context, phone string) (model.WoredaRepresentative, error)
}

// Identity is a resolved login: the principal and the name shown in the UI.
type Identity struct {
	Principal   model.Principal
	DisplayName string
}

// CredentialResolver maps an identifier/secret pair to a principal.
type CredentialResolver struct {
	store  CredentialStore
	scheme string
	log    *zap.Logger
}

func NewCredentialResolver(store CredentialStore, scheme string, log *zap.Logger) *CredentialResolver {
	if scheme == "" {
		scheme = config.SchemeManager
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CredentialResolver{store: store, scheme: scheme, log: log}
}

// Resolve authenticates one login attempt.  The first matching rule wins:
// fixed admin logins, the regional map, then the configured woreda scheme.
// Rejections are ErrInvalidCredentials regardless of cause; the cause is
// only logged.
func (r *CredentialResolver) Resolve(ctx context.Context, identifier, secret string) (Identity, error) {
	identifier = strings.TrimSpace(identifier)
	secret = strings.TrimSpace(secret)
	if identifier == "" || secret == "" {
		return Identity{}, fmt.Errorf("%w: identifier and secret are required", ErrMissingFields)
	}

	if identifier == adminIdentifier && secret == adminSecret {
		return Identity{
			Principal:   model.Principal{Kind: model.KindAdministrator, Identifier: identifier},
			DisplayName: "Administrator",
		}, nil
	}
	if identifier == viewOnlyAdminIdentifier && secret == viewOnlyAdminSecret {
		return Identity{
			Principal:   model.Principal{Kind: model.KindViewOnlyAdministrator, Identifier: identifier},
			DisplayName: "View-Only Administrator",
		}, nil
	}
	if region, ok := RegionForLogin(identifier); ok {
		if secret != regionalSecret {
			return Identity{}, r.reject(identifier, ReasonWrongSecret)
		}
		return Identity{
			Principal: model.Principal{
				Kind:       model.KindRegionalManager,
				Identifier: strings.ToLower(identifier),
				Region:     region,
			},
			DisplayName: region + " Regional Manager",
		}, nil
	}

	if r.scheme == config.SchemeRepresentative {
		return r.resolveRepresentative(ctx, identifier, secret)
	}
	return r.resolveManager(ctx, identifier, secret)
}

func (r *CredentialResolver) resolveManager(ctx context.Context, phone, secret string) (Identity, error) {
	m, err := r.store.ManagerByPhone(ctx, phone)
	switch {
	case database.IsUndefinedTable(err):
		// Deployments that never ran the password migration only have
		// woreda_reps.
		r.log.Warn("woreda_managers missing, using representative credentials")
		return r.resolveRepresentative(ctx, phone, secret)
	case errors.Is(err, repository.ErrNotFound):
		return Identity{}, r.reject(phone, ReasonUnknownIdentifier)
	case err != nil:
		r.log.Error("woreda manager lookup failed", zap.Error(err))
		return Identity{}, fmt.Errorf("%w: credential lookup", ErrInternal)
	}
	if !utils.MatchSecret(m.Password, secret) {
		return Identity{}, r.reject(phone, ReasonWrongSecret)
	}
	name := m.ManagerName
	if name == "" {
		name = phone
	}
	return Identity{
		Principal:   model.Principal{Kind: model.KindWoredaManager, Identifier: phone},
		DisplayName: name,
	}, nil
}

func (r *CredentialResolver) resolveRepresentative(ctx context.Context, phone, secret string) (Identity, error) {
	if secret != representativeSecret {
		return Identity{}, r.reject(phone, ReasonWrongSecret)
	}
	rep, err := r.store.RepresentativeByPhone(ctx, phone)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return Identity{}, r.reject(phone, ReasonUnknownIdentifier)
	case err != nil:
		r.log.Error("woreda representative lookup failed", zap.Error(err))
		return Identity{}, fmt.Errorf("%w: credential lookup", ErrInternal)
	}
	name := rep.Name
	if name == "" {
		name = phone
	}
	return Identity{
		Principal:   model.Principal{Kind: model.KindWoredaRepresentative, Identifier: phone},
		DisplayName: name,
	}, nil
}

func (r *CredentialResolver) reject(identifier, reason string) error {
	r.log.Info("login rejected", zap.String("identifier", identifier), zap.String("reason", reason))
	return invalidCredentials(reason)
}

package model

// Kind classifies an authenticated principal.  Exactly one kind applies to
// each authenticated request.
type Kind string

const (
	KindAdministrator         Kind = "administrator"
	KindViewOnlyAdministrator Kind = "view_only_administrator"
	KindRegionalManager       Kind = "regional_manager"
	KindWoredaManager         Kind = "woreda_manager"
	KindWoredaRepresentative  Kind = "woreda_representative"
)

// Known reports whether k is one of the defined kinds.
func (k Kind) Known() bool {
	switch k {
	case KindAdministrator, KindViewOnlyAdministrator, KindRegionalManager,
		KindWoredaManager, KindWoredaRepresentative:
		return true
	}
	return false
}

// Principal is the authenticated actor of a request.  It is rebuilt from
// the bearer token on every request and never stored server side.
//
// Fields:
//  Kind       – principal class.
//  Identifier – phone number, or the fixed admin / regional login string.
//  Region     – stored region name; set only for regional managers.
type Principal struct {
	Kind       Kind
	Identifier string
	Region     string
}

// Valid checks the principal invariants: a known kind, a non-empty
// identifier, and a region exactly when the kind is regional manager.
func (p Principal) Valid() bool {
	if !p.Kind.Known() || p.Identifier == "" {
		return false
	}
	return (p.Region != "") == (p.Kind == KindRegionalManager)
}

// IsAdmin is true for both administrator kinds; they see the admin dashboard.
func (p Principal) IsAdmin() bool {
	return p.Kind == KindAdministrator || p.Kind == KindViewOnlyAdministrator
}

// ReadOnly is true for kinds that may never mutate rows.
func (p Principal) ReadOnly() bool {
	return p.Kind == KindViewOnlyAdministrator || p.Kind == KindRegionalManager
}

// ManagesOwnDAs is true for woreda-level principals whose rows are the DAs
// reporting to their phone number.
func (p Principal) ManagesOwnDAs() bool {
	return p.Kind == KindWoredaManager || p.Kind == KindWoredaRepresentative
}

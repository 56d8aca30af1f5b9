package utils // package utils provides helper functions for token creation and secret checks

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/da-dashboard/internal/model"
)

// AccessToken is a signed bearer token and its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// principalClaims is the token payload.  The boolean flags mirror the
// dashboard's client contract; Role is authoritative on decode.
type principalClaims struct {
	Role              model.Kind `json:"role"`
	IsAdmin           bool       `json:"isAdmin"`
	IsViewOnlyAdmin   bool       `json:"isViewOnlyAdmin,omitempty"`
	IsRegionalManager bool       `json:"isRegionalManager,omitempty"`
	Region            string     `json:"region,omitempty"`
	jwt.RegisteredClaims
}

var errInvalidPrincipal = errors.New("invalid principal")

// EncodePrincipal signs an HS256 token carrying p.  The subject is the
// principal identifier.
func EncodePrincipal(secret string, p model.Principal, ttl time.Duration) (AccessToken, error) {
	if !p.Valid() {
		return AccessToken{}, errInvalidPrincipal
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := principalClaims{
		Role:              p.Kind,
		IsAdmin:           p.IsAdmin(),
		IsViewOnlyAdmin:   p.Kind == model.KindViewOnlyAdministrator,
		IsRegionalManager: p.Kind == model.KindRegionalManager,
		Region:            p.Region,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Identifier,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// DecodePrincipal verifies raw and returns the principal it carries.  Any
// failure (bad signature, wrong algorithm, expiry, broken invariants)
// yields false and no detail.
func DecodePrincipal(secret, raw string) (model.Principal, bool) {
	var claims principalClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return model.Principal{}, false
	}
	p := model.Principal{
		Kind:       claims.Role,
		Identifier: claims.Subject,
		Region:     claims.Region,
	}
	if !p.Valid() {
		return model.Principal{}, false
	}
	// The flags must agree with the role; a token that says otherwise was
	// not produced by EncodePrincipal.
	if claims.IsRegionalManager != (p.Kind == model.KindRegionalManager) ||
		claims.IsViewOnlyAdmin != (p.Kind == model.KindViewOnlyAdministrator) ||
		claims.IsAdmin != p.IsAdmin() {
		return model.Principal{}, false
	}
	return p, true
}

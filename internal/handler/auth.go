package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/da-dashboard/internal/model"
	"github.com/iliyamo/da-dashboard/internal/repository"
	"github.com/iliyamo/da-dashboard/internal/service"
	"github.com/iliyamo/da-dashboard/internal/utils"
)

// AuthHandler serves login and the credential table diagnostic.
type AuthHandler struct {
	Resolver    *service.CredentialResolver
	Credentials *repository.CredentialRepo
	TokenSecret string
	TokenTTL    time.Duration
	Log         *zap.Logger
}

func NewAuthHandler(r *service.CredentialResolver, creds *repository.CredentialRepo, secret string, ttl time.Duration, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Resolver: r, Credentials: creds, TokenSecret: secret, TokenTTL: ttl, Log: log}
}

// loginReq accepts the current field names and the ones older dashboard
// builds still send.
type loginReq struct {
	Identifier  string `json:"identifier"`
	Secret      string `json:"secret"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

func (r loginReq) credentials() (string, string) {
	id, secret := r.Identifier, r.Secret
	if strings.TrimSpace(id) == "" {
		id = r.PhoneNumber
	}
	if strings.TrimSpace(secret) == "" {
		secret = r.Password
	}
	return id, secret
}

type loginResp struct {
	Token             string    `json:"token"`
	Identifier        string    `json:"identifier"`
	DisplayName       string    `json:"displayName"`
	IsAdmin           bool      `json:"isAdmin"`
	IsViewOnlyAdmin   bool      `json:"isViewOnlyAdmin,omitempty"`
	IsRegionalManager bool      `json:"isRegionalManager,omitempty"`
	Region            string    `json:"region,omitempty"`
	ExpiresAt         time.Time `json:"expiresAt"`
}

// Login resolves the credentials and issues a bearer token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	identifier, secret := req.credentials()

	ctx, cancel := requestContext(c)
	defer cancel()

	id, err := h.Resolver.Resolve(ctx, identifier, secret)
	if err != nil {
		return respondError(c, err)
	}
	p := id.Principal

	tok, err := utils.EncodePrincipal(h.TokenSecret, p, h.TokenTTL)
	if err != nil {
		h.Log.Error("issue token failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	h.Log.Info("login", zap.String("kind", string(p.Kind)), zap.String("identifier", p.Identifier))

	return c.JSON(http.StatusOK, loginResp{
		Token:             tok.Token,
		Identifier:        p.Identifier,
		DisplayName:       id.DisplayName,
		IsAdmin:           p.IsAdmin(),
		IsViewOnlyAdmin:   p.Kind == model.KindViewOnlyAdministrator,
		IsRegionalManager: p.Kind == model.KindRegionalManager,
		Region:            p.Region,
		ExpiresAt:         tok.Exp,
	})
}

// CheckTable reports the state of the woreda manager credential table.
// Credential values are never returned.
func (h *AuthHandler) CheckTable(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	st, err := h.Credentials.ManagerTableStatus(ctx)
	if err != nil {
		h.Log.Error("credential table check failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, st)
}

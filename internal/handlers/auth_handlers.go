package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"invoicecraft/internal/common"
	"invoicecraft/internal/services"
	"invoicecraft/internal/session"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthHandlers handles login and logout for both principal kinds.
type AuthHandlers struct {
	auth     services.AuthService
	sessions *session.Manager
	logger   *zap.Logger
}

func NewAuthHandlers(auth services.AuthService, sessions *session.Manager, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{auth: auth, sessions: sessions, logger: logger}
}

type tenantLoginRequest struct {
	Tenant   string `json:"tenant"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// TenantLogin authenticates a tenant user and seals a tenant-scoped session.
func (h *AuthHandlers) TenantLogin(c echo.Context) error {
	var req tenantLoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}
	req.Tenant = strings.TrimSpace(req.Tenant)
	req.Username = strings.TrimSpace(req.Username)
	if req.Tenant == "" || req.Username == "" || req.Password == "" {
		return common.SendValidationError(c, "Missing fields")
	}

	data, err := h.auth.TenantLogin(c.Request().Context(), req.Tenant, req.Username, req.Password)
	if err != nil {
		var inactive *services.TenantInactiveError
		switch {
		case errors.Is(err, services.ErrTenantNotFound):
			return common.SendNotFoundError(c, "Tenant not found")
		case errors.As(err, &inactive):
			return common.JSONError(c, http.StatusForbidden, fmt.Sprintf("Tenant is %s", inactive.Status))
		case errors.Is(err, services.ErrInvalidCredentials):
			return common.JSONError(c, http.StatusUnauthorized, "Invalid credentials")
		}
		h.logger.Error("tenant login failed", zap.String("tenant", req.Tenant), zap.Error(err))
		return common.SendServerError(c)
	}

	if err := h.sessions.Issue(c, *data); err != nil {
		h.logger.Error("session issue failed", zap.Error(err))
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

type platformLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PlatformLogin authenticates a platform admin.
func (h *AuthHandlers) PlatformLogin(c echo.Context) error {
	var req platformLoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return common.SendValidationError(c, "Missing credentials")
	}

	data, err := h.auth.PlatformLogin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return common.JSONError(c, http.StatusUnauthorized, "Invalid credentials")
		}
		h.logger.Error("platform login failed", zap.Error(err))
		return common.SendServerError(c)
	}

	if err := h.sessions.Issue(c, *data); err != nil {
		h.logger.Error("session issue failed", zap.Error(err))
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// Logout clears the client-held session credential.
func (h *AuthHandlers) Logout(c echo.Context) error {
	h.sessions.Clear(c)
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"invoicecraft/internal/common"
	"invoicecraft/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ResolveHandlers exposes tenant resolution over HTTP for external probes.
// The routing middleware calls the resolver in-process and never hits this.
type ResolveHandlers struct {
	resolver services.ResolverService
	logger   *zap.Logger
}

func NewResolveHandlers(resolver services.ResolverService, logger *zap.Logger) *ResolveHandlers {
	return &ResolveHandlers{resolver: resolver, logger: logger}
}

type resolveResponse struct {
	OK        bool   `json:"ok"`
	Status    string `json:"status"`
	SheetID   string `json:"sheetId"`
	CompanyID string `json:"companyId"`
}

// Resolve maps ?slug= to tenant state.
func (h *ResolveHandlers) Resolve(c echo.Context) error {
	slug := strings.TrimSpace(c.QueryParam("slug"))
	if slug == "" {
		return common.SendValidationError(c, "Missing slug")
	}
	resolved, err := h.resolver.Resolve(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, services.ErrTenantNotFound) {
			return common.SendNotFoundError(c, "Not found")
		}
		h.logger.Error("resolve endpoint lookup failed", zap.String("slug", slug), zap.Error(err))
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, resolveResponse{
		OK:        true,
		Status:    string(resolved.Status),
		SheetID:   resolved.SheetID,
		CompanyID: resolved.CompanyID.String(),
	})
}

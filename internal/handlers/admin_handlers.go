package handlers

import (
	"errors"
	"net/http"

	"invoicecraft/internal/common"
	"invoicecraft/internal/models"
	"invoicecraft/internal/repositories"
	"invoicecraft/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AdminHandlers serves the platform-admin registry API.
type AdminHandlers struct {
	master    repositories.MasterRegistry
	provision services.ProvisionService
	logger    *zap.Logger
}

func NewAdminHandlers(master repositories.MasterRegistry, provision services.ProvisionService, logger *zap.Logger) *AdminHandlers {
	return &AdminHandlers{master: master, provision: provision, logger: logger}
}

// ListCompanies returns every registered tenant.
func (h *AdminHandlers) ListCompanies(c echo.Context) error {
	tenants, err := h.master.ListTenants(c.Request().Context())
	if err != nil {
		h.logger.Error("list companies failed", zap.Error(err))
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true, "companies": tenants})
}

type companyDetail struct {
	*models.Tenant
	AdminName string `json:"admin_name,omitempty"`
}

// GetCompany returns one tenant by subdomain, enriched with the admin user's
// display name when it can be found.
func (h *AdminHandlers) GetCompany(c echo.Context) error {
	subdomain := c.Param("subdomain")
	if subdomain == "" {
		return common.SendValidationError(c, "Subdomain required")
	}
	tenant, err := h.master.GetTenantBySubdomain(c.Request().Context(), subdomain)
	if err != nil {
		h.logger.Error("get company failed", zap.String("subdomain", subdomain), zap.Error(err))
		return common.SendServerError(c)
	}
	if tenant == nil {
		return common.SendNotFoundError(c, "Company not found")
	}

	detail := companyDetail{Tenant: tenant}
	if admin, err := h.master.GetTenantAdminUser(c.Request().Context(), tenant.ID); err != nil {
		h.logger.Warn("admin user lookup failed", zap.String("subdomain", subdomain), zap.Error(err))
	} else if admin != nil {
		detail.AdminName = admin.FullName
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true, "company": detail})
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// UpdateStatus sets a tenant's lifecycle status. Takes effect on the tenant's
// very next request since resolution is stateless.
func (h *AdminHandlers) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("companyId"))
	if err != nil {
		return common.SendValidationError(c, "Invalid company id")
	}
	var req statusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}
	if !models.ValidTenantStatus(req.Status) {
		return common.SendValidationError(c, "Invalid status")
	}
	if err := h.master.SetTenantStatus(c.Request().Context(), id, models.TenantStatus(req.Status)); err != nil {
		h.logger.Error("status update failed", zap.String("company_id", id.String()), zap.Error(err))
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// Provision runs the tenant creation workflow.
func (h *AdminHandlers) Provision(c echo.Context) error {
	var req services.ProvisionRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}

	result, err := h.provision.Provision(c.Request().Context(), &req)
	if err != nil {
		var validation *services.ValidationError
		switch {
		case errors.As(err, &validation):
			return common.SendValidationError(c, validation.Message)
		case errors.Is(err, services.ErrSubdomainTaken):
			return common.SendConflictError(c, "Subdomain already exists")
		case errors.Is(err, services.ErrSheetTaken):
			return common.SendConflictError(c, "Sheet already bound to another tenant")
		case errors.Is(err, repositories.ErrStorePermission):
			h.logger.Error("store permission failure during provisioning", zap.Error(err))
			return common.JSONError(c, http.StatusInternalServerError,
				"Store access denied: grant the service identity access to the spreadsheet")
		}
		h.logger.Error("provisioning failed", zap.Error(err))
		return common.SendServerError(c)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"ok":        true,
		"companyId": result.CompanyID,
		"sheetId":   result.SheetID,
		"status":    result.Status,
	})
}

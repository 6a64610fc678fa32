package handlers

import (
	"net/http"

	"invoicecraft/internal/common"

	"github.com/labstack/echo/v4"
)

// PageHandlers answers the rewritten page paths. Rendering is handled by an
// external frontend; these return the routing context the frontend hydrates
// from.
type PageHandlers struct{}

func NewPageHandlers() *PageHandlers {
	return &PageHandlers{}
}

// Root serves the public landing path on the bare root domain.
func (h *PageHandlers) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"page": "landing"})
}

// AdminPage serves paths rewritten under the platform-admin prefix.
func (h *PageHandlers) AdminPage(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"page": "admin",
		"path": c.Request().URL.Path,
	})
}

// TenantPage serves paths rewritten under the tenant prefix, with the resolved
// tenant context attached by the middleware.
func (h *PageHandlers) TenantPage(c echo.Context) error {
	tenant, _ := common.GetTenantFromContext(c.Request().Context())
	status, _ := common.GetTenantStatusFromContext(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]string{
		"page":   "tenant",
		"tenant": tenant,
		"status": status,
		"path":   c.Request().URL.Path,
	})
}

// TenantNotFound serves the unresolved-routing-key page. The attempted key is
// preserved as display context.
func (h *PageHandlers) TenantNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, map[string]string{
		"page":   "tenant-not-found",
		"tenant": c.QueryParam("tenant"),
	})
}

// Blocked serves the status-aware page for non-active tenants.
func (h *PageHandlers) Blocked(c echo.Context) error {
	return c.JSON(http.StatusForbidden, map[string]string{
		"page":   "blocked",
		"tenant": c.QueryParam("tenant"),
		"status": c.QueryParam("status"),
	})
}

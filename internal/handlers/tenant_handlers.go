package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"invoicecraft/internal/common"
	"invoicecraft/internal/models"
	"invoicecraft/internal/repositories"
	"invoicecraft/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TenantHandlers serves tenant-scoped data routes. The store handle comes from
// the request context attached by the tenant resolver.
type TenantHandlers struct {
	tenants repositories.TenantRegistryFactory
	assets  services.AssetService
	logger  *zap.Logger
}

func NewTenantHandlers(tenants repositories.TenantRegistryFactory, assets services.AssetService, logger *zap.Logger) *TenantHandlers {
	return &TenantHandlers{tenants: tenants, assets: assets, logger: logger}
}

func (h *TenantHandlers) registry(c echo.Context) (repositories.TenantRegistry, bool) {
	sheetID, ok := common.GetSheetIDFromContext(c.Request().Context())
	if !ok || sheetID == "" {
		return nil, false
	}
	return h.tenants.ForStore(sheetID), true
}

// ListInvoices returns every invoice row in the tenant store.
func (h *TenantHandlers) ListInvoices(c echo.Context) error {
	reg, ok := h.registry(c)
	if !ok {
		return common.SendValidationError(c, "Missing tenant context")
	}
	invoices, err := reg.ListInvoices(c.Request().Context())
	if err != nil {
		h.logger.Error("list invoices failed", zap.Error(err))
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true, "invoices": invoices})
}

// GetInvoice returns one invoice by number, 404 when absent.
func (h *TenantHandlers) GetInvoice(c echo.Context) error {
	reg, ok := h.registry(c)
	if !ok {
		return common.SendValidationError(c, "Missing tenant context")
	}
	number := c.Param("number")
	invoice, err := reg.GetInvoice(c.Request().Context(), number)
	if err != nil {
		h.logger.Error("get invoice failed", zap.String("number", number), zap.Error(err))
		return common.SendServerError(c)
	}
	if invoice == nil {
		return common.SendNotFoundError(c, "Invoice not found")
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true, "invoice": invoice})
}

type upsertInvoiceRequest struct {
	InvoiceNumber string          `json:"invoiceNumber"`
	Date          string          `json:"date"`
	Client        string          `json:"client"`
	Total         string          `json:"total"`
	Status        string          `json:"status"`
	Payload       json.RawMessage `json:"payload"`
}

// UpsertInvoice creates or replaces an invoice keyed by its number.
func (h *TenantHandlers) UpsertInvoice(c echo.Context) error {
	reg, ok := h.registry(c)
	if !ok {
		return common.SendValidationError(c, "Missing tenant context")
	}
	var req upsertInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}
	req.InvoiceNumber = strings.TrimSpace(req.InvoiceNumber)
	if req.InvoiceNumber == "" {
		return common.SendValidationError(c, "Missing invoiceNumber")
	}
	if req.Date == "" {
		req.Date = time.Now().UTC().Format("2006-01-02")
	}
	if req.Total == "" {
		req.Total = "0"
	}
	if req.Status == "" {
		req.Status = string(models.InvoiceUnpaid)
	}
	payload := "{}"
	if len(req.Payload) > 0 {
		payload = string(req.Payload)
	}

	fields := map[string]string{
		"InvoiceNumber": req.InvoiceNumber,
		"Date":          req.Date,
		"Client":        req.Client,
		"Total":         req.Total,
		"Status":        req.Status,
		"PayloadJSON":   payload,
	}
	if err := reg.UpsertInvoice(c.Request().Context(), req.InvoiceNumber, fields); err != nil {
		h.logger.Error("upsert invoice failed", zap.String("number", req.InvoiceNumber), zap.Error(err))
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// ListClients returns the tenant's client rows.
func (h *TenantHandlers) ListClients(c echo.Context) error {
	reg, ok := h.registry(c)
	if !ok {
		return common.SendValidationError(c, "Missing tenant context")
	}
	clients, err := reg.ListClients(c.Request().Context())
	if err != nil {
		h.logger.Error("list clients failed", zap.Error(err))
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true, "clients": clients})
}

// UpsertClient creates or replaces a client keyed by name.
func (h *TenantHandlers) UpsertClient(c echo.Context) error {
	reg, ok := h.registry(c)
	if !ok {
		return common.SendValidationError(c, "Missing tenant context")
	}
	var req models.Client
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return common.SendValidationError(c, "Missing name")
	}
	fields := map[string]string{
		"Name":    req.Name,
		"Email":   req.Email,
		"Phone":   req.Phone,
		"Address": req.Address,
	}
	if err := reg.UpsertClient(c.Request().Context(), req.Name, fields); err != nil {
		h.logger.Error("upsert client failed", zap.String("name", req.Name), zap.Error(err))
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// ListProducts returns the tenant's product rows.
func (h *TenantHandlers) ListProducts(c echo.Context) error {
	reg, ok := h.registry(c)
	if !ok {
		return common.SendValidationError(c, "Missing tenant context")
	}
	products, err := reg.ListProducts(c.Request().Context())
	if err != nil {
		h.logger.Error("list products failed", zap.Error(err))
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true, "products": products})
}

// UpsertProduct creates or replaces a product keyed by SKU.
func (h *TenantHandlers) UpsertProduct(c echo.Context) error {
	reg, ok := h.registry(c)
	if !ok {
		return common.SendValidationError(c, "Missing tenant context")
	}
	var req models.Product
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}
	req.SKU = strings.TrimSpace(req.SKU)
	if req.SKU == "" {
		return common.SendValidationError(c, "Missing sku")
	}
	fields := map[string]string{
		"SKU":         req.SKU,
		"Name":        req.Name,
		"Price":       req.Price,
		"Description": req.Description,
	}
	if err := reg.UpsertProduct(c.Request().Context(), req.SKU, fields); err != nil {
		h.logger.Error("upsert product failed", zap.String("sku", req.SKU), zap.Error(err))
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// GetSettings materializes the tenant settings with defaults.
func (h *TenantHandlers) GetSettings(c echo.Context) error {
	reg, ok := h.registry(c)
	if !ok {
		return common.SendValidationError(c, "Missing tenant context")
	}
	settings, err := reg.GetSettings(c.Request().Context())
	if err != nil {
		h.logger.Error("get settings failed", zap.Error(err))
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true, "settings": settings})
}

// UploadLogo stores a logo image in object storage and records its URL in the
// tenant settings.
func (h *TenantHandlers) UploadLogo(c echo.Context) error {
	reg, ok := h.registry(c)
	if !ok {
		return common.SendValidationError(c, "Missing tenant context")
	}
	tenant, _ := common.GetTenantFromContext(c.Request().Context())

	file, err := c.FormFile("logo")
	if err != nil {
		return common.SendValidationError(c, "Missing logo file")
	}
	src, err := file.Open()
	if err != nil {
		return common.SendValidationError(c, "Unreadable logo file")
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	url, err := h.assets.UploadLogo(c.Request().Context(), tenant, src, file.Size, contentType)
	if err != nil {
		h.logger.Error("logo upload failed", zap.String("tenant", tenant), zap.Error(err))
		return common.SendServerError(c)
	}
	if err := reg.UpsertSetting(c.Request().Context(), "LogoUrl", url); err != nil {
		h.logger.Error("logo settings write failed", zap.String("tenant", tenant), zap.Error(err))
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true, "logoUrl": url})
}

package common

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	TenantKey       contextKey = "tenant"
	SheetIDKey      contextKey = "tenant_sheet_id"
	TenantStatusKey contextKey = "tenant_status"
	CompanyIDKey    contextKey = "company_id"
	SessionKey      contextKey = "session"
)

// GetTenantFromContext extracts the resolved tenant subdomain from the request context
func GetTenantFromContext(ctx context.Context) (string, bool) {
	tenant, ok := ctx.Value(TenantKey).(string)
	return tenant, ok
}

// GetSheetIDFromContext extracts the resolved tenant store handle from the request context
func GetSheetIDFromContext(ctx context.Context) (string, bool) {
	sheetID, ok := ctx.Value(SheetIDKey).(string)
	return sheetID, ok
}

// GetTenantStatusFromContext extracts the tenant status snapshot from the request context
func GetTenantStatusFromContext(ctx context.Context) (string, bool) {
	status, ok := ctx.Value(TenantStatusKey).(string)
	return status, ok
}

// GetCompanyIDFromContext extracts the tenant identifier from the request context
func GetCompanyIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	companyID, ok := ctx.Value(CompanyIDKey).(uuid.UUID)
	return companyID, ok
}

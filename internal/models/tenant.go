package models

import (
	"time"

	"github.com/google/uuid"
)

// TenantStatus is the lifecycle state of a tenant. Transitions are
// admin-triggered only; there is no automatic expiry.
type TenantStatus string

const (
	StatusActive    TenantStatus = "Active"
	StatusPending   TenantStatus = "Pending"
	StatusSuspended TenantStatus = "Suspended"
)

// ValidTenantStatus reports whether s is a known lifecycle state.
func ValidTenantStatus(s string) bool {
	switch TenantStatus(s) {
	case StatusActive, StatusPending, StatusSuspended:
		return true
	}
	return false
}

// Tenant is one row of the master registry Companies tab. SheetID is the
// opaque handle of the tenant's own spreadsheet store.
type Tenant struct {
	ID         uuid.UUID    `json:"id"`
	Name       string       `json:"name"`
	Subdomain  string       `json:"subdomain"`
	SheetID    string       `json:"sheet_id"`
	AdminEmail string       `json:"admin_email"`
	Plan       string       `json:"plan"`
	Status     TenantStatus `json:"status"`
	TaxID      string       `json:"tax_id,omitempty"`
	Phone      string       `json:"phone,omitempty"`
	Address    string       `json:"address,omitempty"`
	City       string       `json:"city,omitempty"`
	Country    string       `json:"country,omitempty"`
	Currency   string       `json:"currency,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

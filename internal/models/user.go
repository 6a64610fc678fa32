package models

import (
	"time"

	"github.com/google/uuid"
)

// TenantUser is a registry-level user row owned by a tenant. Login handle
// uniqueness is scoped to the tenant's own store, not enforced here.
type TenantUser struct {
	ID           uuid.UUID `json:"id"`
	CompanyID    uuid.UUID `json:"company_id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"` // Never serialize in JSON
	CreatedAt    time.Time `json:"created_at"`
}

// StoreUser is the compact user row kept inside a tenant's own store.
type StoreUser struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

// PlatformAdmin is a manually seeded platform operator. There is no
// self-service creation path.
type PlatformAdmin struct {
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

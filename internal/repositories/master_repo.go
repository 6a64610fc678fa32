package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"invoicecraft/internal/models"
	"invoicecraft/internal/sheetdb"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrStorePermission marks a schema-initialization failure caused by missing
// access rights on the tenant spreadsheet. The operator has to share the sheet
// with the provisioning identity; retrying will not help.
var ErrStorePermission = errors.New("registry: store access denied")

// MasterRegistry is the platform-wide registry kept in the master spreadsheet.
// Lookups return nil when nothing matches; only transport and structural
// failures are errors.
type MasterRegistry interface {
	ListTenants(ctx context.Context) ([]*models.Tenant, error)
	GetTenantBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error)
	GetTenantByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetTenantBySheetID(ctx context.Context, sheetID string) (*models.Tenant, error)
	SetTenantStatus(ctx context.Context, id uuid.UUID, status models.TenantStatus) error
	CreateTenant(ctx context.Context, tenant *models.Tenant) error
	CreateTenantUser(ctx context.Context, user *models.TenantUser) error
	GetTenantAdminUser(ctx context.Context, companyID uuid.UUID) (*models.TenantUser, error)
	GetPlatformAdminByEmail(ctx context.Context, email string) (*models.PlatformAdmin, error)
	ValidateTenantStore(ctx context.Context, sheetID string) error
	CreateTenantStore(ctx context.Context, subdomainHint string) (string, error)
}

type masterRegistry struct {
	table           *sheetdb.Table
	masterSheetID   string
	templateSheetID string
	folderID        string
	logger          *zap.Logger
}

func NewMasterRegistry(table *sheetdb.Table, masterSheetID, templateSheetID, folderID string, logger *zap.Logger) MasterRegistry {
	return &masterRegistry{
		table:           table,
		masterSheetID:   masterSheetID,
		templateSheetID: templateSheetID,
		folderID:        folderID,
		logger:          logger,
	}
}

func (r *masterRegistry) ListTenants(ctx context.Context) ([]*models.Tenant, error) {
	rows, err := r.table.ReadTable(ctx, r.masterSheetID, CompaniesTab+"!A1:Z")
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	tenants := make([]*models.Tenant, 0, len(rows))
	for _, row := range rows {
		tenants = append(tenants, decodeTenant(row))
	}
	return tenants, nil
}

func (r *masterRegistry) GetTenantBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	tenants, err := r.ListTenants(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tenants {
		if strings.EqualFold(t.Subdomain, subdomain) {
			return t, nil
		}
	}
	return nil, nil
}

func (r *masterRegistry) GetTenantByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	tenants, err := r.ListTenants(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (r *masterRegistry) GetTenantBySheetID(ctx context.Context, sheetID string) (*models.Tenant, error) {
	tenants, err := r.ListTenants(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tenants {
		if t.SheetID == sheetID {
			return t, nil
		}
	}
	return nil, nil
}

func (r *masterRegistry) SetTenantStatus(ctx context.Context, id uuid.UUID, status models.TenantStatus) error {
	err := r.table.UpsertByKey(ctx, r.masterSheetID, CompaniesTab, "CompanyID", id.String(), map[string]string{
		"Status": string(status),
	})
	if err != nil {
		return fmt.Errorf("set tenant status: %w", err)
	}
	return nil
}

func (r *masterRegistry) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	err := r.table.AppendRow(ctx, r.masterSheetID, CompaniesTab+"!A1", companyHeaders, encodeTenant(tenant))
	if err != nil {
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

func (r *masterRegistry) CreateTenantUser(ctx context.Context, user *models.TenantUser) error {
	record := map[string]string{
		"UserID":       user.ID.String(),
		"CompanyID":    user.CompanyID.String(),
		"Email":        user.Email,
		"Username":     user.Username,
		"FullName":     user.FullName,
		"Role":         user.Role,
		"PasswordHash": user.PasswordHash,
		"CreatedAt":    user.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := r.table.AppendRow(ctx, r.masterSheetID, TenantUsersTab+"!A1", tenantUserHeaders, record); err != nil {
		return fmt.Errorf("create tenant user: %w", err)
	}
	return nil
}

func (r *masterRegistry) GetTenantAdminUser(ctx context.Context, companyID uuid.UUID) (*models.TenantUser, error) {
	rows, err := r.table.ReadTable(ctx, r.masterSheetID, TenantUsersTab+"!A1:Z")
	if err != nil {
		return nil, fmt.Errorf("list tenant users: %w", err)
	}
	for _, row := range rows {
		if row["CompanyID"] != companyID.String() {
			continue
		}
		role := strings.ToLower(row["Role"])
		if role == "admin" || role == "owner" {
			return decodeTenantUser(row), nil
		}
	}
	return nil, nil
}

func (r *masterRegistry) GetPlatformAdminByEmail(ctx context.Context, email string) (*models.PlatformAdmin, error) {
	rows, err := r.table.ReadTable(ctx, r.masterSheetID, AdminsTab+"!A1:Z")
	if err != nil {
		return nil, fmt.Errorf("list platform admins: %w", err)
	}
	for _, row := range rows {
		if strings.EqualFold(row["Email"], email) {
			return &models.PlatformAdmin{Email: row["Email"], PasswordHash: row["PasswordHash"]}, nil
		}
	}
	return nil, nil
}

// ValidateTenantStore idempotently ensures the required tabs and header rows
// exist in a tenant spreadsheet. This is the schema-initialization step for a
// freshly provisioned store and the healing step for a damaged one.
func (r *masterRegistry) ValidateTenantStore(ctx context.Context, sheetID string) error {
	for _, entry := range tenantStoreSchema {
		result, err := r.table.EnsureTab(ctx, sheetID, entry.Tab, entry.Headers)
		if err != nil {
			if sheetdb.IsPermissionDenied(err) {
				return fmt.Errorf("%w: %s (share the spreadsheet with the service identity): %v",
					ErrStorePermission, sheetID, err)
			}
			return fmt.Errorf("initialize tab %s in %s: %w", entry.Tab, sheetID, err)
		}
		if result == sheetdb.TabCreated {
			r.logger.Info("created missing tenant store tab",
				zap.String("sheet_id", sheetID),
				zap.String("tab", entry.Tab),
			)
		}
	}
	return nil
}

// CreateTenantStore provisions a fresh tenant spreadsheet, by duplicating the
// configured template into the managed folder, or from scratch when no
// template is configured.
func (r *masterRegistry) CreateTenantStore(ctx context.Context, subdomainHint string) (string, error) {
	name := "InvoiceCraft - " + subdomainHint
	if r.templateSheetID != "" {
		sheetID, err := r.table.API().CopyFile(ctx, r.templateSheetID, r.folderID, name)
		if err != nil {
			return "", fmt.Errorf("duplicate template store: %w", err)
		}
		return sheetID, nil
	}
	tabs := make([]string, 0, len(tenantStoreSchema))
	for _, entry := range tenantStoreSchema {
		tabs = append(tabs, entry.Tab)
	}
	sheetID, err := r.table.API().CreateSpreadsheet(ctx, name, tabs)
	if err != nil {
		return "", fmt.Errorf("create store: %w", err)
	}
	return sheetID, nil
}

func decodeTenant(row sheetdb.Row) *models.Tenant {
	id, _ := uuid.Parse(row["CompanyID"])
	createdAt, _ := time.Parse(time.RFC3339, row["CreatedAt"])
	return &models.Tenant{
		ID:         id,
		Name:       row["CompanyName"],
		Subdomain:  row["Subdomain"],
		SheetID:    row["SheetID"],
		AdminEmail: row["AdminEmail"],
		Plan:       row["Plan"],
		Status:     models.TenantStatus(row["Status"]),
		TaxID:      row["TaxID"],
		Phone:      row["Phone"],
		Address:    row["Address"],
		City:       row["City"],
		Country:    row["Country"],
		Currency:   row["Currency"],
		CreatedAt:  createdAt,
	}
}

func encodeTenant(t *models.Tenant) map[string]string {
	return map[string]string{
		"CompanyID":   t.ID.String(),
		"CompanyName": t.Name,
		"Subdomain":   t.Subdomain,
		"SheetID":     t.SheetID,
		"AdminEmail":  t.AdminEmail,
		"Plan":        t.Plan,
		"Status":      string(t.Status),
		"TaxID":       t.TaxID,
		"Phone":       t.Phone,
		"Address":     t.Address,
		"City":        t.City,
		"Country":     t.Country,
		"Currency":    t.Currency,
		"CreatedAt":   t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func decodeTenantUser(row sheetdb.Row) *models.TenantUser {
	id, _ := uuid.Parse(row["UserID"])
	companyID, _ := uuid.Parse(row["CompanyID"])
	createdAt, _ := time.Parse(time.RFC3339, row["CreatedAt"])
	return &models.TenantUser{
		ID:           id,
		CompanyID:    companyID,
		Email:        row["Email"],
		Username:     row["Username"],
		FullName:     row["FullName"],
		Role:         row["Role"],
		PasswordHash: row["PasswordHash"],
		CreatedAt:    createdAt,
	}
}

package repositories

import (
	"context"
	"fmt"
	"strings"

	"invoicecraft/internal/models"
	"invoicecraft/internal/sheetdb"
)

// TenantRegistry is the typed facade over one tenant's own spreadsheet store.
type TenantRegistry interface {
	GetUserByUsername(ctx context.Context, username string) (*models.StoreUser, error)
	CreateUser(ctx context.Context, user *models.StoreUser) error
	ListInvoices(ctx context.Context) ([]*models.Invoice, error)
	GetInvoice(ctx context.Context, number string) (*models.Invoice, error)
	UpsertInvoice(ctx context.Context, number string, fields map[string]string) error
	ListClients(ctx context.Context) ([]*models.Client, error)
	UpsertClient(ctx context.Context, name string, fields map[string]string) error
	ListProducts(ctx context.Context) ([]*models.Product, error)
	UpsertProduct(ctx context.Context, sku string, fields map[string]string) error
	GetSettings(ctx context.Context) (*models.Settings, error)
	UpsertSetting(ctx context.Context, key, value string) error
	SeedSettings(ctx context.Context, pairs [][2]string) error
}

// TenantRegistryFactory binds a TenantRegistry to a store handle per request.
type TenantRegistryFactory interface {
	ForStore(sheetID string) TenantRegistry
}

type tenantRegistryFactory struct {
	table *sheetdb.Table
}

func NewTenantRegistryFactory(table *sheetdb.Table) TenantRegistryFactory {
	return &tenantRegistryFactory{table: table}
}

func (f *tenantRegistryFactory) ForStore(sheetID string) TenantRegistry {
	return &tenantRegistry{table: f.table, sheetID: sheetID}
}

type tenantRegistry struct {
	table   *sheetdb.Table
	sheetID string
}

func (r *tenantRegistry) GetUserByUsername(ctx context.Context, username string) (*models.StoreUser, error) {
	rows, err := r.table.ReadTable(ctx, r.sheetID, UsersTab+"!A1:Z")
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	for _, row := range rows {
		if strings.EqualFold(row["Username"], username) {
			return &models.StoreUser{
				Username:     row["Username"],
				PasswordHash: row["Password"],
				Role:         row["Role"],
			}, nil
		}
	}
	return nil, nil
}

func (r *tenantRegistry) CreateUser(ctx context.Context, user *models.StoreUser) error {
	record := map[string]string{
		"Username": user.Username,
		"Password": user.PasswordHash,
		"Role":     user.Role,
	}
	if err := r.table.AppendRow(ctx, r.sheetID, UsersTab+"!A1", storeUserHeaders, record); err != nil {
		return fmt.Errorf("create store user: %w", err)
	}
	return nil
}

func (r *tenantRegistry) ListInvoices(ctx context.Context) ([]*models.Invoice, error) {
	rows, err := r.table.ReadTable(ctx, r.sheetID, InvoicesTab+"!A1:Z")
	if err != nil {
		return nil, fmt.Errorf("read invoices: %w", err)
	}
	invoices := make([]*models.Invoice, 0, len(rows))
	for _, row := range rows {
		invoices = append(invoices, &models.Invoice{
			Number:      row["InvoiceNumber"],
			Date:        row["Date"],
			Client:      row["Client"],
			Total:       row["Total"],
			Status:      models.InvoiceStatus(row["Status"]),
			PayloadJSON: row["PayloadJSON"],
		})
	}
	return invoices, nil
}

func (r *tenantRegistry) GetInvoice(ctx context.Context, number string) (*models.Invoice, error) {
	invoices, err := r.ListInvoices(ctx)
	if err != nil {
		return nil, err
	}
	for _, inv := range invoices {
		if inv.Number == number {
			return inv, nil
		}
	}
	return nil, nil
}

func (r *tenantRegistry) UpsertInvoice(ctx context.Context, number string, fields map[string]string) error {
	if err := r.table.UpsertByKey(ctx, r.sheetID, InvoicesTab, "InvoiceNumber", number, fields); err != nil {
		return fmt.Errorf("upsert invoice %s: %w", number, err)
	}
	return nil
}

func (r *tenantRegistry) ListClients(ctx context.Context) ([]*models.Client, error) {
	rows, err := r.table.ReadTable(ctx, r.sheetID, ClientsTab+"!A1:Z")
	if err != nil {
		return nil, fmt.Errorf("read clients: %w", err)
	}
	clients := make([]*models.Client, 0, len(rows))
	for _, row := range rows {
		clients = append(clients, &models.Client{
			Name:    row["Name"],
			Email:   row["Email"],
			Phone:   row["Phone"],
			Address: row["Address"],
		})
	}
	return clients, nil
}

func (r *tenantRegistry) UpsertClient(ctx context.Context, name string, fields map[string]string) error {
	if err := r.table.UpsertByKey(ctx, r.sheetID, ClientsTab, "Name", name, fields); err != nil {
		return fmt.Errorf("upsert client %s: %w", name, err)
	}
	return nil
}

func (r *tenantRegistry) ListProducts(ctx context.Context) ([]*models.Product, error) {
	rows, err := r.table.ReadTable(ctx, r.sheetID, ProductsTab+"!A1:Z")
	if err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}
	products := make([]*models.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, &models.Product{
			SKU:         row["SKU"],
			Name:        row["Name"],
			Price:       row["Price"],
			Description: row["Description"],
		})
	}
	return products, nil
}

func (r *tenantRegistry) UpsertProduct(ctx context.Context, sku string, fields map[string]string) error {
	if err := r.table.UpsertByKey(ctx, r.sheetID, ProductsTab, "SKU", sku, fields); err != nil {
		return fmt.Errorf("upsert product %s: %w", sku, err)
	}
	return nil
}

// GetSettings materializes the fixed key set from the two-column Settings tab.
// Legacy stores used lowercase or "Setting" key headers, so all three spellings
// are honored.
func (r *tenantRegistry) GetSettings(ctx context.Context) (*models.Settings, error) {
	rows, err := r.table.ReadTable(ctx, r.sheetID, SettingsTab+"!A1:B")
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	kv := make(map[string]string, len(rows))
	for _, row := range rows {
		key := row["Key"]
		if key == "" {
			key = row["key"]
		}
		if key == "" {
			key = row["Setting"]
		}
		if key == "" {
			continue
		}
		val := row["Value"]
		if val == "" {
			val = row["value"]
		}
		kv[key] = val
	}
	settings := &models.Settings{
		CompanyName: kv["CompanyName"],
		LogoURL:     kv["LogoUrl"],
		BrandColor:  kv["BrandColor"],
		BankDetails: kv["BankDetails"],
		Currency:    kv["Currency"],
		TaxID:       kv["TaxID"],
		Address:     kv["Address"],
	}
	if settings.BrandColor == "" {
		settings.BrandColor = "#111827"
	}
	if settings.Currency == "" {
		settings.Currency = "USD"
	}
	return settings, nil
}

func (r *tenantRegistry) UpsertSetting(ctx context.Context, key, value string) error {
	if err := r.table.UpsertByKey(ctx, r.sheetID, SettingsTab, "Key", key, map[string]string{"Value": value}); err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}

// SeedSettings appends initial key/value rows in order during provisioning.
func (r *tenantRegistry) SeedSettings(ctx context.Context, pairs [][2]string) error {
	for _, pair := range pairs {
		record := map[string]string{"Key": pair[0], "Value": pair[1]}
		if err := r.table.AppendRow(ctx, r.sheetID, SettingsTab+"!A1", settingsHeaders, record); err != nil {
			return fmt.Errorf("seed setting %s: %w", pair[0], err)
		}
	}
	return nil
}

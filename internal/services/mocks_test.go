package services

import (
	"context"

	"invoicecraft/internal/models"
	"invoicecraft/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockMasterRegistry struct {
	mock.Mock
}

func (m *MockMasterRegistry) ListTenants(ctx context.Context) ([]*models.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

func (m *MockMasterRegistry) GetTenantBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	args := m.Called(ctx, subdomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockMasterRegistry) GetTenantByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockMasterRegistry) GetTenantBySheetID(ctx context.Context, sheetID string) (*models.Tenant, error) {
	args := m.Called(ctx, sheetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockMasterRegistry) SetTenantStatus(ctx context.Context, id uuid.UUID, status models.TenantStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockMasterRegistry) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockMasterRegistry) CreateTenantUser(ctx context.Context, user *models.TenantUser) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockMasterRegistry) GetTenantAdminUser(ctx context.Context, companyID uuid.UUID) (*models.TenantUser, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TenantUser), args.Error(1)
}

func (m *MockMasterRegistry) GetPlatformAdminByEmail(ctx context.Context, email string) (*models.PlatformAdmin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlatformAdmin), args.Error(1)
}

func (m *MockMasterRegistry) ValidateTenantStore(ctx context.Context, sheetID string) error {
	args := m.Called(ctx, sheetID)
	return args.Error(0)
}

func (m *MockMasterRegistry) CreateTenantStore(ctx context.Context, subdomainHint string) (string, error) {
	args := m.Called(ctx, subdomainHint)
	return args.String(0), args.Error(1)
}

type MockTenantRegistry struct {
	mock.Mock
}

func (m *MockTenantRegistry) GetUserByUsername(ctx context.Context, username string) (*models.StoreUser, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoreUser), args.Error(1)
}

func (m *MockTenantRegistry) CreateUser(ctx context.Context, user *models.StoreUser) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockTenantRegistry) ListInvoices(ctx context.Context) ([]*models.Invoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockTenantRegistry) GetInvoice(ctx context.Context, number string) (*models.Invoice, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockTenantRegistry) UpsertInvoice(ctx context.Context, number string, fields map[string]string) error {
	args := m.Called(ctx, number, fields)
	return args.Error(0)
}

func (m *MockTenantRegistry) ListClients(ctx context.Context) ([]*models.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Client), args.Error(1)
}

func (m *MockTenantRegistry) UpsertClient(ctx context.Context, name string, fields map[string]string) error {
	args := m.Called(ctx, name, fields)
	return args.Error(0)
}

func (m *MockTenantRegistry) ListProducts(ctx context.Context) ([]*models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockTenantRegistry) UpsertProduct(ctx context.Context, sku string, fields map[string]string) error {
	args := m.Called(ctx, sku, fields)
	return args.Error(0)
}

func (m *MockTenantRegistry) GetSettings(ctx context.Context) (*models.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *MockTenantRegistry) UpsertSetting(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockTenantRegistry) SeedSettings(ctx context.Context, pairs [][2]string) error {
	args := m.Called(ctx, pairs)
	return args.Error(0)
}

type MockTenantRegistryFactory struct {
	mock.Mock
	Registry *MockTenantRegistry
}

func (m *MockTenantRegistryFactory) ForStore(sheetID string) repositories.TenantRegistry {
	m.Called(sheetID)
	return m.Registry
}

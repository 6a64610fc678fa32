package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"invoicecraft/internal/models"
	"invoicecraft/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrSubdomainTaken rejects a provisioning request for an existing routing key.
	ErrSubdomainTaken = errors.New("subdomain already exists")
	// ErrSheetTaken rejects a caller-supplied store handle already bound to a tenant.
	ErrSheetTaken = errors.New("sheet already bound to another tenant")
)

// ValidationError is a client-caused provisioning rejection.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ProvisionRequest is the canonical provisioning contract. SheetID is optional:
// empty means "provision a fresh store by template duplication".
type ProvisionRequest struct {
	CompanyName   string `json:"companyName"`
	Subdomain     string `json:"subdomain"`
	OfficialEmail string `json:"officialEmail"`
	TaxID         string `json:"taxId"`
	Phone         string `json:"phone"`
	AdminName     string `json:"adminName"`
	AdminUsername string `json:"adminUsername"`
	AdminPassword string `json:"adminPassword"`
	Address       string `json:"address"`
	City          string `json:"city"`
	Country       string `json:"country"`
	Currency      string `json:"currency"`
	Plan          string `json:"plan"`
	SheetID       string `json:"sheetId"`
	LogoURL       string `json:"logoUrl"`
	BrandColor    string `json:"brandColor"`
	BankDetails   string `json:"bankDetails"`
}

// ProvisionResult reports the registered tenant.
type ProvisionResult struct {
	CompanyID uuid.UUID           `json:"companyId"`
	SheetID   string              `json:"sheetId"`
	Status    models.TenantStatus `json:"status"`
}

type ProvisionService interface {
	Provision(ctx context.Context, req *ProvisionRequest) (*ProvisionResult, error)
}

type provisionService struct {
	master  repositories.MasterRegistry
	tenants repositories.TenantRegistryFactory
	logger  *zap.Logger
}

func NewProvisionService(master repositories.MasterRegistry, tenants repositories.TenantRegistryFactory, logger *zap.Logger) ProvisionService {
	return &provisionService{master: master, tenants: tenants, logger: logger}
}

// Provision runs the multi-step tenant creation workflow. Registry insertion is
// the durability point: after the tenant and admin rows land in the master
// sheet the tenant is registered, even if mirroring into its own store fails.
func (s *provisionService) Provision(ctx context.Context, req *ProvisionRequest) (*ProvisionResult, error) {
	if err := normalizeRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.master.GetTenantBySubdomain(ctx, req.Subdomain)
	if err != nil {
		return nil, fmt.Errorf("subdomain uniqueness check: %w", err)
	}
	if existing != nil {
		return nil, ErrSubdomainTaken
	}

	sheetID := req.SheetID
	if sheetID != "" {
		bound, err := s.master.GetTenantBySheetID(ctx, sheetID)
		if err != nil {
			return nil, fmt.Errorf("sheet uniqueness check: %w", err)
		}
		if bound != nil {
			return nil, ErrSheetTaken
		}
	} else {
		sheetID, err = s.master.CreateTenantStore(ctx, req.Subdomain)
		if err != nil {
			return nil, fmt.Errorf("provision store: %w", err)
		}
	}

	if err := s.master.ValidateTenantStore(ctx, sheetID); err != nil {
		return nil, err
	}

	companyID := uuid.New()
	now := time.Now().UTC()
	tenant := &models.Tenant{
		ID:         companyID,
		Name:       req.CompanyName,
		Subdomain:  req.Subdomain,
		SheetID:    sheetID,
		AdminEmail: req.OfficialEmail,
		Plan:       req.Plan,
		Status:     models.StatusPending,
		TaxID:      req.TaxID,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		Country:    req.Country,
		Currency:   req.Currency,
		CreatedAt:  now,
	}
	if err := s.master.CreateTenant(ctx, tenant); err != nil {
		return nil, fmt.Errorf("register tenant: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	adminUser := &models.TenantUser{
		ID:           uuid.New(),
		CompanyID:    companyID,
		Email:        req.OfficialEmail,
		Username:     req.AdminUsername,
		FullName:     req.AdminName,
		Role:         "admin",
		PasswordHash: string(passwordHash),
		CreatedAt:    now,
	}
	if err := s.master.CreateTenantUser(ctx, adminUser); err != nil {
		return nil, fmt.Errorf("register admin user: %w", err)
	}

	// Durability point reached. The mirror below is best-effort only.
	s.mirrorIntoStore(ctx, sheetID, req, string(passwordHash))

	return &ProvisionResult{
		CompanyID: companyID,
		SheetID:   sheetID,
		Status:    models.StatusPending,
	}, nil
}

// mirrorIntoStore copies the admin login and profile settings into the
// tenant's own store for self-containment. Failures are logged and swallowed;
// the tenant stays registered with a working master-registry login.
func (s *provisionService) mirrorIntoStore(ctx context.Context, sheetID string, req *ProvisionRequest, passwordHash string) {
	reg := s.tenants.ForStore(sheetID)

	if err := reg.CreateUser(ctx, &models.StoreUser{
		Username:     req.AdminUsername,
		PasswordHash: passwordHash,
		Role:         "admin",
	}); err != nil {
		s.logger.Error("mirror admin user into tenant store failed",
			zap.String("sheet_id", sheetID),
			zap.Error(err),
		)
	}

	pairs := [][2]string{
		{"CompanyName", req.CompanyName},
		{"LogoUrl", req.LogoURL},
		{"BrandColor", req.BrandColor},
		{"BankDetails", req.BankDetails},
		{"Currency", req.Currency},
		{"TaxID", req.TaxID},
		{"Address", req.Address},
		{"OfficialEmail", req.OfficialEmail},
		{"Phone", req.Phone},
	}
	if err := reg.SeedSettings(ctx, pairs); err != nil {
		s.logger.Error("mirror settings into tenant store failed",
			zap.String("sheet_id", sheetID),
			zap.Error(err),
		)
	}
}

func normalizeRequest(req *ProvisionRequest) error {
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.Subdomain = strings.ToLower(strings.TrimSpace(req.Subdomain))
	req.AdminUsername = strings.TrimSpace(req.AdminUsername)
	req.AdminName = strings.TrimSpace(req.AdminName)
	req.OfficialEmail = strings.TrimSpace(req.OfficialEmail)

	if req.CompanyName == "" || req.Subdomain == "" || req.AdminUsername == "" ||
		req.AdminName == "" || req.AdminPassword == "" {
		return &ValidationError{Message: "Missing required fields"}
	}
	if strings.ContainsAny(req.Subdomain, " .") {
		return &ValidationError{Message: "Invalid subdomain"}
	}
	if req.Plan == "" {
		req.Plan = "Free"
	}
	switch strings.ToLower(req.Plan) {
	case "free", "pro", "enterprise":
	default:
		return &ValidationError{Message: "Invalid plan"}
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}
	if req.BrandColor == "" {
		req.BrandColor = "#111827"
	}
	return nil
}

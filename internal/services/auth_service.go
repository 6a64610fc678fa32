package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"invoicecraft/internal/models"
	"invoicecraft/internal/repositories"
	"invoicecraft/internal/session"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers unknown users and wrong passwords alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TenantInactiveError rejects logins against a non-Active tenant.
type TenantInactiveError struct {
	Status models.TenantStatus
}

func (e *TenantInactiveError) Error() string {
	return fmt.Sprintf("tenant is %s", e.Status)
}

// AuthService authenticates principals against the registries and produces
// session payloads for the codec to seal.
type AuthService interface {
	TenantLogin(ctx context.Context, tenant, username, password string) (*session.Data, error)
	PlatformLogin(ctx context.Context, email, password string) (*session.Data, error)
}

type authService struct {
	master  repositories.MasterRegistry
	tenants repositories.TenantRegistryFactory
	logger  *zap.Logger
}

func NewAuthService(master repositories.MasterRegistry, tenants repositories.TenantRegistryFactory, logger *zap.Logger) AuthService {
	return &authService{master: master, tenants: tenants, logger: logger}
}

func (s *authService) TenantLogin(ctx context.Context, tenant, username, password string) (*session.Data, error) {
	company, err := s.master.GetTenantBySubdomain(ctx, tenant)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, ErrTenantNotFound
	}
	if company.Status != models.StatusActive {
		return nil, &TenantInactiveError{Status: company.Status}
	}

	reg := s.tenants.ForStore(company.SheetID)
	user, err := reg.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	role := session.RoleTenantUser
	if strings.EqualFold(user.Role, "admin") {
		role = session.RoleTenantAdmin
	}
	subdomain := company.Subdomain
	sheetID := company.SheetID
	return &session.Data{
		Role:    role,
		Tenant:  &subdomain,
		SheetID: &sheetID,
		Status:  string(company.Status),
		Subject: user.Username,
	}, nil
}

func (s *authService) PlatformLogin(ctx context.Context, email, password string) (*session.Data, error) {
	admin, err := s.master.GetPlatformAdminByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &session.Data{
		Role:    session.RolePlatformAdmin,
		Subject: admin.Email,
	}, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invoicecraft/internal/models"
	"invoicecraft/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrTenantNotFound marks a routing key with no registered tenant.
var ErrTenantNotFound = errors.New("tenant not found")

// ResolvedTenant is the routing state attached to admitted requests.
type ResolvedTenant struct {
	CompanyID uuid.UUID           `json:"companyId"`
	Subdomain string              `json:"subdomain"`
	SheetID   string              `json:"sheetId"`
	Status    models.TenantStatus `json:"status"`
}

// ResolverService resolves a routing key to tenant state. The resolver runs on
// every request's critical path, so lookups carry a bounded timeout; a slow or
// failing registry degrades to a lookup error, never a hang.
type ResolverService interface {
	Resolve(ctx context.Context, subdomain string) (*ResolvedTenant, error)
}

type resolverService struct {
	master  repositories.MasterRegistry
	timeout time.Duration
	logger  *zap.Logger
}

func NewResolverService(master repositories.MasterRegistry, timeout time.Duration, logger *zap.Logger) ResolverService {
	return &resolverService{master: master, timeout: timeout, logger: logger}
}

func (s *resolverService) Resolve(ctx context.Context, subdomain string) (*ResolvedTenant, error) {
	if subdomain == "" {
		return nil, ErrTenantNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tenant, err := s.master.GetTenantBySubdomain(ctx, subdomain)
	if err != nil {
		s.logger.Warn("tenant lookup failed",
			zap.String("subdomain", subdomain),
			zap.Error(err),
		)
		return nil, fmt.Errorf("resolve %s: %w", subdomain, err)
	}
	if tenant == nil {
		return nil, ErrTenantNotFound
	}
	return &ResolvedTenant{
		CompanyID: tenant.ID,
		Subdomain: tenant.Subdomain,
		SheetID:   tenant.SheetID,
		Status:    tenant.Status,
	}, nil
}

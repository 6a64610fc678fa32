package jobs

import (
	"context"
	"time"

	"invoicecraft/internal/models"
	"invoicecraft/internal/repositories"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// StoreAuditor periodically re-validates the schema of every active tenant
// store. ValidateTenantStore is idempotent, so the sweep heals stores whose
// tabs were hand-deleted and is a no-op for healthy ones.
type StoreAuditor struct {
	scheduler gocron.Scheduler
	master    repositories.MasterRegistry
	interval  time.Duration
	logger    *zap.Logger
}

func NewStoreAuditor(master repositories.MasterRegistry, interval time.Duration, logger *zap.Logger) (*StoreAuditor, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &StoreAuditor{
		scheduler: scheduler,
		master:    master,
		interval:  interval,
		logger:    logger,
	}, nil
}

// Start registers and launches the audit job.
func (a *StoreAuditor) Start() error {
	_, err := a.scheduler.NewJob(
		gocron.DurationJob(a.interval),
		gocron.NewTask(a.run),
		gocron.WithName("tenant-store-audit"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	a.scheduler.Start()
	return nil
}

// Stop shuts the scheduler down, waiting for a running sweep to finish.
func (a *StoreAuditor) Stop() error {
	return a.scheduler.Shutdown()
}

func (a *StoreAuditor) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	tenants, err := a.master.ListTenants(ctx)
	if err != nil {
		a.logger.Error("store audit: listing tenants failed", zap.Error(err))
		return
	}

	audited, failed := 0, 0
	for _, tenant := range tenants {
		if tenant.Status != models.StatusActive {
			continue
		}
		if err := a.master.ValidateTenantStore(ctx, tenant.SheetID); err != nil {
			failed++
			a.logger.Error("store audit: schema validation failed",
				zap.String("subdomain", tenant.Subdomain),
				zap.String("sheet_id", tenant.SheetID),
				zap.Error(err),
			)
			continue
		}
		audited++
	}
	a.logger.Info("store audit sweep finished",
		zap.Int("audited", audited),
		zap.Int("failed", failed),
	)
}

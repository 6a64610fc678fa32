package main

import (
	"context"
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"go.uber.org/zap"

	"invoicecraft/internal/config"
	"invoicecraft/internal/handlers"
	"invoicecraft/internal/jobs"
	"invoicecraft/internal/middleware"
	"invoicecraft/internal/repositories"
	"invoicecraft/internal/services"
	"invoicecraft/internal/session"
	"invoicecraft/internal/sheetdb"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	var logger *zap.Logger
	if cfg.Production {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cookieSecret := cfg.CookieSecret
	if cookieSecret == "" {
		cookieSecret = random.String(32) // Generate random secret for development
		logger.Warn("COOKIE_SECRET not set, using generated secret; sessions will not survive restarts")
	}

	// Spreadsheet access layer
	client := sheetdb.NewClient(sheetdb.StaticTokenSource(cfg.SheetsAccessToken), logger)
	table := sheetdb.NewTable(client, logger)

	// Registries
	masterRepo := repositories.NewMasterRegistry(table, cfg.MasterSheetID, cfg.TemplateSheetID, cfg.SheetsFolderID, logger)
	tenantRepos := repositories.NewTenantRegistryFactory(table)

	// Sessions
	codec, err := session.NewCodec([]byte(cookieSecret))
	if err != nil {
		log.Fatalf("Failed to initialize session codec: %v", err)
	}
	sessions := session.NewManager(codec, cfg.RootDomain, cfg.Production, cfg.SessionTTL)

	// Asset storage
	assetSvc, err := services.NewAssetService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.MinioBucket)
	if err != nil {
		log.Fatalf("Failed to initialize asset service: %v", err)
	}
	if err := assetSvc.EnsureBucketExists(context.Background()); err != nil {
		logger.Warn("Asset bucket check failed, logo uploads may not work", zap.Error(err))
	}

	// Services
	resolverSvc := services.NewResolverService(masterRepo, cfg.ResolveTimeout, logger)
	authSvc := services.NewAuthService(masterRepo, tenantRepos, logger)
	provisionSvc := services.NewProvisionService(masterRepo, tenantRepos, logger)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, sessions, logger)
	resolveHandlers := handlers.NewResolveHandlers(resolverSvc, logger)
	tenantHandlers := handlers.NewTenantHandlers(tenantRepos, assetSvc, logger)
	adminHandlers := handlers.NewAdminHandlers(masterRepo, provisionSvc, logger)
	pageHandlers := handlers.NewPageHandlers()

	// Background schema audit
	auditor, err := jobs.NewStoreAuditor(masterRepo, cfg.StoreAuditInterval, logger)
	if err != nil {
		log.Fatalf("Failed to initialize store auditor: %v", err)
	}
	if err := auditor.Start(); err != nil {
		log.Fatalf("Failed to start store auditor: %v", err)
	}
	defer auditor.Stop()

	// Create Echo instance
	e := echo.New()

	// Rewrites must run before routing
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Pre(middleware.TenantResolver(middleware.TenantResolverConfig{
		RootDomain: cfg.RootDomain,
		AdminAlias: cfg.AdminAlias,
		Resolver:   resolverSvc,
		Logger:     logger,
	}))

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())

	// Health endpoints (no auth required)
	e.GET("/health", handlers.HealthCheck)
	e.GET("/health/ready", handlers.ReadinessCheck)

	// Authentication routes
	auth := e.Group("/api/auth")
	auth.POST("/tenant/login", authHandlers.TenantLogin)
	auth.POST("/admin/login", authHandlers.PlatformLogin)
	auth.POST("/logout", authHandlers.Logout)

	// Tenant resolution lookup
	e.GET("/api/tenant/resolve", resolveHandlers.Resolve)

	// Tenant data routes (resolved tenant + matching session required)
	tenant := e.Group("/api/tenant")
	tenant.Use(middleware.RequireTenant(sessions))
	tenant.GET("/invoices", tenantHandlers.ListInvoices)
	tenant.POST("/invoices", tenantHandlers.UpsertInvoice)
	tenant.GET("/invoices/:number", tenantHandlers.GetInvoice)
	tenant.GET("/clients", tenantHandlers.ListClients)
	tenant.POST("/clients", tenantHandlers.UpsertClient)
	tenant.GET("/products", tenantHandlers.ListProducts)
	tenant.POST("/products", tenantHandlers.UpsertProduct)
	tenant.GET("/settings", tenantHandlers.GetSettings)
	tenant.PUT("/settings/logo", tenantHandlers.UploadLogo)

	// Platform-admin routes
	admin := e.Group("/api/admin")
	admin.Use(middleware.RequireRole(sessions, session.RolePlatformAdmin))
	admin.GET("/companies", adminHandlers.ListCompanies)
	admin.POST("/companies", adminHandlers.Provision)
	admin.GET("/companies/:subdomain", adminHandlers.GetCompany)
	admin.PATCH("/companies/:companyId/status", adminHandlers.UpdateStatus)

	// Page routes the resolver rewrites into
	e.GET("/", pageHandlers.Root)
	e.GET("/admin", pageHandlers.AdminPage)
	e.GET("/admin/*", pageHandlers.AdminPage)
	e.GET("/tenant/:slug", pageHandlers.TenantPage)
	e.GET("/tenant/:slug/*", pageHandlers.TenantPage)
	e.GET("/tenant-not-found", pageHandlers.TenantNotFound)
	e.GET("/blocked", pageHandlers.Blocked)

	logger.Info("server starting",
		zap.String("version", version),
		zap.Int("port", cfg.Port),
		zap.String("root_domain", cfg.RootDomain),
	)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}

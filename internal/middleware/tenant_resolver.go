package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"invoicecraft/internal/common"
	"invoicecraft/internal/models"
	"invoicecraft/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TenantResolverConfig configures the per-request tenant routing middleware.
type TenantResolverConfig struct {
	RootDomain string
	AdminAlias string
	Resolver   services.ResolverService
	Logger     *zap.Logger
}

// ParseSubdomain extracts the routing key from a host header. Loopback hosts
// use single-label extraction; anything else must end in the root domain.
// Empty means "no tenant" (bare root domain or bare localhost).
func ParseSubdomain(host, rootDomain string) string {
	cleanHost := host
	if i := strings.Index(cleanHost, ":"); i >= 0 {
		cleanHost = cleanHost[:i]
	}

	if cleanHost == "localhost" {
		return ""
	}
	if strings.HasSuffix(cleanHost, ".localhost") {
		trimmed := strings.TrimSuffix(cleanHost, ".localhost")
		parts := strings.Split(trimmed, ".")
		return parts[0]
	}

	if !strings.HasSuffix(cleanHost, rootDomain) {
		return ""
	}
	remainder := strings.TrimSuffix(cleanHost, rootDomain)
	remainder = strings.TrimSuffix(remainder, ".")
	if remainder == "" {
		return ""
	}
	parts := strings.Split(remainder, ".")
	return parts[0]
}

// TenantResolver is the request-routing state machine. It must be registered
// with e.Pre so rewrites happen before the router matches. Every request
// re-resolves tenant status: suspending a tenant bites on the very next request.
func TenantResolver(cfg TenantResolverConfig) echo.MiddlewareFunc {
	adminAlias := cfg.AdminAlias
	if adminAlias == "" {
		adminAlias = "app"
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			subdomain := ParseSubdomain(hostOf(req), cfg.RootDomain)
			path := req.URL.Path

			// Platform-admin alias: no tenant lookup at all.
			if subdomain == adminAlias {
				if strings.HasPrefix(path, "/api") {
					return next(c)
				}
				if !strings.HasPrefix(path, "/admin") {
					rewrite(req, prefixPath("/admin", path), nil)
				}
				return next(c)
			}

			// Bare root domain: public landing behavior.
			if subdomain == "" {
				return next(c)
			}

			resolved, err := cfg.Resolver.Resolve(req.Context(), subdomain)
			if err != nil {
				// Fail closed: lookup failures route like unknown tenants.
				if !errors.Is(err, services.ErrTenantNotFound) {
					cfg.Logger.Error("tenant resolution failed, denying routing",
						zap.String("subdomain", subdomain),
						zap.Error(err),
					)
				}
				rewrite(req, "/tenant-not-found", url.Values{"tenant": {subdomain}})
				return next(c)
			}

			if resolved.Status != models.StatusActive {
				if strings.HasPrefix(path, "/api") {
					return common.JSONError(c, http.StatusForbidden, fmt.Sprintf("Tenant is %s", resolved.Status))
				}
				rewrite(req, "/blocked", url.Values{
					"status": {string(resolved.Status)},
					"tenant": {subdomain},
				})
				return next(c)
			}

			attachTenantContext(c, resolved)
			if strings.HasPrefix(path, "/api") {
				return next(c)
			}
			prefix := "/tenant/" + subdomain
			if !strings.HasPrefix(path, prefix) {
				rewrite(req, prefixPath(prefix, path), nil)
			}
			return next(c)
		}
	}
}

func hostOf(req *http.Request) string {
	if forwarded := req.Header.Get("X-Forwarded-Host"); forwarded != "" {
		return forwarded
	}
	return req.Host
}

func prefixPath(prefix, path string) string {
	if path == "/" {
		return prefix
	}
	return prefix + path
}

func rewrite(req *http.Request, path string, params url.Values) {
	req.URL.Path = path
	if params != nil {
		q := req.URL.Query()
		for key, vals := range params {
			for _, v := range vals {
				q.Set(key, v)
			}
		}
		req.URL.RawQuery = q.Encode()
	}
}

func attachTenantContext(c echo.Context, resolved *services.ResolvedTenant) {
	ctx := c.Request().Context()
	ctx = context.WithValue(ctx, common.TenantKey, resolved.Subdomain)
	ctx = context.WithValue(ctx, common.SheetIDKey, resolved.SheetID)
	ctx = context.WithValue(ctx, common.TenantStatusKey, string(resolved.Status))
	ctx = context.WithValue(ctx, common.CompanyIDKey, resolved.CompanyID)
	c.SetRequest(c.Request().WithContext(ctx))
}

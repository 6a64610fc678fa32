package middleware

import (
	"context"
	"net/http"

	"invoicecraft/internal/common"
	"invoicecraft/internal/session"

	"github.com/labstack/echo/v4"
)

// GetSessionFromContext returns the authenticated session attached by a guard.
func GetSessionFromContext(ctx context.Context) (*session.Data, bool) {
	data, ok := ctx.Value(common.SessionKey).(*session.Data)
	return data, ok
}

// RequireRole admits only sessions carrying one of the allowed roles. Every
// failure mode collapses into the same 401.
func RequireRole(sessions *session.Manager, allowed ...session.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			data, err := sessions.Get(c)
			if err != nil {
				return common.SendUnauthorizedError(c)
			}
			permitted := false
			for _, role := range allowed {
				if data.Role == role {
					permitted = true
					break
				}
			}
			if !permitted {
				return common.SendUnauthorizedError(c)
			}
			attachSession(c, data)
			return next(c)
		}
	}
}

// RequireTenant admits tenant-scoped sessions whose tenant matches the
// resolved request tenant. A valid session for a different tenant is a 403,
// not a 401.
func RequireTenant(sessions *session.Manager, allowed ...session.Role) echo.MiddlewareFunc {
	if len(allowed) == 0 {
		allowed = []session.Role{session.RoleTenantAdmin, session.RoleTenantUser}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenant, ok := common.GetTenantFromContext(c.Request().Context())
			if !ok {
				return common.JSONError(c, http.StatusBadRequest, "Missing tenant context")
			}
			data, err := sessions.Get(c)
			if err != nil {
				return common.SendUnauthorizedError(c)
			}
			permitted := false
			for _, role := range allowed {
				if data.Role == role {
					permitted = true
					break
				}
			}
			if !permitted {
				return common.SendUnauthorizedError(c)
			}
			if data.Tenant == nil || *data.Tenant != tenant {
				return common.JSONError(c, http.StatusForbidden, "Cross-tenant access blocked")
			}
			attachSession(c, data)
			return next(c)
		}
	}
}

func attachSession(c echo.Context, data *session.Data) {
	ctx := context.WithValue(c.Request().Context(), common.SessionKey, data)
	c.SetRequest(c.Request().WithContext(ctx))
}

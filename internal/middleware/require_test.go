package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"invoicecraft/internal/common"
	"invoicecraft/internal/session"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessions(t *testing.T) *session.Manager {
	t.Helper()
	codec, err := session.NewCodec([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	return session.NewManager(codec, "invoicecraft.com", false, time.Hour)
}

func sessionCookie(t *testing.T, sessions *session.Manager, data session.Data) *http.Cookie {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, sessions.Issue(c, data))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func performGuarded(mw echo.MiddlewareFunc, cookie *http.Cookie, tenant string) *httptest.ResponseRecorder {
	e := echo.New()
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/api/tenant/invoices", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	if tenant != "" {
		ctx := context.WithValue(req.Context(), common.TenantKey, tenant)
		ctx = context.WithValue(ctx, common.SheetIDKey, "sheet-"+tenant)
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = handler(c)
	return rec
}

func TestRequireRole_MissingSession(t *testing.T) {
	sessions := newTestSessions(t)
	rec := performGuarded(RequireRole(sessions, session.RolePlatformAdmin), nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole_WrongRole(t *testing.T) {
	sessions := newTestSessions(t)
	tenant := "acme"
	cookie := sessionCookie(t, sessions, session.Data{
		Role: session.RoleTenantUser, Tenant: &tenant, Subject: "bob",
	})
	rec := performGuarded(RequireRole(sessions, session.RolePlatformAdmin), cookie, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole_Allowed(t *testing.T) {
	sessions := newTestSessions(t)
	cookie := sessionCookie(t, sessions, session.Data{
		Role: session.RolePlatformAdmin, Subject: "root@invoicecraft.com",
	})
	rec := performGuarded(RequireRole(sessions, session.RolePlatformAdmin), cookie, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireTenant_MissingTenantContext(t *testing.T) {
	sessions := newTestSessions(t)
	tenant := "acme"
	cookie := sessionCookie(t, sessions, session.Data{
		Role: session.RoleTenantAdmin, Tenant: &tenant, Subject: "alice",
	})
	rec := performGuarded(RequireTenant(sessions), cookie, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequireTenant_MatchingTenant(t *testing.T) {
	sessions := newTestSessions(t)
	tenant := "acme"
	cookie := sessionCookie(t, sessions, session.Data{
		Role: session.RoleTenantAdmin, Tenant: &tenant, Subject: "alice",
	})
	rec := performGuarded(RequireTenant(sessions), cookie, "acme")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireTenant_CrossTenantBlocked(t *testing.T) {
	sessions := newTestSessions(t)
	tenant := "globex"
	cookie := sessionCookie(t, sessions, session.Data{
		Role: session.RoleTenantAdmin, Tenant: &tenant, Subject: "alice",
	})
	rec := performGuarded(RequireTenant(sessions), cookie, "acme")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Cross-tenant access blocked"}`, rec.Body.String())
}

func TestRequireTenant_PlatformAdminNotAdmittedByDefault(t *testing.T) {
	sessions := newTestSessions(t)
	cookie := sessionCookie(t, sessions, session.Data{
		Role: session.RolePlatformAdmin, Subject: "root@invoicecraft.com",
	})
	rec := performGuarded(RequireTenant(sessions), cookie, "acme")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieName is the session cookie shared across tenant subdomains.
const CookieName = "ic_session"

// Manager moves sealed sessions in and out of the HTTP-only session cookie.
type Manager struct {
	codec      *Codec
	rootDomain string
	production bool
	ttl        time.Duration
}

func NewManager(codec *Codec, rootDomain string, production bool, ttl time.Duration) *Manager {
	return &Manager{codec: codec, rootDomain: rootDomain, production: production, ttl: ttl}
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue seals data and delivers it as the session cookie. In production the
// cookie is scoped to the parent domain so every tenant subdomain shares it.
func (m *Manager) Issue(c echo.Context, data Data) error {
	token, err := m.codec.Seal(data, m.ttl)
	if err != nil {
		return err
	}
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.production,
		MaxAge:   int(m.ttl.Seconds()),
	}
	if m.production && m.rootDomain != "" && !strings.Contains(m.rootDomain, "localhost") {
		cookie.Domain = "." + m.rootDomain
	}
	c.SetCookie(cookie)
	return nil
}

// Clear instructs the client to discard the credential.
func (m *Manager) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.production,
		MaxAge:   -1,
	})
}

// Get returns the verified session for the request, or ErrNoSession.
func (m *Manager) Get(c echo.Context) (*Data, error) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}
	return m.codec.Unseal(cookie.Value)
}

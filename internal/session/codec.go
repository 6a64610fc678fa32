package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the principal kind carried in a session.
type Role string

const (
	RolePlatformAdmin Role = "platform_admin"
	RoleTenantAdmin   Role = "tenant_admin"
	RoleTenantUser    Role = "tenant_user"
)

// ErrNoSession is the uniform failure for any missing, malformed, tampered or
// expired token. Callers never learn which.
var ErrNoSession = errors.New("session: no valid session")

// Data is the session payload. Tenant-scoped roles always carry a non-nil
// tenant and sheet id; the platform admin carries nil for both.
type Data struct {
	Role    Role
	Tenant  *string
	SheetID *string
	Status  string
	Subject string
}

type sessionClaims struct {
	Role    string  `json:"role"`
	Tenant  *string `json:"tenant"`
	SheetID *string `json:"sheetId"`
	Status  string  `json:"status,omitempty"`
	jwt.RegisteredClaims
}

// Codec seals and unseals session tokens: HS256-signed claims wrapped in
// AES-256-GCM, keyed by the process-wide cookie secret.
type Codec struct {
	secret []byte
	aead   cipher.AEAD
}

func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) < 32 {
		return nil, errors.New("session: secret must be at least 32 bytes")
	}
	block, err := aes.NewCipher(secret[:32])
	if err != nil {
		return nil, fmt.Errorf("session: cipher init: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("session: gcm init: %w", err)
	}
	return &Codec{secret: secret, aead: aead}, nil
}

// Seal produces an opaque token carrying data, valid for ttl.
func (c *Codec) Seal(data Data, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Role:    string(data.Role),
		Tenant:  data.Tenant,
		SheetID: data.SheetID,
		Status:  data.Status,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   data.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("session: sign: %w", err)
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("session: nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(signed), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Unseal decrypts and verifies a token. The payload is never partially
// trusted: decryption, signature and expiry all have to pass.
func (c *Codec) Unseal(token string) (*Data, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(raw) < c.aead.NonceSize() {
		return nil, ErrNoSession
	}
	nonce, ciphertext := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	signed, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrNoSession
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(string(signed), claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, ErrNoSession
	}

	switch Role(claims.Role) {
	case RolePlatformAdmin, RoleTenantAdmin, RoleTenantUser:
	default:
		return nil, ErrNoSession
	}

	return &Data{
		Role:    Role(claims.Role),
		Tenant:  claims.Tenant,
		SheetID: claims.SheetID,
		Status:  claims.Status,
		Subject: claims.Subject,
	}, nil
}

package token

import (
	"crypto/ecdsa"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"appstore-release-client/internal/config"
	"appstore-release-client/internal/core/domain"
	ports "appstore-release-client/internal/core/ports/output"
)

const (
	audience = "appstoreconnect-v1"

	DefaultTTL = 20 * time.Minute
	// MaxTTL is the longest lifetime App Store Connect accepts between iat and exp.
	MaxTTL = 20 * time.Minute
	// refreshWindow re-mints a token this long before it expires so in-flight
	// requests never carry an expired one.
	refreshWindow = time.Minute
)

type issuer struct {
	issuerID string
	keyID    string
	key      *ecdsa.PrivateKey
	ttl      time.Duration
	now      func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewIssuer creates a TokenSource minting ES256 App Store Connect tokens from a PEM encoded
// PKCS#8 private key.
func NewIssuer(cfg *config.AuthConfig) (ports.TokenSource, error) {
	return newIssuer(cfg, time.Now)
}

func newIssuer(cfg *config.AuthConfig, now func() time.Time) (*issuer, error) {
	if cfg.IssuerID == "" || cfg.KeyID == "" || len(cfg.PrivateKey) == 0 {
		return nil, domain.ErrMissingCredentials
	}
	key, err := jwt.ParseECPrivateKeyFromPEM(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	ttl := cfg.TokenTTL
	switch {
	case ttl <= refreshWindow:
		ttl = DefaultTTL
	case ttl > MaxTTL:
		ttl = MaxTTL
	}

	return &issuer{
		issuerID: cfg.IssuerID,
		keyID:    cfg.KeyID,
		key:      key,
		ttl:      ttl,
		now:      now,
	}, nil
}

func (i *issuer) Token() (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if i.token != "" && now.Before(i.expiresAt.Add(-refreshWindow)) {
		return i.token, nil
	}

	expiresAt := now.Add(i.ttl)
	// aud must be a plain string; RegisteredClaims would encode it as an array.
	t := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iss": i.issuerID,
		"aud": audience,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	})
	t.Header["kid"] = i.keyID

	signed, err := t.SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	i.token = signed
	i.expiresAt = expiresAt
	return signed, nil
}

package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/propertyhub/backoffice/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// Claims is the decoded payload of a session token. Subject holds the
// identity key.
type Claims struct {
	Handle string      `json:"handle"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// IdentityKey returns the subject of the token.
func (c *Claims) IdentityKey() string { return c.Subject }

// TokenManager issues and verifies stateless HS256 session tokens. Tokens are
// not revocable; they stay valid until exp.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a manager signing with secret. A non-positive ttl
// falls back to 24h.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue mints a signed token for cred.
func (m *TokenManager) Issue(cred *domain.Credential) (string, error) {
	now := m.now()
	claims := Claims{
		Handle: cred.LoginHandle,
		Role:   cred.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   cred.IdentityKey,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks signature, algorithm and expiry without consulting any store.
// Every failure is reported as domain.ErrInvalidToken.
func (m *TokenManager) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	tkn, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// Authorize is a pure role membership check.
func Authorize(claims *Claims, allowed ...domain.Role) error {
	if claims == nil {
		return domain.ErrForbidden
	}
	return AuthorizeRole(claims.Role, allowed...)
}

// AuthorizeRole reports domain.ErrForbidden unless role is in allowed.
func AuthorizeRole(role domain.Role, allowed ...domain.Role) error {
	for _, r := range allowed {
		if r == role {
			return nil
		}
	}
	return domain.ErrForbidden
}

package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrInvalidExpiry = errors.New("token expiry must be positive")
	ErrEmptySubject  = errors.New("token subject is required")
)

// TokenConfig configures a TokenManager.
type TokenConfig struct {
	Secret   string
	Expiry   time.Duration
	Issuer   string
	Audience string
}

// TokenManager mints and validates HS256 session tokens. Tokens carry only the
// user id (sub) and the registered time claims; exp is always set.
type TokenManager struct {
	secret   []byte
	expiry   time.Duration
	issuer   string
	audience string
	now      func() time.Time
}

// NewTokenManager creates a TokenManager. A non-positive expiry is rejected so
// that no token is ever minted without an expiration.
func NewTokenManager(cfg TokenConfig) (*TokenManager, error) {
	if cfg.Expiry <= 0 {
		return nil, ErrInvalidExpiry
	}

	return &TokenManager{
		secret:   []byte(cfg.Secret),
		expiry:   cfg.Expiry,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		now:      time.Now,
	}, nil
}

// Issue creates a signed token for the given user id.
func (m *TokenManager) Issue(userID string) (string, error) {
	if userID == "" {
		return "", ErrEmptySubject
	}

	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    m.issuer,
		Audience:  jwt.ClaimStrings{m.audience},
		ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses and verifies a token and returns the user id it was issued
// for. Every failure is reported as ErrInvalidToken.
func (m *TokenManager) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// Expiry returns the configured token lifetime.
func (m *TokenManager) Expiry() time.Duration {
	return m.expiry
}

package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/devconnector/connector-api/internal/core/domain"
)

const DefaultTokenTTL = 10 * time.Hour

type tokenSubject struct {
	ID string `json:"id"`
}

// Claims is the token payload: the owning user id plus the expiry.
type Claims struct {
	User tokenSubject `json:"user"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies stateless HS256 access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token bound to userID that expires after the configured TTL.
func (m *TokenManager) Issue(userID string) (string, error) {
	claims := Claims{
		User: tokenSubject{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(m.now().Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify returns the user id embedded in token. A token is accepted strictly
// before its expiry; any parse, signature or expiry failure yields
// domain.ErrTokenInvalid.
func (m *TokenManager) Verify(token string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid || claims.User.ID == "" {
		return "", domain.ErrTokenInvalid
	}
	return claims.User.ID, nil
}

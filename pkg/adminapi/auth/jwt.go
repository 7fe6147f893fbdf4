// Package auth issues and validates the bearer tokens that protect the
// operator-facing admin API. It has nothing to do with TRTP protocol
// accounts -- that login happens on the wire, not over HTTP -- this is the
// single built-in operator identity configured via pkg/config.AdminAPIConfig.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Common errors for token operations.
var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token has expired")
	ErrInvalidSecretLength = errors.New("JWT secret must be at least 32 characters")
)

// Claims identifies the operator a validated token was issued to. There is
// only ever one operator account, so Claims carries no role or group
// information -- holding a valid token is itself the authorization.
type Claims struct {
	jwt.RegisteredClaims

	// Username is the operator login the token was issued to.
	Username string `json:"username"`
}

// Config holds the signing parameters for JWTService.
type Config struct {
	// Secret is the HMAC signing key. Must be at least 32 characters.
	Secret string

	// Issuer is the token issuer claim. Default: "trtpd".
	Issuer string

	// TokenTTL is the lifetime of an issued token. Default: 8 hours.
	TokenTTL time.Duration
}

// JWTService issues and validates operator session tokens.
type JWTService struct {
	config Config
}

// NewJWTService creates a JWTService, applying defaults to an unset Issuer
// or TokenTTL. Returns ErrInvalidSecretLength if the secret is too short to
// sign anything with.
func NewJWTService(config Config) (*JWTService, error) {
	if len(config.Secret) < 32 {
		return nil, ErrInvalidSecretLength
	}
	if config.Issuer == "" {
		config.Issuer = "trtpd"
	}
	if config.TokenTTL == 0 {
		config.TokenTTL = 8 * time.Hour
	}
	return &JWTService{config: config}, nil
}

// IssueToken signs a new token for username, valid for the configured TTL.
func (s *JWTService) IssueToken(username string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.config.TokenTTL)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and verifies tokenString, returning its claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TokenTTL returns the configured token lifetime.
func (s *JWTService) TokenTTL() time.Duration {
	return s.config.TokenTTL
}

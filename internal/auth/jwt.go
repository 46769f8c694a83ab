package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/arianbazaar/storefront-api/internal/config"
	"github.com/arianbazaar/storefront-api/internal/domain"
)

// TokenManager issues and validates HS256 JWTs carrying the user ID and
// application role
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a token manager from config
func NewTokenManager(cfg config.JWTConfig) *TokenManager {
	ttl := time.Duration(cfg.TTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &TokenManager{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
	}
}

// Generate creates a signed token for a user
func (m *TokenManager) Generate(userID uuid.UUID, role domain.Role) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"role": string(role),
		"exp":  now.Add(m.ttl).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses a token and returns the user ID and role
func (m *TokenManager) Validate(tokenString string) (uuid.UUID, domain.Role, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return uuid.Nil, "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, "", errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, "", errors.New("invalid subject claim")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, "", errors.New("invalid subject claim")
	}

	roleStr, _ := claims["role"].(string)
	role := domain.Role(roleStr)
	if !role.IsValid() {
		return uuid.Nil, "", errors.New("invalid role claim")
	}

	return userID, role, nil
}

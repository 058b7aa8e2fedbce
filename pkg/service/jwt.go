package service

import (
	"time"

	"coa-service/pkg/errors"

	jwt "github.com/golang-jwt/jwt/v5"
)

// SessionClaims binds a working-set session id into a signed token.
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

type TokenService interface {
	GenerateToken(sessionID string) (string, error)
	ValidateToken(tokenString string) (*SessionClaims, error)
	TokenTTL() time.Duration
}

type tokenService struct {
	secretKey string
	tokenTTL  time.Duration
}

func NewTokenService(secretKey string, tokenTTL time.Duration) TokenService {
	return &tokenService{secretKey: secretKey, tokenTTL: tokenTTL}
}

func (s *tokenService) GenerateToken(sessionID string) (string, error) {
	claims := &SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString([]byte(s.secretKey))
}

func (s *tokenService) ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			return []byte(s.secretKey), nil
		default:
			return nil, errors.ErrInvalidSigningMethod
		}
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.ErrInvalidToken
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, errors.ErrTokenExpired
	}

	if claims.IssuedAt != nil && claims.IssuedAt.Time.After(time.Now()) {
		return nil, errors.ErrTokenNotYetValid
	}

	return claims, nil
}

func (s *tokenService) TokenTTL() time.Duration {
	return s.tokenTTL
}

package service

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/nbx-exchange-api/internal/models"
	"github.com/noah-isme/nbx-exchange-api/pkg/config"
	appErrors "github.com/noah-isme/nbx-exchange-api/pkg/errors"
)

// TokenService validates hub-issued exchange tokens. The service never mints
// tokens itself; identity and course membership are the hub's to assert.
type TokenService struct {
	secret []byte
	parser *jwt.Parser
}

// NewTokenService constructs TokenService from the auth configuration.
func NewTokenService(cfg config.AuthConfig) *TokenService {
	return &TokenService{
		secret: []byte(cfg.TokenSecret),
		parser: jwt.NewParser(jwt.WithLeeway(cfg.Leeway)),
	}
}

// ValidateToken parses and verifies a bearer token into exchange claims.
func (s *TokenService) ValidateToken(tokenString string) (*models.ExchangeClaims, error) {
	token, err := s.parser.ParseWithClaims(tokenString, &models.ExchangeClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.ExchangeClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if claims.Name == "" || claims.OrgID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token missing identity claims")
	}

	return claims, nil
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/nbx-exchange-api/internal/middleware"
	"github.com/noah-isme/nbx-exchange-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.ExchangeClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.ExchangeClaims)
	if !ok {
		return nil
	}
	return claims
}

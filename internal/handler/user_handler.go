package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/nbx-exchange-api/internal/dto"
	"github.com/noah-isme/nbx-exchange-api/internal/models"
	appErrors "github.com/noah-isme/nbx-exchange-api/pkg/errors"
	"github.com/noah-isme/nbx-exchange-api/pkg/response"
)

// IdentityService resolves callers into stored users with their memberships.
type IdentityService interface {
	Bootstrap(ctx context.Context, claims *models.ExchangeClaims) (*dto.UserModel, error)
}

// UserHandler exposes the caller's resolved identity.
type UserHandler struct {
	identity IdentityService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(identity IdentityService) *UserHandler {
	return &UserHandler{identity: identity}
}

// Current godoc
// @Summary Current user
// @Description Resolve the caller's identity and course memberships
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /user [get]
func (h *UserHandler) Current(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	user, err := h.identity.Bootstrap(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", user)
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/nbx-exchange-api/internal/dto"
	"github.com/noah-isme/nbx-exchange-api/internal/models"
	appErrors "github.com/noah-isme/nbx-exchange-api/pkg/errors"
	"github.com/noah-isme/nbx-exchange-api/pkg/response"
)

// ListingService resolves the per-viewer assignment view of a course.
type ListingService interface {
	List(ctx context.Context, courseCode string, claims *models.ExchangeClaims) ([]dto.AssignmentListItem, error)
}

// AssignmentsHandler serves the per-viewer assignment listing.
type AssignmentsHandler struct {
	listing ListingService
}

// NewAssignmentsHandler creates a new assignments handler.
func NewAssignmentsHandler(listing ListingService) *AssignmentsHandler {
	return &AssignmentsHandler{listing: listing}
}

// List godoc
// @Summary List assignments
// @Description List the actions visible to the caller on one course
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param course_id query string true "Course code"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /assignments [get]
func (h *AssignmentsHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	items, err := h.listing.List(c.Request.Context(), c.Query("course_id"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", items)
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/nbx-exchange-api/internal/dto"
	"github.com/noah-isme/nbx-exchange-api/internal/models"
	"github.com/noah-isme/nbx-exchange-api/internal/service"
	appErrors "github.com/noah-isme/nbx-exchange-api/pkg/errors"
	"github.com/noah-isme/nbx-exchange-api/pkg/response"
)

// CollectionService serves the instructor's submission views and downloads.
type CollectionService interface {
	Collections(ctx context.Context, courseCode, assignmentCode string, claims *models.ExchangeClaims) ([]dto.AssignmentListItem, error)
	Submissions(ctx context.Context, courseCode, assignmentCode string, claims *models.ExchangeClaims) ([]dto.AssignmentListItem, error)
	CollectOne(ctx context.Context, courseCode, path string, claims *models.ExchangeClaims) (*service.ArtifactDownload, error)
}

// CollectionHandler covers the instructor's collection views.
type CollectionHandler struct {
	collections CollectionService
}

// NewCollectionHandler creates a new collection handler.
func NewCollectionHandler(collections CollectionService) *CollectionHandler {
	return &CollectionHandler{collections: collections}
}

// List godoc
// @Summary List collections
// @Description List submitted work across a course, grouped by assignment
// @Tags Collections
// @Produce json
// @Security BearerAuth
// @Param course_id query string true "Course code"
// @Param assignment_id query string false "Assignment code filter"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /collections [get]
func (h *CollectionHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	items, err := h.collections.Collections(c.Request.Context(), c.Query("course_id"), c.Query("assignment_id"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", items)
}

// Download godoc
// @Summary Collect a submission
// @Description Download one submitted artifact by its path
// @Tags Collections
// @Produce octet-stream
// @Security BearerAuth
// @Param course_id query string true "Course code"
// @Param path query string true "Submission path"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /collection [get]
func (h *CollectionHandler) Download(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	artifact, err := h.collections.CollectOne(c.Request.Context(), c.Query("course_id"), c.Query("path"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, artifactContentType, artifact.Data)
}

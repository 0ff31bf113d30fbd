package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/nbx-exchange-api/internal/models"
	"github.com/noah-isme/nbx-exchange-api/internal/service"
	appErrors "github.com/noah-isme/nbx-exchange-api/pkg/errors"
	"github.com/noah-isme/nbx-exchange-api/pkg/response"
)

const artifactContentType = "application/gzip"

// ExchangeService performs the state-changing exchange operations.
type ExchangeService interface {
	Release(ctx context.Context, req service.ExchangeRequest, notebooks []string, upload service.ArtifactUpload, claims *models.ExchangeClaims) (*models.Action, error)
	Fetch(ctx context.Context, req service.ExchangeRequest, claims *models.ExchangeClaims) (*service.ArtifactDownload, error)
	Submit(ctx context.Context, req service.ExchangeRequest, upload service.ArtifactUpload, claims *models.ExchangeClaims) (*models.Action, error)
	Unrelease(ctx context.Context, req service.ExchangeRequest, claims *models.ExchangeClaims) error
}

// AssignmentHandler covers the single-assignment exchange operations:
// releasing, fetching and unreleasing.
type AssignmentHandler struct {
	exchange    ExchangeService
	maxFileSize int64
}

// NewAssignmentHandler creates a new assignment handler.
func NewAssignmentHandler(exchange ExchangeService, maxFileSize int64) *AssignmentHandler {
	return &AssignmentHandler{exchange: exchange, maxFileSize: maxFileSize}
}

func exchangeRequest(c *gin.Context) service.ExchangeRequest {
	return service.ExchangeRequest{
		CourseCode:     c.Query("course_id"),
		AssignmentCode: c.Query("assignment_id"),
	}
}

// Download godoc
// @Summary Fetch assignment
// @Description Download the current release of an assignment
// @Tags Assignments
// @Produce octet-stream
// @Security BearerAuth
// @Param course_id query string true "Course code"
// @Param assignment_id query string true "Assignment code"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /assignment [get]
func (h *AssignmentHandler) Download(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	artifact, err := h.exchange.Fetch(c.Request.Context(), exchangeRequest(c), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, artifactContentType, artifact.Data)
}

// Release godoc
// @Summary Release assignment
// @Description Publish an assignment archive with its notebook names
// @Tags Assignments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param course_id query string true "Course code"
// @Param assignment_id query string true "Assignment code"
// @Param assignment formData file true "Assignment archive"
// @Param notebooks formData []string false "Notebook names"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /assignment [post]
func (h *AssignmentHandler) Release(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("assignment")
	if err != nil {
		response.Error(c, appErrors.ErrMissingUpload)
		return
	}
	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "uploaded file exceeds the size limit"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to open upload"))
		return
	}
	defer file.Close()

	notebooks := c.PostFormArray("notebooks")

	action, err := h.exchange.Release(c.Request.Context(), exchangeRequest(c), notebooks, service.ArtifactUpload{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  file,
	}, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Released", gin.H{"timestamp": action.FormatTimestamp()})
}

// Unrelease godoc
// @Summary Unrelease assignment
// @Description Deactivate an assignment and purge its notebook set
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param course_id query string true "Course code"
// @Param assignment_id query string true "Assignment code"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /assignment [delete]
func (h *AssignmentHandler) Unrelease(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.exchange.Unrelease(c.Request.Context(), exchangeRequest(c), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Assignment deleted", nil)
}

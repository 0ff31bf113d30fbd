package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/nbx-exchange-api/internal/service"
	appErrors "github.com/noah-isme/nbx-exchange-api/pkg/errors"
	"github.com/noah-isme/nbx-exchange-api/pkg/response"
)

// SubmissionHandler covers submitting work and listing submissions.
type SubmissionHandler struct {
	exchange    ExchangeService
	collections CollectionService
	maxFileSize int64
}

// NewSubmissionHandler creates a new submission handler.
func NewSubmissionHandler(exchange ExchangeService, collections CollectionService, maxFileSize int64) *SubmissionHandler {
	return &SubmissionHandler{exchange: exchange, collections: collections, maxFileSize: maxFileSize}
}

// Submit godoc
// @Summary Submit assignment
// @Description Upload completed work for an assignment
// @Tags Submissions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param course_id query string true "Course code"
// @Param assignment_id query string true "Assignment code"
// @Param assignment formData file true "Submission archive"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /submission [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
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

	action, err := h.exchange.Submit(c.Request.Context(), exchangeRequest(c), service.ArtifactUpload{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  file,
	}, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Submitted", gin.H{"timestamp": action.FormatTimestamp()})
}

// List godoc
// @Summary List submissions
// @Description List submitted work for one assignment
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Param course_id query string true "Course code"
// @Param assignment_id query string true "Assignment code"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /submissions [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	items, err := h.collections.Submissions(c.Request.Context(), c.Query("course_id"), c.Query("assignment_id"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", items)
}

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/nbx-exchange-api/internal/dto"
	"github.com/noah-isme/nbx-exchange-api/internal/models"
	appErrors "github.com/noah-isme/nbx-exchange-api/pkg/errors"
)

type fakeListing struct {
	items      []dto.AssignmentListItem
	err        error
	lastCourse string
}

func (f *fakeListing) List(_ context.Context, courseCode string, _ *models.ExchangeClaims) ([]dto.AssignmentListItem, error) {
	f.lastCourse = courseCode
	return f.items, f.err
}

func TestAssignmentsList(t *testing.T) {
	listing := &fakeListing{items: []dto.AssignmentListItem{
		{AssignmentID: "assign_1", CourseID: "course_2", Status: "released"},
	}}
	h := NewAssignmentsHandler(listing)

	req := httptest.NewRequest(http.MethodGet, "/assignments?course_id=course_2", nil)
	c, rec := testContext(t, req, testClaims())

	h.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "course_2", listing.lastCourse)
	envelope := decodeEnvelope(t, rec)
	assert.True(t, envelope.Success)
}

func TestAssignmentsListNotSubscribed(t *testing.T) {
	listing := &fakeListing{err: appErrors.ErrNotSubscribed}
	h := NewAssignmentsHandler(listing)

	req := httptest.NewRequest(http.MethodGet, "/assignments?course_id=other", nil)
	c, rec := testContext(t, req, testClaims())

	h.List(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

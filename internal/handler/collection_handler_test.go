package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/nbx-exchange-api/internal/dto"
	"github.com/noah-isme/nbx-exchange-api/internal/models"
	"github.com/noah-isme/nbx-exchange-api/internal/service"
	appErrors "github.com/noah-isme/nbx-exchange-api/pkg/errors"
)

type fakeCollections struct {
	items    []dto.AssignmentListItem
	download *service.ArtifactDownload
	err      error

	lastCourse     string
	lastAssignment string
	lastPath       string
}

func (f *fakeCollections) Collections(_ context.Context, courseCode, assignmentCode string, _ *models.ExchangeClaims) ([]dto.AssignmentListItem, error) {
	f.lastCourse = courseCode
	f.lastAssignment = assignmentCode
	return f.items, f.err
}

func (f *fakeCollections) Submissions(_ context.Context, courseCode, assignmentCode string, _ *models.ExchangeClaims) ([]dto.AssignmentListItem, error) {
	f.lastCourse = courseCode
	f.lastAssignment = assignmentCode
	return f.items, f.err
}

func (f *fakeCollections) CollectOne(_ context.Context, courseCode, path string, _ *models.ExchangeClaims) (*service.ArtifactDownload, error) {
	f.lastCourse = courseCode
	f.lastPath = path
	if f.err != nil {
		return nil, f.err
	}
	return f.download, nil
}

func TestCollectionsList(t *testing.T) {
	collections := &fakeCollections{items: []dto.AssignmentListItem{
		{AssignmentID: "assign_1", CourseID: "course_2", Status: "submitted", Path: "/sub"},
	}}
	h := NewCollectionHandler(collections)

	req := httptest.NewRequest(http.MethodGet, "/collections?course_id=course_2", nil)
	c, rec := testContext(t, req, testClaims())

	h.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "course_2", collections.lastCourse)
	envelope := decodeEnvelope(t, rec)
	assert.True(t, envelope.Success)
}

func TestCollectionsListForbidden(t *testing.T) {
	collections := &fakeCollections{err: appErrors.ErrNotInstructor}
	h := NewCollectionHandler(collections)

	req := httptest.NewRequest(http.MethodGet, "/collections?course_id=course_2", nil)
	c, rec := testContext(t, req, testClaims())

	h.List(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCollectionDownload(t *testing.T) {
	collections := &fakeCollections{download: &service.ArtifactDownload{Location: "/data/sub.tar.gz", Data: []byte("submission")}}
	h := NewCollectionHandler(collections)

	req := httptest.NewRequest(http.MethodGet, "/collection?course_id=course_2&path=%2Fdata%2Fsub.tar.gz", nil)
	c, rec := testContext(t, req, testClaims())

	h.Download(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/gzip", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte("submission"), rec.Body.Bytes())
	assert.Equal(t, "/data/sub.tar.gz", collections.lastPath)
}

func TestCollectionDownloadNotSubmitted(t *testing.T) {
	collections := &fakeCollections{err: appErrors.Clone(appErrors.ErrNotFound, "no submission found at the requested path")}
	h := NewCollectionHandler(collections)

	req := httptest.NewRequest(http.MethodGet, "/collection?course_id=course_2&path=%2Fdata%2Frel.tar.gz", nil)
	c, rec := testContext(t, req, testClaims())

	h.Download(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

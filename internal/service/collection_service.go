package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/nbx-exchange-api/internal/dto"
	"github.com/noah-isme/nbx-exchange-api/internal/models"
	appErrors "github.com/noah-isme/nbx-exchange-api/pkg/errors"
)

// CollectionService serves the instructor's side of the loop: seeing what
// was submitted and pulling individual submissions down. Inactive
// assignments stay collectable, so every lookup here spans the whole course
// rather than the active subset.
type CollectionService struct {
	identity    identityResolver
	courses     courseStore
	assignments assignmentStore
	actions     actionStore
	artifacts   artifactStore
	cache       *CacheService
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewCollectionService constructs CollectionService.
func NewCollectionService(identity identityResolver, courses courseStore, assignments assignmentStore, actions actionStore, artifacts artifactStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *CollectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollectionService{
		identity:    identity,
		courses:     courses,
		assignments: assignments,
		actions:     actions,
		artifacts:   artifacts,
		cache:       cache,
		metrics:     metrics,
		logger:      logger,
	}
}

// Collections lists submitted actions across the course, grouped by
// assignment. An assignment code narrows the view to one assignment.
func (s *CollectionService) Collections(ctx context.Context, courseCode, assignmentCode string, claims *models.ExchangeClaims) ([]dto.AssignmentListItem, error) {
	items, err := s.submittedItems(ctx, courseCode, claims)
	if err != nil {
		return nil, err
	}
	if assignmentCode == "" {
		return items, nil
	}
	filtered := make([]dto.AssignmentListItem, 0, len(items))
	for _, item := range items {
		if item.AssignmentID == assignmentCode {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// Submissions lists submitted actions for one assignment. Unlike Collections
// the assignment code is mandatory.
func (s *CollectionService) Submissions(ctx context.Context, courseCode, assignmentCode string, claims *models.ExchangeClaims) ([]dto.AssignmentListItem, error) {
	if assignmentCode == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "listing submissions requires an assignment code")
	}
	return s.Collections(ctx, courseCode, assignmentCode, claims)
}

// CollectOne downloads one submitted artifact. The path must belong to a
// submitted action on the course; released or fetched locations are refused,
// which keeps students' fetch history from being replayable through here.
func (s *CollectionService) CollectOne(ctx context.Context, courseCode, path string, claims *models.ExchangeClaims) (*ArtifactDownload, error) {
	if courseCode == "" || path == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "collecting a submission requires a course code and a path")
	}
	if !claims.SubscribedTo(courseCode) {
		return nil, appErrors.Clone(appErrors.ErrNotSubscribed, fmt.Sprintf("user not subscribed to course %s", courseCode))
	}
	if !claims.InstructorOn(courseCode) {
		return nil, appErrors.Clone(appErrors.ErrNotInstructor, fmt.Sprintf("user not an instructor to course %s", courseCode))
	}

	collector, err := s.identity.Ensure(ctx, claims)
	if err != nil {
		return nil, err
	}
	course, err := s.findCourse(ctx, claims.OrgID, courseCode)
	if err != nil {
		return nil, err
	}

	submitted, err := s.actions.FindSubmittedByLocation(ctx, course.ID, path)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no submission found at the requested path")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve submission")
	}

	start := time.Now()
	data, err := s.artifacts.Read(path)
	s.metrics.ObserveArtifactOp("read", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to read submission artifact")
	}

	if _, err := s.actions.Record(ctx, &models.Action{
		UserID:       collector.ID,
		AssignmentID: submitted.AssignmentID,
		Kind:         models.ActionCollected,
		Location:     &path,
	}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record collection")
	}

	s.metrics.RecordAction(models.ActionCollected)
	_ = s.cache.Invalidate(ctx, listingPattern(claims.OrgID, courseCode))
	return &ArtifactDownload{Location: path, Data: data}, nil
}

func (s *CollectionService) submittedItems(ctx context.Context, courseCode string, claims *models.ExchangeClaims) ([]dto.AssignmentListItem, error) {
	if courseCode == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "listing collections requires a course code")
	}
	if !claims.SubscribedTo(courseCode) {
		return nil, appErrors.Clone(appErrors.ErrNotSubscribed, fmt.Sprintf("user not subscribed to course %s", courseCode))
	}
	if !claims.InstructorOn(courseCode) {
		return nil, appErrors.Clone(appErrors.ErrNotInstructor, fmt.Sprintf("user not an instructor to course %s", courseCode))
	}

	if _, err := s.identity.Ensure(ctx, claims); err != nil {
		return nil, err
	}
	course, err := s.findCourse(ctx, claims.OrgID, courseCode)
	if err != nil {
		return nil, err
	}

	assignments, err := s.assignments.FindForCourse(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	actions, err := s.actions.ForCourse(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load actions")
	}
	notebooks, err := s.assignments.NotebooksForCourse(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notebooks")
	}

	return resolveCollections(courseCode, assignments, actions, notebooks), nil
}

func (s *CollectionService) findCourse(ctx context.Context, orgID int, code string) (*models.Course, error) {
	course, err := s.courses.FindByCode(ctx, orgID, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("course %s does not exist", code))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

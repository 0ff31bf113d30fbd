package service

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/nbx-exchange-api/internal/dto"
	"github.com/noah-isme/nbx-exchange-api/internal/models"
	appErrors "github.com/noah-isme/nbx-exchange-api/pkg/errors"
)

func listingKey(orgID int, courseCode string, viewerID int64) string {
	return fmt.Sprintf("nbx:listing:%d:%s:%d", orgID, courseCode, viewerID)
}

func listingPattern(orgID int, courseCode string) string {
	return fmt.Sprintf("nbx:listing:%d:%s:*", orgID, courseCode)
}

// ListingService answers "what can this viewer see on this course": every
// action on the course, filtered to released actions plus the viewer's own,
// each resolved to a status and the notebook set of its assignment.
type ListingService struct {
	identity    identityResolver
	courses     courseStore
	assignments assignmentStore
	actions     actionStore
	cache       *CacheService
	logger      *zap.Logger
}

// NewListingService constructs ListingService.
func NewListingService(identity identityResolver, courses courseStore, assignments assignmentStore, actions actionStore, cache *CacheService, logger *zap.Logger) *ListingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingService{
		identity:    identity,
		courses:     courses,
		assignments: assignments,
		actions:     actions,
		cache:       cache,
		logger:      logger,
	}
}

// List returns one entry per visible action on the course, in action-id
// order. Results are cached per viewer; any write on the course invalidates
// the whole course's listing keys.
func (s *ListingService) List(ctx context.Context, courseCode string, claims *models.ExchangeClaims) ([]dto.AssignmentListItem, error) {
	if courseCode == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "listing assignments requires a course code")
	}
	if !claims.SubscribedTo(courseCode) {
		return nil, appErrors.Clone(appErrors.ErrNotSubscribed, fmt.Sprintf("user not subscribed to course %s", courseCode))
	}

	viewer, err := s.identity.Ensure(ctx, claims)
	if err != nil {
		return nil, err
	}

	key := listingKey(claims.OrgID, courseCode, viewer.ID)
	if s.cache.Enabled() {
		var cached []dto.AssignmentListItem
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	course, err := s.courses.FindByCode(ctx, claims.OrgID, courseCode)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("course %s does not exist", courseCode))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
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

	items := resolveListing(viewer.ID, courseCode, assignments, actions, notebooks)

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, key, items, 0); err != nil {
			s.logger.Warn("failed to cache listing", zap.String("key", key), zap.Error(err))
		}
	}
	return items, nil
}

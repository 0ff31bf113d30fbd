package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/nbx-exchange-api/internal/models"
	"github.com/noah-isme/nbx-exchange-api/internal/repository"
	appErrors "github.com/noah-isme/nbx-exchange-api/pkg/errors"
)

type assignmentStore interface {
	FindByCode(ctx context.Context, courseID int64, code string, active bool) (*models.Assignment, error)
	FindForCourse(ctx context.Context, courseID int64) ([]models.Assignment, error)
	NotebooksForCourse(ctx context.Context, courseID int64) ([]models.Notebook, error)
	CreateRelease(ctx context.Context, rel repository.ReleaseWrite) (*models.Assignment, *models.Action, error)
	Deactivate(ctx context.Context, assignmentID int64) error
}

type actionStore interface {
	Record(ctx context.Context, action *models.Action) (*models.Action, error)
	ForCourse(ctx context.Context, courseID int64) ([]models.Action, error)
	ForAssignment(ctx context.Context, assignmentID int64) ([]models.Action, error)
	FindSubmittedByLocation(ctx context.Context, courseID int64, location string) (*models.Action, error)
}

type artifactStore interface {
	ObjectPath(orgID int, kind, courseCode, assignmentCode, filename string, now time.Time) string
	Save(path string, r io.Reader) (int64, error)
	Read(path string) ([]byte, error)
	Remove(path string) error
}

type identityResolver interface {
	Ensure(ctx context.Context, claims *models.ExchangeClaims) (*models.User, error)
}

// ExchangeRequest identifies a course/assignment pair. Codes arrive
// percent-decoded from the HTTP layer and are used raw from here on.
type ExchangeRequest struct {
	CourseCode     string `validate:"required"`
	AssignmentCode string `validate:"required"`
}

// ArtifactUpload carries an uploaded archive into the service layer.
type ArtifactUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// ArtifactDownload is a resolved artifact ready to stream back.
type ArtifactDownload struct {
	Location string
	Data     []byte
}

// ExchangeService implements the state-changing exchange operations. Each
// one validates, authorizes against the hub-supplied membership, then writes
// exactly one ledger action together with its companion entity writes.
type ExchangeService struct {
	identity    identityResolver
	courses     courseStore
	assignments assignmentStore
	actions     actionStore
	artifacts   artifactStore
	cache       *CacheService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewExchangeService constructs ExchangeService.
func NewExchangeService(identity identityResolver, courses courseStore, assignments assignmentStore, actions actionStore, artifacts artifactStore, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ExchangeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExchangeService{
		identity:    identity,
		courses:     courses,
		assignments: assignments,
		actions:     actions,
		artifacts:   artifacts,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// Release publishes an assignment archive: create or reactivate the
// assignment, replace its notebook set, store the artifact and append the
// released action. The artifact goes to disk first; if the database half
// fails the file is removed again, so neither side outlives the other.
func (s *ExchangeService) Release(ctx context.Context, req ExchangeRequest, notebooks []string, upload ArtifactUpload, claims *models.ExchangeClaims) (*models.Action, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "releasing an assignment requires a course code and an assignment code")
	}
	if !claims.SubscribedTo(req.CourseCode) {
		return nil, appErrors.Clone(appErrors.ErrNotSubscribed, fmt.Sprintf("user not subscribed to course %s", req.CourseCode))
	}
	if !claims.InstructorOn(req.CourseCode) {
		return nil, appErrors.Clone(appErrors.ErrNotInstructor, fmt.Sprintf("user not an instructor to course %s", req.CourseCode))
	}
	if upload.Content == nil {
		return nil, appErrors.ErrMissingUpload
	}

	user, err := s.identity.Ensure(ctx, claims)
	if err != nil {
		return nil, err
	}
	course, err := s.findCourse(ctx, claims.OrgID, req.CourseCode)
	if err != nil {
		return nil, err
	}

	location := s.artifacts.ObjectPath(claims.OrgID, string(models.ActionReleased), req.CourseCode, req.AssignmentCode, upload.Filename, time.Now().UTC())
	start := time.Now()
	size, err := s.artifacts.Save(location, upload.Content)
	s.metrics.ObserveArtifactOp("write", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to store release artifact")
	}

	assignment, action, err := s.assignments.CreateRelease(ctx, repository.ReleaseWrite{
		CourseID:       course.ID,
		AssignmentCode: req.AssignmentCode,
		Notebooks:      notebooks,
		UserID:         user.ID,
		Location:       location,
	})
	if err != nil {
		if removeErr := s.artifacts.Remove(location); removeErr != nil {
			s.logger.Warn("orphaned release artifact left on disk", zap.String("location", location), zap.Error(removeErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record release")
	}

	s.metrics.RecordAction(models.ActionReleased)
	s.invalidateListing(ctx, claims.OrgID, req.CourseCode)
	s.logger.Info("assignment released",
		zap.String("course", req.CourseCode),
		zap.String("assignment", req.AssignmentCode),
		zap.Int64("assignment_id", assignment.ID),
		zap.Int64("size", size),
		zap.String("location", location),
	)
	return action, nil
}

// Fetch resolves the authoritative release of an active assignment, streams
// its bytes and appends a fetched action carrying the served location, so
// every fetch points at the exact release it downloaded.
func (s *ExchangeService) Fetch(ctx context.Context, req ExchangeRequest, claims *models.ExchangeClaims) (*ArtifactDownload, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "fetching an assignment requires a course code and an assignment code")
	}
	if !claims.SubscribedTo(req.CourseCode) {
		return nil, appErrors.Clone(appErrors.ErrNotSubscribed, fmt.Sprintf("user not subscribed to course %s", req.CourseCode))
	}

	user, err := s.identity.Ensure(ctx, claims)
	if err != nil {
		return nil, err
	}
	course, err := s.findCourse(ctx, claims.OrgID, req.CourseCode)
	if err != nil {
		return nil, err
	}

	assignment, err := s.assignments.FindByCode(ctx, course.ID, req.AssignmentCode, true)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("assignment %s does not exist", req.AssignmentCode))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	history, err := s.actions.ForAssignment(ctx, assignment.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment history")
	}
	release := latestRelease(history)
	if release == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no release found for assignment %s", req.AssignmentCode))
	}
	if release.Location == nil || *release.Location == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no release file found for assignment %s", req.AssignmentCode))
	}

	start := time.Now()
	data, err := s.artifacts.Read(*release.Location)
	s.metrics.ObserveArtifactOp("read", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to read release artifact")
	}

	// The fetched action inherits the release's location: provenance, not a
	// placeholder.
	if _, err := s.actions.Record(ctx, &models.Action{
		UserID:       user.ID,
		AssignmentID: assignment.ID,
		Kind:         models.ActionFetched,
		Location:     release.Location,
	}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record fetch")
	}

	s.metrics.RecordAction(models.ActionFetched)
	s.invalidateListing(ctx, claims.OrgID, req.CourseCode)
	return &ArtifactDownload{Location: *release.Location, Data: data}, nil
}

// Submit stores a subscriber's completed work and appends a submitted action.
func (s *ExchangeService) Submit(ctx context.Context, req ExchangeRequest, upload ArtifactUpload, claims *models.ExchangeClaims) (*models.Action, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "submitting requires a course code and an assignment code")
	}
	if !claims.SubscribedTo(req.CourseCode) {
		return nil, appErrors.Clone(appErrors.ErrNotSubscribed, fmt.Sprintf("user not subscribed to course %s", req.CourseCode))
	}
	if upload.Content == nil {
		return nil, appErrors.ErrMissingUpload
	}

	user, err := s.identity.Ensure(ctx, claims)
	if err != nil {
		return nil, err
	}
	course, err := s.findCourse(ctx, claims.OrgID, req.CourseCode)
	if err != nil {
		return nil, err
	}

	assignment, err := s.assignments.FindByCode(ctx, course.ID, req.AssignmentCode, true)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("assignment %s does not exist", req.AssignmentCode))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	location := s.artifacts.ObjectPath(claims.OrgID, string(models.ActionSubmitted), req.CourseCode, req.AssignmentCode, upload.Filename, time.Now().UTC())
	start := time.Now()
	size, err := s.artifacts.Save(location, upload.Content)
	s.metrics.ObserveArtifactOp("write", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to store submission artifact")
	}

	action, err := s.actions.Record(ctx, &models.Action{
		UserID:       user.ID,
		AssignmentID: assignment.ID,
		Kind:         models.ActionSubmitted,
		Location:     &location,
	})
	if err != nil {
		if removeErr := s.artifacts.Remove(location); removeErr != nil {
			s.logger.Warn("orphaned submission artifact left on disk", zap.String("location", location), zap.Error(removeErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record submission")
	}

	s.metrics.RecordAction(models.ActionSubmitted)
	s.invalidateListing(ctx, claims.OrgID, req.CourseCode)
	s.logger.Info("submission received",
		zap.String("course", req.CourseCode),
		zap.String("assignment", req.AssignmentCode),
		zap.Int64("user_id", user.ID),
		zap.Int64("size", size),
	)
	return action, nil
}

// Unrelease soft-deletes an assignment: active=false and notebooks removed
// in one transaction. The ledger is retained in full, so the assignment's
// history stays queryable and the code can be reused for a fresh chain.
func (s *ExchangeService) Unrelease(ctx context.Context, req ExchangeRequest, claims *models.ExchangeClaims) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "unreleasing an assignment requires a course code and an assignment code")
	}
	if !claims.SubscribedTo(req.CourseCode) {
		return appErrors.Clone(appErrors.ErrNotSubscribed, fmt.Sprintf("user not subscribed to course %s", req.CourseCode))
	}
	if !claims.InstructorOn(req.CourseCode) {
		return appErrors.Clone(appErrors.ErrNotInstructor, fmt.Sprintf("user not an instructor to course %s", req.CourseCode))
	}

	if _, err := s.identity.Ensure(ctx, claims); err != nil {
		return err
	}
	course, err := s.findCourse(ctx, claims.OrgID, req.CourseCode)
	if err != nil {
		return err
	}

	assignment, err := s.assignments.FindByCode(ctx, course.ID, req.AssignmentCode, true)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("assignment %s does not exist", req.AssignmentCode))
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	if err := s.assignments.Deactivate(ctx, assignment.ID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("assignment %s does not exist", req.AssignmentCode))
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unrelease assignment")
	}

	s.invalidateListing(ctx, claims.OrgID, req.CourseCode)
	s.logger.Info("assignment unreleased",
		zap.String("course", req.CourseCode),
		zap.String("assignment", req.AssignmentCode),
	)
	return nil
}

func (s *ExchangeService) findCourse(ctx context.Context, orgID int, code string) (*models.Course, error) {
	course, err := s.courses.FindByCode(ctx, orgID, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("course %s does not exist", code))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

func (s *ExchangeService) invalidateListing(ctx context.Context, orgID int, courseCode string) {
	_ = s.cache.Invalidate(ctx, listingPattern(orgID, courseCode))
}

package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/nbx-exchange-api/internal/dto"
	"github.com/noah-isme/nbx-exchange-api/internal/models"
	appErrors "github.com/noah-isme/nbx-exchange-api/pkg/errors"
)

type userStore interface {
	FindOrCreate(ctx context.Context, orgID int, name string) (*models.User, error)
}

type courseStore interface {
	FindByCode(ctx context.Context, orgID int, code string) (*models.Course, error)
	FindOrCreate(ctx context.Context, orgID int, code string, title *string) (*models.Course, error)
}

type subscriptionStore interface {
	FindOrCreate(ctx context.Context, userID, courseID int64, role string) (*models.Subscription, error)
	ListForUser(ctx context.Context, userID int64) ([]models.SubscriptionDetail, error)
}

// IdentityService mirrors hub-validated identity into the entity store:
// user, current course and subscription rows are created lazily on first
// authenticated contact and never removed. The upserts are per-request and
// idempotent, guarded by the store's unique indexes rather than any shared
// in-process cache.
type IdentityService struct {
	users   userStore
	courses courseStore
	subs    subscriptionStore
	logger  *zap.Logger
}

// NewIdentityService constructs IdentityService.
func NewIdentityService(users userStore, courses courseStore, subs subscriptionStore, logger *zap.Logger) *IdentityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityService{users: users, courses: courses, subs: subs, logger: logger}
}

// Ensure materialises the caller's identity rows and returns the user. Every
// authenticated request runs through here, so a new user, course or
// subscription appears in the store the moment the hub first vouches for it.
func (s *IdentityService) Ensure(ctx context.Context, claims *models.ExchangeClaims) (*models.User, error) {
	if claims == nil || strings.TrimSpace(claims.Name) == "" || claims.OrgID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "identity requires a user name and an org id")
	}

	user, err := s.users.FindOrCreate(ctx, claims.OrgID, claims.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve user")
	}

	if claims.CurrentCourse == "" || claims.CurrentRole == "" {
		return user, nil
	}

	var title *string
	if claims.CourseTitle != "" {
		title = &claims.CourseTitle
	}
	course, err := s.courses.FindOrCreate(ctx, claims.OrgID, claims.CurrentCourse, title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve course")
	}

	if _, err := s.subs.FindOrCreate(ctx, user.ID, course.ID, claims.CurrentRole); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve subscription")
	}

	return user, nil
}

// Bootstrap answers the /user endpoint: the caller's identity plus every
// course/role membership the store knows about.
func (s *IdentityService) Bootstrap(ctx context.Context, claims *models.ExchangeClaims) (*dto.UserModel, error) {
	user, err := s.Ensure(ctx, claims)
	if err != nil {
		return nil, err
	}

	subs, err := s.subs.ListForUser(ctx, user.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subscriptions")
	}

	courses := make(map[string]map[string]int, len(subs))
	for _, sub := range subs {
		if courses[sub.CourseCode] == nil {
			courses[sub.CourseCode] = make(map[string]int)
		}
		courses[sub.CourseCode][sub.Role] = 1
	}

	return &dto.UserModel{
		Name:          user.Name,
		OrgID:         user.OrgID,
		CurrentCourse: claims.CurrentCourse,
		CurrentRole:   claims.CurrentRole,
		Courses:       courses,
	}, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"aulapronta/internal/cache"
	"aulapronta/internal/errors"
	"aulapronta/internal/model"
	"aulapronta/internal/policy"
	"aulapronta/internal/repository"
)

// EnrollResult reports the outcome of an enrollment request.
type EnrollResult struct {
	NewCount    int
	Enrollments []model.Enrollment
	Message     string
}

// EnrollmentService manages the per-activity enrollment roster.
type EnrollmentService interface {
	Enroll(ctx context.Context, activityID uuid.UUID, emails []string, actor policy.Actor) (*EnrollResult, error)
	ListEnrollments(ctx context.Context, activityID uuid.UUID, actor policy.Actor) ([]model.Enrollment, error)
	DeleteEnrollment(ctx context.Context, activityID, enrollmentID uuid.UUID, actor policy.Actor) error
}

type enrollmentService struct {
	activityRepo repository.ActivityRepository
	cache        *cache.Client
}

// NewEnrollmentService creates a new enrollment service.
func NewEnrollmentService(activityRepo repository.ActivityRepository, cache *cache.Client) EnrollmentService {
	return &enrollmentService{activityRepo: activityRepo, cache: cache}
}

// Enroll adds student emails to an activity, skipping those already
// enrolled. The insert is a single atomic conditional write, so two
// concurrent calls for the same email produce exactly one enrollment.
func (s *enrollmentService) Enroll(ctx context.Context, activityID uuid.UUID, emails []string, actor policy.Actor) (*EnrollResult, error) {
	activity, err := s.activityRepo.FindByID(ctx, activityID)
	if err != nil {
		return nil, notFoundOr(err, errors.NotFound("activity not found"))
	}
	if err := policy.CanEnroll(actor, activity); err != nil {
		return nil, err
	}
	if activity.Finalized {
		return nil, errors.Forbidden("enrollments of a finalized activity cannot be modified")
	}

	if len(emails) == 0 {
		return nil, errors.Validation("at least one student email is required")
	}
	for _, email := range emails {
		if !model.ValidEmail(model.NormalizeEmail(email)) {
			return nil, errors.Validation("invalid email: %s", email)
		}
	}

	// Dedupe within the request before hitting the unique index.
	seen := make(map[string]bool, len(emails))
	now := time.Now()
	var enrollments []model.Enrollment
	for _, email := range emails {
		normalized := model.NormalizeEmail(email)
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		enrollments = append(enrollments, model.Enrollment{
			StudentEmail: normalized,
			EnrolledAt:   now,
		})
	}

	inserted, err := s.activityRepo.AddEnrollments(ctx, activityID, enrollments)
	if err != nil {
		return nil, fmt.Errorf("add enrollments: %w", err)
	}
	_ = s.cache.Delete(ctx, activityCacheKey(activityID))

	updated, err := s.activityRepo.FindByID(ctx, activityID)
	if err != nil {
		return nil, notFoundOr(err, errors.NotFound("activity not found"))
	}

	result := &EnrollResult{
		NewCount:    inserted,
		Enrollments: updated.Enrollments,
	}
	if inserted == 0 {
		result.Message = "all supplied emails are already enrolled in this activity"
	} else {
		result.Message = fmt.Sprintf("%d student(s) enrolled successfully", inserted)
	}
	return result, nil
}

// ListEnrollments returns the full roster, owner-teacher only.
func (s *enrollmentService) ListEnrollments(ctx context.Context, activityID uuid.UUID, actor policy.Actor) ([]model.Enrollment, error) {
	activity, err := s.activityRepo.FindByID(ctx, activityID)
	if err != nil {
		return nil, notFoundOr(err, errors.NotFound("activity not found"))
	}
	if err := policy.CanListEnrollments(actor, activity); err != nil {
		return nil, err
	}
	return activity.Enrollments, nil
}

// DeleteEnrollment removes one enrollment by id, owner-teacher only.
func (s *enrollmentService) DeleteEnrollment(ctx context.Context, activityID, enrollmentID uuid.UUID, actor policy.Actor) error {
	activity, err := s.activityRepo.FindByID(ctx, activityID)
	if err != nil {
		return notFoundOr(err, errors.NotFound("activity not found"))
	}
	if err := policy.CanEnroll(actor, activity); err != nil {
		return err
	}
	if activity.Finalized {
		return errors.Forbidden("enrollments of a finalized activity cannot be modified")
	}

	if err := s.activityRepo.DeleteEnrollment(ctx, activityID, enrollmentID); err != nil {
		return notFoundOr(err, errors.NotFound("enrollment not found"))
	}
	_ = s.cache.Delete(ctx, activityCacheKey(activityID))
	return nil
}

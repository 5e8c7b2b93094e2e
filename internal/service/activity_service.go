package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aulapronta/internal/cache"
	"aulapronta/internal/errors"
	"aulapronta/internal/model"
	"aulapronta/internal/policy"
	"aulapronta/internal/repository"
)

const activityCacheTTL = 5 * time.Minute

func activityCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("atividade:%s", id)
}

// notFoundOr translates gorm's missing-record error to a domain
// not-found, passing anything else through unchanged.
func notFoundOr(err error, notFound *errors.Error) error {
	if err == gorm.ErrRecordNotFound {
		return notFound
	}
	return err
}

// ActivityPatch carries the updatable fields of an activity. Nil
// pointers mean "leave unchanged". The owner can never be patched.
type ActivityPatch struct {
	Title       *string
	Description *string
	Subject     *string
	GradeLevel  *string
	Objective   *string
	Status      *model.ActivityStatus
	IsPublic    *bool
	DueDate     *time.Time
	Finalized   *bool
	Questions   []model.Question
	Materials   []model.SupportMaterial
}

// ActivityService orchestrates activity CRUD behind the authorization
// policy.
type ActivityService interface {
	Create(ctx context.Context, activity *model.Activity, actor policy.Actor) (*model.Activity, error)
	Get(ctx context.Context, id uuid.UUID, actor policy.Actor) (*model.Activity, error)
	Update(ctx context.Context, id uuid.UUID, patch ActivityPatch, actor policy.Actor) (*model.Activity, error)
	Delete(ctx context.Context, id uuid.UUID, actor policy.Actor) error
	Duplicate(ctx context.Context, id uuid.UUID, actor policy.Actor) (*model.Activity, error)
	List(ctx context.Context, actor policy.Actor, filter repository.Filter) ([]model.Activity, error)
}

type activityService struct {
	activityRepo repository.ActivityRepository
	cache        *cache.Client
}

// NewActivityService creates a new activity service.
func NewActivityService(activityRepo repository.ActivityRepository, cache *cache.Client) ActivityService {
	return &activityService{activityRepo: activityRepo, cache: cache}
}

// Create builds a new activity owned by the acting teacher. New
// activities default to draft and private.
func (s *activityService) Create(ctx context.Context, activity *model.Activity, actor policy.Actor) (*model.Activity, error) {
	if actor.ID == uuid.Nil {
		return nil, errors.Unauthenticated("teacher is not identified")
	}
	if actor.Role != model.RoleTeacher {
		return nil, errors.Forbidden("only teachers can create activities")
	}

	activity.OwnerID = actor.ID
	if activity.Status == "" {
		activity.Status = model.StatusDraft
	}
	for i := range activity.Questions {
		activity.Questions[i].Position = i
	}
	for i := range activity.Materials {
		activity.Materials[i].Position = i
	}

	if err := activity.Validate(); err != nil {
		return nil, err
	}

	if err := s.activityRepo.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}
	return activity, nil
}

// load fetches an activity through the read-through cache.
func (s *activityService) load(ctx context.Context, id uuid.UUID) (*model.Activity, error) {
	if data, _ := s.cache.Get(ctx, activityCacheKey(id)); data != nil {
		var cached model.Activity
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	activity, err := s.activityRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, errors.NotFound("activity not found"))
	}

	if payload, err := json.Marshal(activity); err == nil {
		_ = s.cache.Set(ctx, activityCacheKey(id), payload, activityCacheTTL)
	}
	return activity, nil
}

func (s *activityService) invalidate(ctx context.Context, id uuid.UUID) {
	_ = s.cache.Delete(ctx, activityCacheKey(id))
}

// Get returns one activity after a policy read check.
func (s *activityService) Get(ctx context.Context, id uuid.UUID, actor policy.Actor) (*model.Activity, error) {
	activity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanRead(actor, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// Update merges the patch into the activity after a policy write check.
// Status changes go through the guarded Publish/Unpublish transitions;
// visibility changes through the unguarded MakePublic/MakePrivate.
func (s *activityService) Update(ctx context.Context, id uuid.UUID, patch ActivityPatch, actor policy.Actor) (*model.Activity, error) {
	activity, err := s.activityRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, errors.NotFound("activity not found"))
	}
	if err := policy.CanWrite(actor, activity); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		activity.Title = *patch.Title
	}
	if patch.Description != nil {
		activity.Description = *patch.Description
	}
	if patch.Subject != nil {
		activity.Subject = *patch.Subject
	}
	if patch.GradeLevel != nil {
		activity.GradeLevel = *patch.GradeLevel
	}
	if patch.Objective != nil {
		activity.Objective = *patch.Objective
	}
	if patch.DueDate != nil {
		activity.DueDate = patch.DueDate
	}
	if patch.Status != nil && *patch.Status != activity.Status {
		switch *patch.Status {
		case model.StatusPublished:
			if err := activity.Publish(); err != nil {
				return nil, err
			}
		case model.StatusDraft:
			if err := activity.Unpublish(); err != nil {
				return nil, err
			}
		default:
			return nil, errors.Validation(`status must be "draft" or "published"`)
		}
	}
	if patch.IsPublic != nil {
		if *patch.IsPublic {
			activity.MakePublic()
		} else {
			activity.MakePrivate()
		}
	}
	if patch.Finalized != nil {
		if !*patch.Finalized && activity.Finalized {
			return nil, errors.InvalidState("a finalized activity cannot be reopened")
		}
		activity.Finalized = *patch.Finalized
	}
	if patch.Questions != nil {
		activity.Questions = patch.Questions
	}
	if patch.Materials != nil {
		activity.Materials = patch.Materials
	}

	if err := activity.Validate(); err != nil {
		return nil, err
	}

	if err := s.activityRepo.Update(ctx, activity); err != nil {
		return nil, fmt.Errorf("update activity: %w", err)
	}
	if patch.Questions != nil {
		if err := s.activityRepo.ReplaceQuestions(ctx, activity.ID, patch.Questions); err != nil {
			return nil, fmt.Errorf("replace questions: %w", err)
		}
	}
	if patch.Materials != nil {
		if err := s.activityRepo.ReplaceMaterials(ctx, activity.ID, patch.Materials); err != nil {
			return nil, fmt.Errorf("replace materials: %w", err)
		}
	}
	s.invalidate(ctx, id)

	updated, err := s.activityRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, errors.NotFound("activity not found"))
	}
	return updated, nil
}

// Delete removes an activity after a policy write check.
func (s *activityService) Delete(ctx context.Context, id uuid.UUID, actor policy.Actor) error {
	activity, err := s.activityRepo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, errors.NotFound("activity not found"))
	}
	if err := policy.CanWrite(actor, activity); err != nil {
		return err
	}
	if err := s.activityRepo.Delete(ctx, id); err != nil {
		return notFoundOr(err, errors.NotFound("activity not found"))
	}
	s.invalidate(ctx, id)
	return nil
}

// Duplicate copies an activity into a new private draft owned by the
// acting teacher.
func (s *activityService) Duplicate(ctx context.Context, id uuid.UUID, actor policy.Actor) (*model.Activity, error) {
	activity, err := s.activityRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, errors.NotFound("activity not found"))
	}
	if err := policy.CanDuplicate(actor, activity); err != nil {
		return nil, err
	}
	copied, err := s.activityRepo.Duplicate(ctx, id, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("duplicate activity: %w", err)
	}
	return copied, nil
}

// List returns the activities visible to the actor. Teachers see their
// own plus others' public ones; students see the activities they are
// enrolled in, filterable by subject and grade level only.
func (s *activityService) List(ctx context.Context, actor policy.Actor, filter repository.Filter) ([]model.Activity, error) {
	if actor.ID == uuid.Nil {
		return nil, errors.Unauthenticated("user is not authenticated")
	}
	switch actor.Role {
	case model.RoleTeacher:
		return s.activityRepo.ListAll(ctx, actor.ID, filter)
	case model.RoleStudent:
		studentFilter := repository.Filter{Subject: filter.Subject, GradeLevel: filter.GradeLevel}
		return s.activityRepo.ListByEnrolledEmail(ctx, actor.Email, studentFilter)
	default:
		return nil, errors.Forbidden("invalid actor type")
	}
}

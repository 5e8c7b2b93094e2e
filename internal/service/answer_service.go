package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"aulapronta/internal/cache"
	"aulapronta/internal/errors"
	"aulapronta/internal/model"
	"aulapronta/internal/policy"
	"aulapronta/internal/repository"
)

// AnswerInput is one answer to one question.
type AnswerInput struct {
	QuestionID uuid.UUID
	AnswerText string
}

// AnswerList is the result of listing an activity's answers.
type AnswerList struct {
	Finalized  bool              `json:"finalized"`
	AnswerSets []model.AnswerSet `json:"answer_sets"`
	Total      int               `json:"total"`
}

// AnswerService manages the per-submitter answer sets of an activity.
type AnswerService interface {
	Submit(ctx context.Context, activityID uuid.UUID, items []AnswerInput, submitted bool, actor policy.Actor) (*model.Activity, error)
	ListAnswers(ctx context.Context, activityID uuid.UUID, actor policy.Actor) (*AnswerList, error)
	DeleteAnswerSet(ctx context.Context, activityID, setID uuid.UUID, actor policy.Actor) error
}

type answerService struct {
	activityRepo repository.ActivityRepository
	cache        *cache.Client
}

// NewAnswerService creates a new answer service.
func NewAnswerService(activityRepo repository.ActivityRepository, cache *cache.Client) AnswerService {
	return &answerService{activityRepo: activityRepo, cache: cache}
}

// Submit stores the actor's complete answer state for an activity. An
// existing set for the same submitter is replaced wholesale, never
// merged; the replace runs inside one storage transaction keyed by
// (activity, submitter).
func (s *answerService) Submit(ctx context.Context, activityID uuid.UUID, items []AnswerInput, submitted bool, actor policy.Actor) (*model.Activity, error) {
	activity, err := s.activityRepo.FindByID(ctx, activityID)
	if err != nil {
		return nil, notFoundOr(err, errors.NotFound("activity not found"))
	}
	if err := policy.CanAnswer(actor, activity); err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, errors.Validation("at least one answer is required")
	}
	for _, item := range items {
		if item.QuestionID == uuid.Nil {
			return nil, errors.Validation("every answer must have a question id")
		}
		if strings.TrimSpace(item.AnswerText) == "" {
			return nil, errors.Validation("every answer must have a value")
		}
		if activity.QuestionByID(item.QuestionID) == nil {
			return nil, errors.NotFound("question with id %s not found in this activity", item.QuestionID)
		}
	}

	set := &model.AnswerSet{
		ActivityID:  activityID,
		SubmitterID: actor.ID,
		Submitted:   submitted,
	}
	for _, item := range items {
		set.Items = append(set.Items, model.AnswerItem{
			QuestionID: item.QuestionID,
			AnswerText: item.AnswerText,
		})
	}

	if err := s.activityRepo.ReplaceAnswerSet(ctx, set); err != nil {
		return nil, fmt.Errorf("save answers: %w", err)
	}
	_ = s.cache.Delete(ctx, activityCacheKey(activityID))

	updated, err := s.activityRepo.FindByID(ctx, activityID)
	if err != nil {
		return nil, notFoundOr(err, errors.NotFound("activity not found"))
	}
	return updated, nil
}

// ListAnswers returns the activity's answer sets. The owner-teacher
// sees every set; a student sees only their own, or an empty list.
func (s *answerService) ListAnswers(ctx context.Context, activityID uuid.UUID, actor policy.Actor) (*AnswerList, error) {
	activity, err := s.activityRepo.FindByID(ctx, activityID)
	if err != nil {
		return nil, notFoundOr(err, errors.NotFound("activity not found"))
	}
	if err := policy.CanListAnswers(actor, activity); err != nil {
		return nil, err
	}

	sets := activity.AnswerSets
	if actor.Role == model.RoleStudent {
		sets = nil
		if own := activity.AnswerSetBySubmitter(actor.ID); own != nil {
			sets = []model.AnswerSet{*own}
		}
	}
	if sets == nil {
		sets = []model.AnswerSet{}
	}

	return &AnswerList{
		Finalized:  activity.Finalized,
		AnswerSets: sets,
		Total:      len(sets),
	}, nil
}

// DeleteAnswerSet removes one answer set. Students may delete only
// their own; the owner-teacher may delete any set in their activity.
func (s *answerService) DeleteAnswerSet(ctx context.Context, activityID, setID uuid.UUID, actor policy.Actor) error {
	activity, err := s.activityRepo.FindByID(ctx, activityID)
	if err != nil {
		return notFoundOr(err, errors.NotFound("activity not found"))
	}

	var target *model.AnswerSet
	for i := range activity.AnswerSets {
		if activity.AnswerSets[i].ID == setID {
			target = &activity.AnswerSets[i]
			break
		}
	}
	if target == nil {
		return errors.NotFound("answer set not found")
	}

	if err := policy.CanDeleteAnswerSet(actor, activity, target); err != nil {
		return err
	}

	if err := s.activityRepo.DeleteAnswerSet(ctx, activityID, setID); err != nil {
		return notFoundOr(err, errors.NotFound("answer set not found"))
	}
	_ = s.cache.Delete(ctx, activityCacheKey(activityID))
	return nil
}

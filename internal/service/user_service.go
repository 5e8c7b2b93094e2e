package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"aulapronta/internal/errors"
	"aulapronta/internal/model"
	"aulapronta/internal/policy"
	"aulapronta/internal/repository"
)

// UserPatch carries the updatable user fields. Role and password never
// change through this path.
type UserPatch struct {
	Name  *string
	Email *string
}

// UserService exposes user management operations.
type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListTeachers(ctx context.Context) ([]model.User, error)
	ListStudents(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id uuid.UUID, patch UserPatch, actor policy.Actor) (*model.User, error)
	Delete(ctx context.Context, id uuid.UUID, actor policy.Actor) error
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService builds a UserService.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, errors.NotFound("user not found"))
	}
	return user, nil
}

func (s *userService) ListTeachers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.FindByRole(ctx, model.RoleTeacher)
}

func (s *userService) ListStudents(ctx context.Context) ([]model.User, error) {
	return s.userRepo.FindByRole(ctx, model.RoleStudent)
}

// canManage allows users to act on themselves, and teachers on anyone.
func canManage(actor policy.Actor, targetID uuid.UUID) error {
	if actor.ID == uuid.Nil {
		return errors.Unauthenticated("user is not authenticated")
	}
	if actor.ID != targetID && actor.Role != model.RoleTeacher {
		return errors.Forbidden("you do not have permission to manage this user")
	}
	return nil
}

// Update changes name and email only.
func (s *userService) Update(ctx context.Context, id uuid.UUID, patch UserPatch, actor policy.Actor) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, errors.NotFound("user not found"))
	}
	if err := canManage(actor, id); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		email := model.NormalizeEmail(*patch.Email)
		if email != user.Email {
			exists, err := s.userRepo.EmailExists(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("check email existence: %w", err)
			}
			if exists {
				return nil, errors.Conflict("email is already in use")
			}
			user.Email = email
		}
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Delete removes a user account.
func (s *userService) Delete(ctx context.Context, id uuid.UUID, actor policy.Actor) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return notFoundOr(err, errors.NotFound("user not found"))
	}
	if err := canManage(actor, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return notFoundOr(err, errors.NotFound("user not found"))
	}
	return nil
}

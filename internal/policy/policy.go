// Package policy holds the pure authorization rules governing activity
// access. Decision functions take the acting user and the loaded
// activity and return nil when the action is allowed, or a domain
// error saying why not. No I/O happens here.
package policy

import (
	"github.com/google/uuid"

	"aulapronta/internal/errors"
	"aulapronta/internal/model"
)

// Actor is the resolved identity behind a request.
type Actor struct {
	ID    uuid.UUID
	Email string
	Role  model.Role
}

// requireActor fails when no actor was resolved.
func requireActor(actor Actor) error {
	if actor.ID == uuid.Nil {
		return errors.Unauthenticated("user is not authenticated")
	}
	return nil
}

// CanRead decides read access to a single activity. Teachers read their
// own activities and any public one; students read activities they are
// enrolled in, regardless of visibility or status.
func CanRead(actor Actor, activity *model.Activity) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	switch actor.Role {
	case model.RoleTeacher:
		if activity.BelongsToTeacher(actor.ID) || activity.IsPublic {
			return nil
		}
		return errors.Forbidden("you do not have permission to view this activity")
	case model.RoleStudent:
		if activity.EnrolledEmail(actor.Email) {
			return nil
		}
		return errors.Forbidden("you are not enrolled in this activity")
	default:
		return errors.Forbidden("invalid actor type")
	}
}

// CanWrite decides update/delete access: owner-teacher only.
func CanWrite(actor Actor, activity *model.Activity) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if actor.Role != model.RoleTeacher {
		return errors.Forbidden("only teachers can modify activities")
	}
	if !activity.BelongsToTeacher(actor.ID) {
		return errors.Forbidden("you do not have permission to modify this activity")
	}
	return nil
}

// CanDuplicate allows a teacher to copy a public activity or one of
// their own.
func CanDuplicate(actor Actor, activity *model.Activity) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if actor.Role != model.RoleTeacher {
		return errors.Forbidden("only teachers can duplicate activities")
	}
	if !activity.IsPublic && !activity.BelongsToTeacher(actor.ID) {
		return errors.Forbidden("you do not have permission to duplicate this activity")
	}
	return nil
}

// CanEnroll decides who may add or remove enrollments: owner-teacher only.
func CanEnroll(actor Actor, activity *model.Activity) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if actor.Role != model.RoleTeacher {
		return errors.Forbidden("only teachers can enroll students in activities")
	}
	if !activity.BelongsToTeacher(actor.ID) {
		return errors.Forbidden("you do not have permission to enroll students in this activity")
	}
	return nil
}

// CanListEnrollments restricts the roster to the owner-teacher.
// Students are always denied.
func CanListEnrollments(actor Actor, activity *model.Activity) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	switch actor.Role {
	case model.RoleTeacher:
		if !activity.BelongsToTeacher(actor.ID) {
			return errors.Forbidden("you do not have permission to view enrollments of this activity")
		}
		return nil
	case model.RoleStudent:
		return errors.Forbidden("students cannot view the enrollment list")
	default:
		return errors.Forbidden("invalid actor type")
	}
}

// CanAnswer decides who may submit answers. The finalized lock applies
// to everyone. Students must be enrolled and the activity published;
// teachers must own the activity.
func CanAnswer(actor Actor, activity *model.Activity) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if activity.Finalized {
		return errors.Forbidden("answers of a finalized activity cannot be modified")
	}
	switch actor.Role {
	case model.RoleStudent:
		if !activity.EnrolledEmail(actor.Email) {
			return errors.Forbidden("you are not enrolled in this activity")
		}
		if activity.Status != model.StatusPublished {
			return errors.Forbidden("this activity is not open for answers")
		}
		return nil
	case model.RoleTeacher:
		if !activity.BelongsToTeacher(actor.ID) {
			return errors.Forbidden("you do not have permission to answer this activity")
		}
		return nil
	default:
		return errors.Forbidden("invalid actor type")
	}
}

// CanListAnswers decides who may read answer sets. The owner-teacher
// sees all sets; an enrolled student sees only their own (filtering
// happens in the use case).
func CanListAnswers(actor Actor, activity *model.Activity) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	switch actor.Role {
	case model.RoleTeacher:
		if !activity.BelongsToTeacher(actor.ID) {
			return errors.Forbidden("you do not have permission to view answers of this activity")
		}
		return nil
	case model.RoleStudent:
		if !activity.EnrolledEmail(actor.Email) {
			return errors.Forbidden("you are not enrolled in this activity")
		}
		return nil
	default:
		return errors.Forbidden("invalid actor type")
	}
}

// CanDeleteAnswerSet decides answer deletion. The finalized lock
// applies to everyone. A student may delete only their own set; the
// owner-teacher may delete any set in their activity.
func CanDeleteAnswerSet(actor Actor, activity *model.Activity, set *model.AnswerSet) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if activity.Finalized {
		return errors.Forbidden("answers of a finalized activity cannot be deleted")
	}
	switch actor.Role {
	case model.RoleStudent:
		if set.SubmitterID != actor.ID {
			return errors.Forbidden("you can only delete your own answers")
		}
		return nil
	case model.RoleTeacher:
		if !activity.BelongsToTeacher(actor.ID) {
			return errors.Forbidden("you do not have permission to delete answers of this activity")
		}
		return nil
	default:
		return errors.Forbidden("invalid actor type")
	}
}

package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"aulapronta/internal/errors"
	"aulapronta/internal/model"
)

var (
	ownerID   = uuid.New()
	otherID   = uuid.New()
	studentID = uuid.New()
)

func teacherActor(id uuid.UUID) Actor {
	return Actor{ID: id, Email: "prof@escola.example", Role: model.RoleTeacher}
}

func studentActor(email string) Actor {
	return Actor{ID: studentID, Email: email, Role: model.RoleStudent}
}

func buildActivity(mutate func(*model.Activity)) *model.Activity {
	activity := &model.Activity{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Status:  model.StatusPublished,
		Enrollments: []model.Enrollment{
			{StudentEmail: "ana@aluno.example"},
		},
	}
	if mutate != nil {
		mutate(activity)
	}
	return activity
}

func TestCanRead(t *testing.T) {
	tests := []struct {
		name     string
		actor    Actor
		mutate   func(*model.Activity)
		wantKind errors.Kind
		allowed  bool
	}{
		{
			name:    "owner teacher reads own private activity",
			actor:   teacherActor(ownerID),
			allowed: true,
		},
		{
			name:  "other teacher reads public activity",
			actor: teacherActor(otherID),
			mutate: func(a *model.Activity) {
				a.IsPublic = true
			},
			allowed: true,
		},
		{
			name:     "other teacher denied on private activity",
			actor:    teacherActor(otherID),
			wantKind: errors.KindForbidden,
		},
		{
			name:    "enrolled student reads regardless of visibility",
			actor:   studentActor("ana@aluno.example"),
			allowed: true,
		},
		{
			name:  "unenrolled student denied even on public activity",
			actor: studentActor("bruno@aluno.example"),
			mutate: func(a *model.Activity) {
				a.IsPublic = true
			},
			wantKind: errors.KindForbidden,
		},
		{
			name:     "missing actor",
			actor:    Actor{},
			wantKind: errors.KindUnauthenticated,
		},
		{
			name:     "unknown role",
			actor:    Actor{ID: uuid.New(), Role: "admin"},
			wantKind: errors.KindForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanRead(tt.actor, buildActivity(tt.mutate))
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.IsKind(err, tt.wantKind))
			}
		})
	}
}

func TestCanWrite(t *testing.T) {
	activity := buildActivity(nil)

	assert.NoError(t, CanWrite(teacherActor(ownerID), activity))
	assert.True(t, errors.IsKind(CanWrite(teacherActor(otherID), activity), errors.KindForbidden))
	assert.True(t, errors.IsKind(CanWrite(studentActor("ana@aluno.example"), activity), errors.KindForbidden))
	assert.True(t, errors.IsKind(CanWrite(Actor{}, activity), errors.KindUnauthenticated))
}

func TestCanDuplicate(t *testing.T) {
	private := buildActivity(nil)
	public := buildActivity(func(a *model.Activity) { a.IsPublic = true })

	// The owner can always duplicate; other teachers only public ones.
	assert.NoError(t, CanDuplicate(teacherActor(ownerID), private))
	assert.NoError(t, CanDuplicate(teacherActor(otherID), public))
	assert.True(t, errors.IsKind(CanDuplicate(teacherActor(otherID), private), errors.KindForbidden))
	assert.True(t, errors.IsKind(CanDuplicate(studentActor("ana@aluno.example"), public), errors.KindForbidden))
}

func TestCanEnroll(t *testing.T) {
	activity := buildActivity(nil)

	assert.NoError(t, CanEnroll(teacherActor(ownerID), activity))
	assert.True(t, errors.IsKind(CanEnroll(teacherActor(otherID), activity), errors.KindForbidden))
	assert.True(t, errors.IsKind(CanEnroll(studentActor("ana@aluno.example"), activity), errors.KindForbidden))
}

func TestCanListEnrollments(t *testing.T) {
	activity := buildActivity(nil)

	assert.NoError(t, CanListEnrollments(teacherActor(ownerID), activity))
	assert.True(t, errors.IsKind(CanListEnrollments(teacherActor(otherID), activity), errors.KindForbidden))
	// Even enrolled students never see the roster.
	assert.True(t, errors.IsKind(CanListEnrollments(studentActor("ana@aluno.example"), activity), errors.KindForbidden))
}

func TestCanAnswer(t *testing.T) {
	tests := []struct {
		name     string
		actor    Actor
		mutate   func(*model.Activity)
		wantKind errors.Kind
		allowed  bool
	}{
		{
			name:    "enrolled student answers published activity",
			actor:   studentActor("ana@aluno.example"),
			allowed: true,
		},
		{
			name:     "unenrolled student denied",
			actor:    studentActor("bruno@aluno.example"),
			wantKind: errors.KindForbidden,
		},
		{
			name:  "enrolled student denied on draft",
			actor: studentActor("ana@aluno.example"),
			mutate: func(a *model.Activity) {
				a.Status = model.StatusDraft
			},
			wantKind: errors.KindForbidden,
		},
		{
			name:    "owner teacher answers own activity",
			actor:   teacherActor(ownerID),
			allowed: true,
		},
		{
			name:     "other teacher denied",
			actor:    teacherActor(otherID),
			wantKind: errors.KindForbidden,
		},
		{
			name:  "finalized lock applies to everyone",
			actor: teacherActor(ownerID),
			mutate: func(a *model.Activity) {
				a.Finalized = true
			},
			wantKind: errors.KindForbidden,
		},
		{
			name:  "finalized lock applies to students too",
			actor: studentActor("ana@aluno.example"),
			mutate: func(a *model.Activity) {
				a.Finalized = true
			},
			wantKind: errors.KindForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanAnswer(tt.actor, buildActivity(tt.mutate))
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.IsKind(err, tt.wantKind))
			}
		})
	}
}

func TestCanListAnswers(t *testing.T) {
	activity := buildActivity(nil)

	assert.NoError(t, CanListAnswers(teacherActor(ownerID), activity))
	assert.NoError(t, CanListAnswers(studentActor("ana@aluno.example"), activity))
	assert.True(t, errors.IsKind(CanListAnswers(teacherActor(otherID), activity), errors.KindForbidden))
	assert.True(t, errors.IsKind(CanListAnswers(studentActor("bruno@aluno.example"), activity), errors.KindForbidden))
}

func TestCanDeleteAnswerSet(t *testing.T) {
	ownSet := &model.AnswerSet{ID: uuid.New(), SubmitterID: studentID}
	otherSet := &model.AnswerSet{ID: uuid.New(), SubmitterID: uuid.New()}
	activity := buildActivity(nil)

	assert.NoError(t, CanDeleteAnswerSet(studentActor("ana@aluno.example"), activity, ownSet))
	assert.True(t, errors.IsKind(CanDeleteAnswerSet(studentActor("ana@aluno.example"), activity, otherSet), errors.KindForbidden))

	assert.NoError(t, CanDeleteAnswerSet(teacherActor(ownerID), activity, otherSet))
	assert.True(t, errors.IsKind(CanDeleteAnswerSet(teacherActor(otherID), activity, otherSet), errors.KindForbidden))

	finalized := buildActivity(func(a *model.Activity) { a.Finalized = true })
	assert.True(t, errors.IsKind(CanDeleteAnswerSet(teacherActor(ownerID), finalized, otherSet), errors.KindForbidden))
}

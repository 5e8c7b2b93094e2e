package model

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"aulapronta/internal/errors"
)

func validActivity() *Activity {
	return &Activity{
		ID:          uuid.New(),
		Title:       "Frações",
		Description: "Exercícios sobre frações",
		Subject:     "Matemática",
		GradeLevel:  "6º ano",
		Status:      StatusDraft,
		OwnerID:     uuid.New(),
	}
}

func TestActivity_Publish(t *testing.T) {
	activity := validActivity()

	err := activity.Publish()
	assert.NoError(t, err)
	assert.Equal(t, StatusPublished, activity.Status)

	// Publishing twice is an invalid transition.
	err = activity.Publish()
	assert.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindInvalidState))
	assert.Equal(t, StatusPublished, activity.Status)
}

func TestActivity_Unpublish(t *testing.T) {
	activity := validActivity()

	err := activity.Unpublish()
	assert.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindInvalidState))

	assert.NoError(t, activity.Publish())
	assert.NoError(t, activity.Unpublish())
	assert.Equal(t, StatusDraft, activity.Status)
}

func TestActivity_VisibilityIsUnguarded(t *testing.T) {
	activity := validActivity()

	// MakePublic and MakePrivate never fail, even when repeated.
	activity.MakePublic()
	assert.True(t, activity.IsPublic)
	activity.MakePublic()
	assert.True(t, activity.IsPublic)

	activity.MakePrivate()
	assert.False(t, activity.IsPublic)
	activity.MakePrivate()
	assert.False(t, activity.IsPublic)
}

func TestActivity_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Activity)
		wantErrs []string
	}{
		{
			name:   "valid activity",
			mutate: func(a *Activity) {},
		},
		{
			name:     "missing title",
			mutate:   func(a *Activity) { a.Title = "  " },
			wantErrs: []string{"title is required"},
		},
		{
			name: "multiple problems collected",
			mutate: func(a *Activity) {
				a.Title = ""
				a.Description = ""
				a.Subject = ""
			},
			wantErrs: []string{"title is required", "description is required", "subject is required"},
		},
		{
			name:     "missing owner",
			mutate:   func(a *Activity) { a.OwnerID = uuid.Nil },
			wantErrs: []string{"owner is required"},
		},
		{
			name:     "invalid status",
			mutate:   func(a *Activity) { a.Status = "archived" },
			wantErrs: []string{`status must be "draft" or "published"`},
		},
		{
			name: "question without prompt",
			mutate: func(a *Activity) {
				a.Questions = []Question{{Kind: QuestionEssay, Prompt: "ok"}, {Kind: QuestionEssay}}
			},
			wantErrs: []string{"content[1]: prompt is required"},
		},
		{
			name: "multiple choice without choices",
			mutate: func(a *Activity) {
				a.Questions = []Question{{Kind: QuestionMultipleChoice, Prompt: "Escolha"}}
			},
			wantErrs: []string{"content[0]: multiple choice questions must have at least one choice"},
		},
		{
			name: "question with invalid kind",
			mutate: func(a *Activity) {
				a.Questions = []Question{{Kind: "true_false", Prompt: "Certo?"}}
			},
			wantErrs: []string{`content[0]: kind must be "multiple_choice" or "essay"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activity := validActivity()
			tt.mutate(activity)

			err := activity.Validate()
			if len(tt.wantErrs) == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.KindValidation))
			for _, want := range tt.wantErrs {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestActivity_AddSupportMaterial(t *testing.T) {
	activity := validActivity()

	err := activity.AddSupportMaterial(SupportMaterial{Kind: MaterialLink, Content: "https://example.com"})
	assert.NoError(t, err)
	err = activity.AddSupportMaterial(SupportMaterial{Kind: MaterialText, Content: "Leia o capítulo 3"})
	assert.NoError(t, err)

	assert.Len(t, activity.Materials, 2)
	assert.Equal(t, 0, activity.Materials[0].Position)
	assert.Equal(t, 1, activity.Materials[1].Position)

	err = activity.AddSupportMaterial(SupportMaterial{Kind: MaterialText, Content: "   "})
	assert.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindValidation))
	assert.Len(t, activity.Materials, 2)
}

func TestActivity_EnrolledEmail(t *testing.T) {
	activity := validActivity()
	activity.Enrollments = []Enrollment{
		{StudentEmail: "ana.souza@aluno.example", EnrolledAt: time.Now()},
	}

	assert.True(t, activity.EnrolledEmail("ana.souza@aluno.example"))
	// Lookup normalizes case and whitespace.
	assert.True(t, activity.EnrolledEmail("  ANA.SOUZA@Aluno.Example "))
	assert.False(t, activity.EnrolledEmail("outro@aluno.example"))
}

func TestActivity_QuestionByID(t *testing.T) {
	activity := validActivity()
	q1 := Question{ID: uuid.New(), Kind: QuestionEssay, Prompt: "Explique"}
	activity.Questions = []Question{q1}

	found := activity.QuestionByID(q1.ID)
	assert.NotNil(t, found)
	assert.Equal(t, q1.ID, found.ID)

	assert.Nil(t, activity.QuestionByID(uuid.New()))
}

func TestActivity_AnswerSetBySubmitter(t *testing.T) {
	activity := validActivity()
	submitter := uuid.New()
	activity.AnswerSets = []AnswerSet{
		{ID: uuid.New(), SubmitterID: submitter},
		{ID: uuid.New(), SubmitterID: uuid.New()},
	}

	found := activity.AnswerSetBySubmitter(submitter)
	assert.NotNil(t, found)
	assert.Equal(t, submitter, found.SubmitterID)

	assert.Nil(t, activity.AnswerSetBySubmitter(uuid.New()))
}

func TestActivity_ValidateJoinsProblems(t *testing.T) {
	activity := &Activity{}
	err := activity.Validate()
	assert.Error(t, err)
	// All problems come back in one message, with no printf artifacts.
	assert.True(t, strings.Count(err.Error(), ";") >= 4)
	assert.NotContains(t, err.Error(), "%!")
}

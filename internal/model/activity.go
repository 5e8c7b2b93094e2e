package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aulapronta/internal/errors"
)

// Activity is the aggregate root: a teacher-authored pedagogical
// assignment with questions, support materials, enrollments and answers.
type Activity struct {
	ID          uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string         `json:"title" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"type:text;not null"`
	Subject     string         `json:"subject" gorm:"size:255;not null;index"`
	GradeLevel  string         `json:"grade_level" gorm:"size:255;not null;index"`
	Objective   string         `json:"objective,omitempty" gorm:"type:text"`
	Status      ActivityStatus `json:"status" gorm:"size:50;not null;default:'draft';index"`
	OwnerID     uuid.UUID      `json:"owner_id" gorm:"type:char(36);not null;index"`
	IsPublic    bool           `json:"is_public" gorm:"default:false;index"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	Finalized   bool           `json:"finalized" gorm:"default:false"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	// Relations
	Materials   []SupportMaterial `json:"support_materials" gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE"`
	Questions   []Question        `json:"content" gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE"`
	Enrollments []Enrollment      `json:"enrollments" gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE"`
	AnswerSets  []AnswerSet       `json:"answer_sets" gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Publish moves the activity from draft to published.
func (a *Activity) Publish() error {
	if a.Status == StatusPublished {
		return errors.InvalidState("activity is already published")
	}
	a.Status = StatusPublished
	a.UpdatedAt = time.Now()
	return nil
}

// Unpublish moves the activity back to draft.
func (a *Activity) Unpublish() error {
	if a.Status == StatusDraft {
		return errors.InvalidState("activity is already a draft")
	}
	a.Status = StatusDraft
	a.UpdatedAt = time.Now()
	return nil
}

// MakePublic marks the activity as public. Unlike Publish, this is
// unguarded and always succeeds.
func (a *Activity) MakePublic() {
	a.IsPublic = true
	a.UpdatedAt = time.Now()
}

// MakePrivate marks the activity as private. Unguarded, same as MakePublic.
func (a *Activity) MakePrivate() {
	a.IsPublic = false
	a.UpdatedAt = time.Now()
}

// BelongsToTeacher reports whether the activity is owned by the teacher.
func (a *Activity) BelongsToTeacher(teacherID uuid.UUID) bool {
	return a.OwnerID == teacherID
}

// AddSupportMaterial appends a material after checking kind and content.
func (a *Activity) AddSupportMaterial(m SupportMaterial) error {
	if !m.Kind.IsValid() || strings.TrimSpace(m.Content) == "" {
		return errors.Validation("support material must have a kind and content")
	}
	m.Position = len(a.Materials)
	a.Materials = append(a.Materials, m)
	a.UpdatedAt = time.Now()
	return nil
}

// Validate checks the activity's required fields, status and every
// question, collecting all violations into a single error.
func (a *Activity) Validate() error {
	var problems []string
	if strings.TrimSpace(a.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(a.Description) == "" {
		problems = append(problems, "description is required")
	}
	if strings.TrimSpace(a.Subject) == "" {
		problems = append(problems, "subject is required")
	}
	if strings.TrimSpace(a.GradeLevel) == "" {
		problems = append(problems, "grade level is required")
	}
	if a.OwnerID == uuid.Nil {
		problems = append(problems, "owner is required")
	}
	if !a.Status.IsValid() {
		problems = append(problems, `status must be "draft" or "published"`)
	}
	for i, q := range a.Questions {
		if strings.TrimSpace(q.Prompt) == "" {
			problems = append(problems, fmt.Sprintf("content[%d]: prompt is required", i))
		}
		if !q.Kind.IsValid() {
			problems = append(problems, fmt.Sprintf(`content[%d]: kind must be "multiple_choice" or "essay"`, i))
		}
		if q.Kind == QuestionMultipleChoice && len(q.Choices) == 0 {
			problems = append(problems, fmt.Sprintf("content[%d]: multiple choice questions must have at least one choice", i))
		}
	}
	if len(problems) > 0 {
		return errors.Validation("%s", strings.Join(problems, "; "))
	}
	return nil
}

// QuestionByID finds a question by id, or nil.
func (a *Activity) QuestionByID(id uuid.UUID) *Question {
	for i := range a.Questions {
		if a.Questions[i].ID == id {
			return &a.Questions[i]
		}
	}
	return nil
}

// AnswerSetBySubmitter finds the submitter's answer set, or nil.
func (a *Activity) AnswerSetBySubmitter(submitterID uuid.UUID) *AnswerSet {
	for i := range a.AnswerSets {
		if a.AnswerSets[i].SubmitterID == submitterID {
			return &a.AnswerSets[i]
		}
	}
	return nil
}

// EnrolledEmail reports whether the normalized email is enrolled.
func (a *Activity) EnrolledEmail(email string) bool {
	email = NormalizeEmail(email)
	for i := range a.Enrollments {
		if a.Enrollments[i].StudentEmail == email {
			return true
		}
	}
	return false
}

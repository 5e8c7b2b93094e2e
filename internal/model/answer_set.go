package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnswerSet is one submitter's complete current answer state for an
// activity. At most one set exists per (activity, submitter), enforced
// by the composite unique index; replacing it is a full overwrite.
type AnswerSet struct {
	ID          uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	ActivityID  uuid.UUID    `json:"-" gorm:"type:char(36);not null;uniqueIndex:idx_answer_set_submitter"`
	SubmitterID uuid.UUID    `json:"submitter_id" gorm:"type:char(36);not null;uniqueIndex:idx_answer_set_submitter"`
	Submitted   bool         `json:"submitted" gorm:"default:false"`
	Items       []AnswerItem `json:"items" gorm:"foreignKey:AnswerSetID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (s *AnswerSet) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// AnswerItem is one answer to one question within an answer set.
type AnswerItem struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	AnswerSetID uuid.UUID `json:"-" gorm:"type:char(36);not null;index"`
	QuestionID  uuid.UUID `json:"question_id" gorm:"type:char(36);not null"`
	AnswerText  string    `json:"answer_text" gorm:"type:text;not null"`
}

// BeforeCreate sets UUID before creating the record.
func (i *AnswerItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Question is one content item of an activity.
type Question struct {
	ID            uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	ActivityID    uuid.UUID    `json:"-" gorm:"type:char(36);not null;index"`
	Prompt        string       `json:"prompt" gorm:"type:text;not null"`
	Kind          QuestionKind `json:"kind" gorm:"size:50;not null"`
	Choices       []string     `json:"choices,omitempty" gorm:"serializer:json"`
	CorrectAnswer *string      `json:"correct_answer,omitempty" gorm:"type:text"`
	Position      int          `json:"position"`
}

// BeforeCreate sets UUID before creating the record.
func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

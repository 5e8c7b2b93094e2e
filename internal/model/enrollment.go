package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enrollment grants one student, identified by email, visibility and
// answer rights on one activity. The composite unique index lets the
// storage layer deduplicate concurrent inserts.
type Enrollment struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	ActivityID   uuid.UUID `json:"-" gorm:"type:char(36);not null;uniqueIndex:idx_enrollment_email"`
	StudentEmail string    `json:"student_email" gorm:"size:255;not null;uniqueIndex:idx_enrollment_email"`
	EnrolledAt   time.Time `json:"enrolled_at"`
}

// BeforeCreate sets UUID before creating the record.
func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

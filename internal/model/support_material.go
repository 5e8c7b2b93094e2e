package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SupportMaterial is a text blob, link or PDF reference attached to an
// activity. Only URLs and text are stored, never file contents.
type SupportMaterial struct {
	ID         uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	ActivityID uuid.UUID    `json:"-" gorm:"type:char(36);not null;index"`
	Kind       MaterialKind `json:"kind" gorm:"size:50;not null"`
	Content    string       `json:"content" gorm:"type:text;not null"`
	Title      string       `json:"title,omitempty" gorm:"size:255"`
	Position   int          `json:"position"`
}

// BeforeCreate sets UUID before creating the record.
func (m *SupportMaterial) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

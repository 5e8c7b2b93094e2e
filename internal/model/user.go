package model

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aulapronta/internal/errors"
)

// MinPasswordLength is the minimum accepted plaintext password length.
const MinPasswordLength = 6

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether the email has a local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// User represents a teacher or student.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role      `json:"role" gorm:"size:50;not null;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsTeacher reports whether the user is a teacher.
func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

// IsStudent reports whether the user is a student.
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// Validate checks name, email and role. The password is validated
// separately before hashing, see ValidatePassword.
func (u *User) Validate() error {
	var problems []string
	if strings.TrimSpace(u.Name) == "" {
		problems = append(problems, "name is required")
	}
	if !ValidEmail(u.Email) {
		problems = append(problems, "email is invalid")
	}
	if !u.Role.IsValid() {
		problems = append(problems, `role must be "teacher" or "student"`)
	}
	if len(problems) > 0 {
		return errors.Validation("%s", strings.Join(problems, "; "))
	}
	return nil
}

// ValidatePassword checks a plaintext password against the minimum length.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return errors.Validation("password must have at least %d characters", MinPasswordLength)
	}
	return nil
}

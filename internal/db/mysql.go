// Package db opens the MySQL connection and manages the activity
// platform schema.
package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"aulapronta/internal/model"
)

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the tables for every domain model. Parent
// tables come first so foreign keys resolve.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Activity{},
		&model.SupportMaterial{},
		&model.Question{},
		&model.Enrollment{},
		&model.AnswerSet{},
		&model.AnswerItem{},
	)
}

// Reset drops every domain table, children before parents.
func Reset(db *gorm.DB) error {
	tables := []interface{}{
		&model.AnswerItem{},
		&model.AnswerSet{},
		&model.Enrollment{},
		&model.Question{},
		&model.SupportMaterial{},
		&model.Activity{},
		&model.User{},
	}
	for _, table := range tables {
		if err := db.Migrator().DropTable(table); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}

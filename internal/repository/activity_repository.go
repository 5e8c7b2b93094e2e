package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"aulapronta/internal/model"
)

// Filter narrows activity listings.
type Filter struct {
	Subject    string
	GradeLevel string
	Status     model.ActivityStatus
	OwnerID    uuid.UUID
}

// ActivityRepository defines activity persistence operations.
//
// Enrollment and answer mutations are pushed down to atomic conditional
// writes (ON CONFLICT on the composite unique indexes, transactional
// replace) instead of read-modify-write in application memory, so
// concurrent requests cannot lose updates.
type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Activity, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter Filter) ([]model.Activity, error)
	ListPublic(ctx context.Context, filter Filter) ([]model.Activity, error)
	ListAll(ctx context.Context, ownerID uuid.UUID, filter Filter) ([]model.Activity, error)
	ListByEnrolledEmail(ctx context.Context, email string, filter Filter) ([]model.Activity, error)
	Update(ctx context.Context, activity *model.Activity) error
	ReplaceQuestions(ctx context.Context, activityID uuid.UUID, questions []model.Question) error
	ReplaceMaterials(ctx context.Context, activityID uuid.UUID, materials []model.SupportMaterial) error
	Delete(ctx context.Context, id uuid.UUID) error
	Duplicate(ctx context.Context, id, newOwnerID uuid.UUID) (*model.Activity, error)
	AddEnrollments(ctx context.Context, activityID uuid.UUID, enrollments []model.Enrollment) (int, error)
	DeleteEnrollment(ctx context.Context, activityID, enrollmentID uuid.UUID) error
	ReplaceAnswerSet(ctx context.Context, set *model.AnswerSet) error
	DeleteAnswerSet(ctx context.Context, activityID, setID uuid.UUID) error
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// Create creates a new activity with its questions and materials.
func (r *activityRepository) Create(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// FindByID loads an activity with all sub-records.
func (r *activityRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Activity, error) {
	var activity model.Activity
	err := r.db.WithContext(ctx).
		Preload("Materials", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Enrollments").
		Preload("AnswerSets.Items").
		Where("id = ?", id).First(&activity).Error
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

func applyFilter(db *gorm.DB, filter Filter) *gorm.DB {
	if filter.Subject != "" {
		db = db.Where("activities.subject = ?", filter.Subject)
	}
	if filter.GradeLevel != "" {
		db = db.Where("activities.grade_level = ?", filter.GradeLevel)
	}
	if filter.Status != "" {
		db = db.Where("activities.status = ?", filter.Status)
	}
	if filter.OwnerID != uuid.Nil {
		db = db.Where("activities.owner_id = ?", filter.OwnerID)
	}
	return db
}

func (r *activityRepository) list(ctx context.Context, filter Filter, conds func(*gorm.DB) *gorm.DB) ([]model.Activity, error) {
	var activities []model.Activity
	db := applyFilter(r.db.WithContext(ctx).Model(&model.Activity{}), filter)
	db = conds(db)
	err := db.
		Preload("Materials", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order("activities.created_at DESC").
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}

// ListByOwner lists a teacher's own activities, any status or visibility.
func (r *activityRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter Filter) ([]model.Activity, error) {
	return r.list(ctx, filter, func(db *gorm.DB) *gorm.DB {
		return db.Where("activities.owner_id = ?", ownerID)
	})
}

// ListPublic lists public, published activities.
func (r *activityRepository) ListPublic(ctx context.Context, filter Filter) ([]model.Activity, error) {
	return r.list(ctx, filter, func(db *gorm.DB) *gorm.DB {
		return db.Where("activities.is_public = ? AND activities.status = ?", true, model.StatusPublished)
	})
}

// ListAll lists the owner's activities plus everyone else's public ones.
func (r *activityRepository) ListAll(ctx context.Context, ownerID uuid.UUID, filter Filter) ([]model.Activity, error) {
	return r.list(ctx, filter, func(db *gorm.DB) *gorm.DB {
		return db.Where("activities.owner_id = ? OR activities.is_public = ?", ownerID, true)
	})
}

// ListByEnrolledEmail lists activities the email is enrolled in,
// regardless of visibility or status.
func (r *activityRepository) ListByEnrolledEmail(ctx context.Context, email string, filter Filter) ([]model.Activity, error) {
	return r.list(ctx, filter, func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN enrollments ON enrollments.activity_id = activities.id").
			Where("enrollments.student_email = ?", model.NormalizeEmail(email))
	})
}

// Update saves the activity's own columns, leaving sub-records alone.
func (r *activityRepository) Update(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(activity).Error
}

// ReplaceQuestions swaps the activity's question list wholesale.
func (r *activityRepository) ReplaceQuestions(ctx context.Context, activityID uuid.UUID, questions []model.Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_id = ?", activityID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		for i := range questions {
			questions[i].ActivityID = activityID
			questions[i].Position = i
		}
		return tx.Create(&questions).Error
	})
}

// ReplaceMaterials swaps the activity's support materials wholesale.
func (r *activityRepository) ReplaceMaterials(ctx context.Context, activityID uuid.UUID, materials []model.SupportMaterial) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_id = ?", activityID).Delete(&model.SupportMaterial{}).Error; err != nil {
			return err
		}
		if len(materials) == 0 {
			return nil
		}
		for i := range materials {
			materials[i].ActivityID = activityID
			materials[i].Position = i
		}
		return tx.Create(&materials).Error
	})
}

// Delete removes an activity; sub-records cascade.
func (r *activityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Activity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Duplicate copies an activity's metadata, materials and questions into
// a new private draft owned by newOwnerID. Enrollments and answers are
// not copied.
func (r *activityRepository) Duplicate(ctx context.Context, id, newOwnerID uuid.UUID) (*model.Activity, error) {
	original, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	copied := &model.Activity{
		Title:       original.Title + " (copy)",
		Description: original.Description,
		Subject:     original.Subject,
		GradeLevel:  original.GradeLevel,
		Objective:   original.Objective,
		Status:      model.StatusDraft,
		OwnerID:     newOwnerID,
		IsPublic:    false,
	}
	for _, m := range original.Materials {
		copied.Materials = append(copied.Materials, model.SupportMaterial{
			Kind:     m.Kind,
			Content:  m.Content,
			Title:    m.Title,
			Position: m.Position,
		})
	}
	for _, q := range original.Questions {
		copied.Questions = append(copied.Questions, model.Question{
			Prompt:        q.Prompt,
			Kind:          q.Kind,
			Choices:       q.Choices,
			CorrectAnswer: q.CorrectAnswer,
			Position:      q.Position,
		})
	}

	if err := r.db.WithContext(ctx).Create(copied).Error; err != nil {
		return nil, err
	}
	return copied, nil
}

// AddEnrollments inserts enrollments atomically, skipping emails already
// enrolled, and returns how many rows were actually inserted.
func (r *activityRepository) AddEnrollments(ctx context.Context, activityID uuid.UUID, enrollments []model.Enrollment) (int, error) {
	if len(enrollments) == 0 {
		return 0, nil
	}
	for i := range enrollments {
		enrollments[i].ActivityID = activityID
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&enrollments)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

// DeleteEnrollment removes one enrollment by id.
func (r *activityRepository) DeleteEnrollment(ctx context.Context, activityID, enrollmentID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND activity_id = ?", enrollmentID, activityID).
		Delete(&model.Enrollment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceAnswerSet replaces the submitter's answer set wholesale inside
// one transaction, keyed by (activity_id, submitter_id).
func (r *activityRepository) ReplaceAnswerSet(ctx context.Context, set *model.AnswerSet) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.AnswerSet
		err := tx.Where("activity_id = ? AND submitter_id = ?", set.ActivityID, set.SubmitterID).
			First(&existing).Error
		if err == nil {
			if err := tx.Where("answer_set_id = ?", existing.ID).Delete(&model.AnswerItem{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		} else if err != gorm.ErrRecordNotFound {
			return err
		}
		return tx.Create(set).Error
	})
}

// DeleteAnswerSet removes one answer set by id.
func (r *activityRepository) DeleteAnswerSet(ctx context.Context, activityID, setID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND activity_id = ?", setID, activityID).Delete(&model.AnswerSet{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("answer_set_id = ?", setID).Delete(&model.AnswerItem{}).Error
	})
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"uniguide/backend/internal/model"
	pkgerrors "uniguide/backend/pkg/errors"
)

// StudentRepository student profile access.
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id string) (*model.Student, error)
	GetByEmail(ctx context.Context, email string) (*model.Student, error)
	// Update writes every profile column, guarded by the version column.
	Update(ctx context.Context, student *model.Student) error
	// UpdateStage sets current_stage if the row is still at version.
	UpdateStage(ctx context.Context, id string, stage, version int) error
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo creates a StudentRepository.
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	var s model.Student
	if err := r.db.WithContext(ctx).Where("student_id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studentRepo) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	var s model.Student
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studentRepo) Update(ctx context.Context, student *model.Student) error {
	oldVersion := student.Version
	student.Version = oldVersion + 1

	result := r.db.WithContext(ctx).
		Model(student).
		Where("student_id = ? AND version = ?", student.StudentID, oldVersion).
		Select("*").
		Omit("student_id", "email", "password_hash", "created_at").
		Updates(student)
	if result.Error != nil {
		student.Version = oldVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		student.Version = oldVersion
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *studentRepo) UpdateStage(ctx context.Context, id string, stage, version int) error {
	result := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("student_id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"current_stage": stage,
			"version":       version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

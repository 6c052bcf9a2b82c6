package repository

import (
	"context"

	"gorm.io/gorm"

	"uniguide/backend/internal/model"
)

// TaskFilter optional list filters.
type TaskFilter struct {
	UniversityID *string
	Completed    *bool
}

// TaskRepository tasks access.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	CreateBatch(ctx context.Context, tasks []model.Task) error
	GetByID(ctx context.Context, studentID, taskID string) (*model.Task, error)
	// ListByStudent orders by priority (high first), then newest first.
	ListByStudent(ctx context.Context, studentID string, f TaskFilter) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, studentID, taskID string) (int64, error)
	DeleteByUniversity(ctx context.Context, studentID, universityID string) (int64, error)
	CountByStudentAndUniversity(ctx context.Context, studentID, universityID string) (int64, error)
}

type taskRepo struct {
	db *gorm.DB
}

// NewTaskRepo creates a TaskRepository.
func NewTaskRepo(db *gorm.DB) TaskRepository {
	return &taskRepo{db: db}
}

func (r *taskRepo) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepo) CreateBatch(ctx context.Context, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&tasks).Error
}

func (r *taskRepo) GetByID(ctx context.Context, studentID, taskID string) (*model.Task, error) {
	var t model.Task
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND student_id = ?", taskID, studentID).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskRepo) ListByStudent(ctx context.Context, studentID string, f TaskFilter) ([]model.Task, error) {
	db := r.db.WithContext(ctx).Where("student_id = ?", studentID)
	if f.UniversityID != nil {
		db = db.Where("university_id = ?", *f.UniversityID)
	}
	if f.Completed != nil {
		db = db.Where("completed = ?", *f.Completed)
	}

	var tasks []model.Task
	err := db.
		Order("CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END").
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepo) Update(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *taskRepo) Delete(ctx context.Context, studentID, taskID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("task_id = ? AND student_id = ?", taskID, studentID).
		Delete(&model.Task{})
	return result.RowsAffected, result.Error
}

func (r *taskRepo) DeleteByUniversity(ctx context.Context, studentID, universityID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("student_id = ? AND university_id = ?", studentID, universityID).
		Delete(&model.Task{})
	return result.RowsAffected, result.Error
}

func (r *taskRepo) CountByStudentAndUniversity(ctx context.Context, studentID, universityID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("student_id = ? AND university_id = ?", studentID, universityID).
		Count(&n).Error
	return n, err
}

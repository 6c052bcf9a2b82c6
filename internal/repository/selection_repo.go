package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"uniguide/backend/internal/model"
	pkgerrors "uniguide/backend/pkg/errors"
)

// ShortlistRepository shortlisted_universities access.
// Create relies on the (student_id, university_id) unique index and
// reports a skipped insert as pkgerrors.ErrDuplicate.
type ShortlistRepository interface {
	Create(ctx context.Context, entry *model.ShortlistEntry) error
	Get(ctx context.Context, studentID, universityID string) (*model.ShortlistEntry, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.ShortlistEntry, error)
	UpdateCategory(ctx context.Context, studentID, universityID string, category model.Category) error
	Delete(ctx context.Context, studentID, universityID string) (int64, error)
	CountByStudent(ctx context.Context, studentID string) (int64, error)
}

// LockedRepository locked_universities access, same conflict semantics.
type LockedRepository interface {
	Create(ctx context.Context, entry *model.LockedEntry) error
	Get(ctx context.Context, studentID, universityID string) (*model.LockedEntry, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.LockedEntry, error)
	Delete(ctx context.Context, studentID, universityID string) (int64, error)
	CountByStudent(ctx context.Context, studentID string) (int64, error)
}

// ── shortlist ──

type shortlistRepo struct {
	db *gorm.DB
}

// NewShortlistRepo creates a ShortlistRepository.
func NewShortlistRepo(db *gorm.DB) ShortlistRepository {
	return &shortlistRepo{db: db}
}

func (r *shortlistRepo) Create(ctx context.Context, entry *model.ShortlistEntry) error {
	return insertOnce(r.db.WithContext(ctx), entry)
}

func (r *shortlistRepo) Get(ctx context.Context, studentID, universityID string) (*model.ShortlistEntry, error) {
	var e model.ShortlistEntry
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND university_id = ?", studentID, universityID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *shortlistRepo) ListByStudent(ctx context.Context, studentID string) ([]model.ShortlistEntry, error) {
	var entries []model.ShortlistEntry
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("added_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *shortlistRepo) UpdateCategory(ctx context.Context, studentID, universityID string, category model.Category) error {
	result := r.db.WithContext(ctx).
		Model(&model.ShortlistEntry{}).
		Where("student_id = ? AND university_id = ?", studentID, universityID).
		Update("category", category)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *shortlistRepo) Delete(ctx context.Context, studentID, universityID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("student_id = ? AND university_id = ?", studentID, universityID).
		Delete(&model.ShortlistEntry{})
	return result.RowsAffected, result.Error
}

func (r *shortlistRepo) CountByStudent(ctx context.Context, studentID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ShortlistEntry{}).Where("student_id = ?", studentID).Count(&n).Error
	return n, err
}

// ── locked ──

type lockedRepo struct {
	db *gorm.DB
}

// NewLockedRepo creates a LockedRepository.
func NewLockedRepo(db *gorm.DB) LockedRepository {
	return &lockedRepo{db: db}
}

func (r *lockedRepo) Create(ctx context.Context, entry *model.LockedEntry) error {
	return insertOnce(r.db.WithContext(ctx), entry)
}

func (r *lockedRepo) Get(ctx context.Context, studentID, universityID string) (*model.LockedEntry, error) {
	var e model.LockedEntry
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND university_id = ?", studentID, universityID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *lockedRepo) ListByStudent(ctx context.Context, studentID string) ([]model.LockedEntry, error) {
	var entries []model.LockedEntry
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("locked_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *lockedRepo) Delete(ctx context.Context, studentID, universityID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("student_id = ? AND university_id = ?", studentID, universityID).
		Delete(&model.LockedEntry{})
	return result.RowsAffected, result.Error
}

func (r *lockedRepo) CountByStudent(ctx context.Context, studentID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.LockedEntry{}).Where("student_id = ?", studentID).Count(&n).Error
	return n, err
}

// insertOnce inserts with ON CONFLICT DO NOTHING so a concurrent duplicate
// neither errors nor aborts the surrounding transaction.
func insertOnce(db *gorm.DB, value interface{}) error {
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrDuplicate
	}
	return nil
}

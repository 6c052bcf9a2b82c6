package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"uniguide/backend/internal/model"
)

// UniversityQuery filters applied in SQL. Program-level filters (degree,
// field) run in the service because programs are a JSON column.
type UniversityQuery struct {
	Countries  []string
	MaxTuition *float64
}

// UniversityRepository stored catalog access.
type UniversityRepository interface {
	GetByID(ctx context.Context, id string) (*model.University, error)
	List(ctx context.Context, q UniversityQuery) ([]model.University, error)
	SearchByName(ctx context.Context, query string, limit int) ([]model.University, error)
	// Upsert inserts or replaces records by university_id.
	Upsert(ctx context.Context, unis []model.University) (int64, error)
	// InsertMissing inserts only records whose id is not stored yet.
	InsertMissing(ctx context.Context, unis []model.University) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type universityRepo struct {
	db *gorm.DB
}

// NewUniversityRepo creates a UniversityRepository.
func NewUniversityRepo(db *gorm.DB) UniversityRepository {
	return &universityRepo{db: db}
}

func (r *universityRepo) GetByID(ctx context.Context, id string) (*model.University, error) {
	var u model.University
	if err := r.db.WithContext(ctx).Where("university_id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *universityRepo) List(ctx context.Context, q UniversityQuery) ([]model.University, error) {
	db := r.db.WithContext(ctx).Model(&model.University{})
	if len(q.Countries) > 0 {
		lowered := make([]string, len(q.Countries))
		for i, c := range q.Countries {
			lowered[i] = strings.ToLower(c)
		}
		db = db.Where("LOWER(country) IN ?", lowered)
	}
	if q.MaxTuition != nil {
		db = db.Where("tuition_fee <= ?", *q.MaxTuition)
	}

	var unis []model.University
	if err := db.Order("ranking IS NULL, ranking ASC, name ASC").Find(&unis).Error; err != nil {
		return nil, err
	}
	return unis, nil
}

func (r *universityRepo) SearchByName(ctx context.Context, query string, limit int) ([]model.University, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var unis []model.University
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", pattern).
		Order("name ASC").
		Limit(limit).
		Find(&unis).Error
	if err != nil {
		return nil, err
	}
	return unis, nil
}

func (r *universityRepo) Upsert(ctx context.Context, unis []model.University) (int64, error) {
	if len(unis) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "university_id"}},
			UpdateAll: true,
		}).
		CreateInBatches(&unis, 100)
	return result.RowsAffected, result.Error
}

func (r *universityRepo) InsertMissing(ctx context.Context, unis []model.University) (int64, error) {
	if len(unis) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&unis, 100)
	return result.RowsAffected, result.Error
}

func (r *universityRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.University{}).Count(&n).Error
	return n, err
}

package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every data access interface.
type Repository struct {
	db *gorm.DB

	Student    StudentRepository
	University UniversityRepository
	Shortlist  ShortlistRepository
	Locked     LockedRepository
	Task       TaskRepository
}

// NewRepository wires the gorm implementations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		Student:    NewStudentRepo(db),
		University: NewUniversityRepo(db),
		Shortlist:  NewShortlistRepo(db),
		Locked:     NewLockedRepo(db),
		Task:       NewTaskRepo(db),
	}
}

// WithTx returns a Repository bound to an open transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction runs fn inside a database transaction, committing when fn
// returns nil. A Repository built without a db (test doubles) runs fn
// directly on itself.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// Category bucket of a university relative to a profile.
// Safe means high computed fit, dream is a reach.
type Category string

const (
	CategoryDream  Category = "dream"
	CategoryTarget Category = "target"
	CategorySafe   Category = "safe"
)

// Valid reports whether c is one of dream, target, safe.
func (c Category) Valid() bool {
	return c == CategoryDream || c == CategoryTarget || c == CategorySafe
}

// ShortlistEntry a shortlisted university, with display fields copied in so
// listing never depends on the directory being reachable.
type ShortlistEntry struct {
	ID                string    `gorm:"type:uuid;primaryKey"                                              json:"id"`
	StudentID         string    `gorm:"type:uuid;not null;uniqueIndex:idx_shortlist_student_university,priority:1"    json:"student_id"`
	UniversityID      string    `gorm:"type:varchar(512);not null;uniqueIndex:idx_shortlist_student_university,priority:2" json:"university_id"`
	Category          Category  `gorm:"type:varchar(10);not null"                                         json:"category"`
	UniversityName    string    `gorm:"type:varchar(255);not null;default:''"                             json:"university_name"`
	Country           string    `gorm:"type:varchar(100);not null;default:''"                             json:"country"`
	City              string    `gorm:"type:varchar(100);not null;default:''"                             json:"city"`
	TuitionFee        float64   `gorm:"not null;default:0"                                                json:"tuition_fee"`
	LivingCostPerYear float64   `gorm:"not null;default:0"                                                json:"living_cost_per_year"`
	AddedAt           time.Time `gorm:"not null;autoCreateTime"                                           json:"added_at"`
}

// TableName shortlisted_universities
func (ShortlistEntry) TableName() string { return "shortlisted_universities" }

// BeforeCreate assigns the id.
func (e *ShortlistEntry) BeforeCreate(*gorm.DB) error {
	newID(&e.ID)
	return nil
}

// LockedEntry a university the student committed to apply to.
type LockedEntry struct {
	ID             string    `gorm:"type:uuid;primaryKey"                                                json:"id"`
	StudentID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_locked_student_university,priority:1"         json:"student_id"`
	UniversityID   string    `gorm:"type:varchar(512);not null;uniqueIndex:idx_locked_student_university,priority:2"  json:"university_id"`
	UniversityName string    `gorm:"type:varchar(255);not null;default:''"                               json:"university_name"`
	Country        string    `gorm:"type:varchar(100);not null;default:''"                               json:"country"`
	LockedAt       time.Time `gorm:"not null;autoCreateTime"                                             json:"locked_at"`
}

// TableName locked_universities
func (LockedEntry) TableName() string { return "locked_universities" }

// BeforeCreate assigns the id.
func (e *LockedEntry) BeforeCreate(*gorm.DB) error {
	newID(&e.ID)
	return nil
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// Task priorities
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Task categories
const (
	TaskDocument    = "document"
	TaskExam        = "exam"
	TaskApplication = "application"
	TaskGeneral     = "general"
)

// Task application checklist item, table tasks.
// CompletedAt is non-nil exactly when Completed is true.
type Task struct {
	TaskID         string     `gorm:"type:uuid;primaryKey"                               json:"task_id"`
	StudentID      string     `gorm:"type:uuid;not null;index:idx_tasks_student_university,priority:1" json:"student_id"`
	UniversityID   *string    `gorm:"type:varchar(512);index:idx_tasks_student_university,priority:2"  json:"university_id,omitempty"`
	UniversityName *string    `gorm:"type:varchar(255)"                                  json:"university_name,omitempty"`
	Title          string     `gorm:"type:varchar(255);not null"                         json:"title"`
	Description    string     `gorm:"type:text;not null;default:''"                      json:"description"`
	Priority       string     `gorm:"type:varchar(10);not null;default:'medium'"         json:"priority"`
	Category       string     `gorm:"type:varchar(20);not null;default:'general'"        json:"category"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Completed      bool       `gorm:"not null;default:false"                             json:"completed"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	AIGenerated    bool       `gorm:"column:ai_generated;not null;default:false"         json:"ai_generated"`
	BaseModel
}

// TableName tasks
func (Task) TableName() string { return "tasks" }

// BeforeCreate assigns the id and keeps CompletedAt consistent.
func (t *Task) BeforeCreate(*gorm.DB) error {
	newID(&t.TaskID)
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Category == "" {
		t.Category = TaskGeneral
	}
	t.SetCompleted(t.Completed, time.Now())
	return nil
}

// SetCompleted toggles completion, stamping CompletedAt only on the
// transition to done.
func (t *Task) SetCompleted(done bool, now time.Time) {
	t.Completed = done
	switch {
	case !done:
		t.CompletedAt = nil
	case t.CompletedAt == nil:
		t.CompletedAt = &now
	}
}

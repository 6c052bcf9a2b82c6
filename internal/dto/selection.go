package dto

import "uniguide/backend/internal/model"

// Selection statuses.
const (
	StatusOK                 = "ok"
	StatusAlreadyShortlisted = "already_shortlisted"
	StatusAlreadyLocked      = "already_locked"
)

// UniversityMeta display fields copied onto a selection.
type UniversityMeta struct {
	UniversityName    string  `json:"university_name"      binding:"omitempty,max=255"`
	Country           string  `json:"country"              binding:"omitempty,max=100"`
	City              string  `json:"city"                 binding:"omitempty,max=100"`
	TuitionFee        float64 `json:"tuition_fee"          binding:"omitempty,gte=0"`
	LivingCostPerYear float64 `json:"living_cost_per_year" binding:"omitempty,gte=0"`
}

// ShortlistRequest adds a university to the shortlist.
type ShortlistRequest struct {
	UniversityID string `json:"university_id" binding:"required,max=512"`
	Category     string `json:"category"      binding:"required,oneof=dream target safe"`
	UniversityMeta
}

// ShortlistResponse status is ok or already_shortlisted; for the latter
// ExistingCategory tells the caller what is stored.
type ShortlistResponse struct {
	Status           string         `json:"status"`
	Category         model.Category `json:"category"`
	ExistingCategory model.Category `json:"existing_category,omitempty"`
	CurrentStage     int            `json:"current_stage"`
}

// UpdateCategoryRequest moves a shortlisted university to another bucket.
type UpdateCategoryRequest struct {
	Category string `json:"category" binding:"required,oneof=dream target safe"`
}

// LockRequest commits to a university.
type LockRequest struct {
	UniversityID string `json:"university_id" binding:"required,max=512"`
	UniversityMeta
}

// LockResponse status is ok or already_locked.
type LockResponse struct {
	Status       string `json:"status"`
	CurrentStage int    `json:"current_stage"`
	TasksCreated int    `json:"tasks_created"`
}

// UnlockResponse result of releasing a lock.
type UnlockResponse struct {
	Status       string `json:"status"`
	CurrentStage int    `json:"current_stage"`
	TasksDeleted int64  `json:"tasks_deleted"`
}

// SelectionsResponse both collections and the stage.
type SelectionsResponse struct {
	Shortlisted  []model.ShortlistEntry `json:"shortlisted"`
	Locked       []model.LockedEntry    `json:"locked"`
	CurrentStage int                    `json:"current_stage"`
}

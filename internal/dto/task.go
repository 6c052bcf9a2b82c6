package dto

import "time"

// TaskListRequest optional filters.
type TaskListRequest struct {
	UniversityID string `form:"university_id" binding:"omitempty,max=512"`
	Completed    *bool  `form:"completed"`
}

// CreateTaskRequest manual task.
type CreateTaskRequest struct {
	Title          string     `json:"title"           binding:"required,min=1,max=255"`
	Description    string     `json:"description"     binding:"omitempty,max=2000"`
	Priority       string     `json:"priority"        binding:"omitempty,oneof=high medium low"`
	Category       string     `json:"category"        binding:"omitempty,oneof=document exam application general"`
	UniversityID   *string    `json:"university_id"   binding:"omitempty,max=512"`
	UniversityName *string    `json:"university_name" binding:"omitempty,max=255"`
	DueDate        *time.Time `json:"due_date"`
}

// UpdateTaskRequest partial task update.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"       binding:"omitempty,min=1,max=255"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	Priority    *string    `json:"priority"    binding:"omitempty,oneof=high medium low"`
	Category    *string    `json:"category"    binding:"omitempty,oneof=document exam application general"`
	DueDate     *time.Time `json:"due_date"`
	Completed   *bool      `json:"completed"`
}

// GenerateTasksResponse number of checklist tasks created.
type GenerateTasksResponse struct {
	Created int `json:"created"`
}

// DeleteTasksResponse number of tasks removed.
type DeleteTasksResponse struct {
	Deleted int64 `json:"deleted"`
}

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"uniguide/backend/internal/dto"
	"uniguide/backend/internal/service"
	"uniguide/backend/pkg/response"
)

// TaskHandler application checklist endpoints.
type TaskHandler struct {
	taskSvc service.TaskService
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(taskSvc service.TaskService) *TaskHandler {
	return &TaskHandler{taskSvc: taskSvc}
}

// ListTasks GET /api/v1/tasks?university_id=&completed=
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.TaskListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	tasks, err := h.taskSvc.List(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.OK(c, gin.H{"list": tasks})
}

// CreateTask POST /api/v1/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	task, err := h.taskSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.Created(c, task)
}

// UpdateTask PATCH /api/v1/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	task, err := h.taskSvc.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.OK(c, task)
}

// DeleteTask DELETE /api/v1/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.taskSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.OK(c, nil)
}

// DeleteUniversityTasks DELETE /api/v1/tasks/university/:universityId
func (h *TaskHandler) DeleteUniversityTasks(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.taskSvc.DeleteByUniversity(c.Request.Context(), userID, c.Param("universityId"))
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.OK(c, result)
}

// GenerateTasks builds the checklist of a locked university.
// POST /api/v1/tasks/generate/:universityId
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.taskSvc.Generate(c.Request.Context(), userID, c.Param("universityId"))
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *TaskHandler) handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		response.NotFound(c, response.CodeTaskNotFound, "task not found")
	case errors.Is(err, service.ErrUniversityNotLocked):
		response.Conflict(c, response.CodeUniversityNotLocked, "university is not locked")
	default:
		handleCommonError(c, err)
	}
}

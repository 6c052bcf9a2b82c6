package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"uniguide/backend/internal/dto"
	"uniguide/backend/internal/model"
	"uniguide/backend/internal/repository"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrUniversityNotLocked = errors.New("university is not locked")
)

// TaskService application checklist.
type TaskService interface {
	List(ctx context.Context, studentID string, req *dto.TaskListRequest) ([]model.Task, error)
	Create(ctx context.Context, studentID string, req *dto.CreateTaskRequest) (*model.Task, error)
	Update(ctx context.Context, studentID, taskID string, req *dto.UpdateTaskRequest) (*model.Task, error)
	Delete(ctx context.Context, studentID, taskID string) error
	DeleteByUniversity(ctx context.Context, studentID, universityID string) (*dto.DeleteTasksResponse, error)
	// Generate builds the checklist of a locked university; idempotent.
	Generate(ctx context.Context, studentID, universityID string) (*dto.GenerateTasksResponse, error)
}

type taskService struct {
	repo      *repository.Repository
	generator *TaskGenerator
	logger    *zap.Logger
	now       func() time.Time
}

// NewTaskService creates a TaskService.
func NewTaskService(repo *repository.Repository, generator *TaskGenerator, logger *zap.Logger) TaskService {
	return &taskService{repo: repo, generator: generator, logger: logger, now: time.Now}
}

func (s *taskService) List(ctx context.Context, studentID string, req *dto.TaskListRequest) ([]model.Task, error) {
	filter := repository.TaskFilter{Completed: req.Completed}
	if req.UniversityID != "" {
		uid := req.UniversityID
		filter.UniversityID = &uid
	}

	tasks, err := s.repo.Task.ListByStudent(ctx, studentID, filter)
	if err != nil {
		s.logger.Error("list tasks failed", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (s *taskService) Create(ctx context.Context, studentID string, req *dto.CreateTaskRequest) (*model.Task, error) {
	task := &model.Task{
		StudentID:      studentID,
		UniversityID:   req.UniversityID,
		UniversityName: req.UniversityName,
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Priority:       req.Priority,
		Category:       req.Category,
		DueDate:        req.DueDate,
	}
	if err := s.repo.Task.Create(ctx, task); err != nil {
		s.logger.Error("create task failed", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	return task, nil
}

func (s *taskService) Update(ctx context.Context, studentID, taskID string, req *dto.UpdateTaskRequest) (*model.Task, error) {
	task, err := s.repo.Task.GetByID(ctx, studentID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Category != nil {
		task.Category = *req.Category
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Completed != nil {
		task.SetCompleted(*req.Completed, s.now())
	}

	if err := s.repo.Task.Update(ctx, task); err != nil {
		s.logger.Error("update task failed", zap.String("task_id", taskID), zap.Error(err))
		return nil, err
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, studentID, taskID string) error {
	n, err := s.repo.Task.Delete(ctx, studentID, taskID)
	if err != nil {
		s.logger.Error("delete task failed", zap.String("task_id", taskID), zap.Error(err))
		return err
	}
	if n == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *taskService) DeleteByUniversity(ctx context.Context, studentID, universityID string) (*dto.DeleteTasksResponse, error) {
	n, err := s.repo.Task.DeleteByUniversity(ctx, studentID, universityID)
	if err != nil {
		s.logger.Error("delete university tasks failed", zap.String("university_id", universityID), zap.Error(err))
		return nil, err
	}
	return &dto.DeleteTasksResponse{Deleted: n}, nil
}

func (s *taskService) Generate(ctx context.Context, studentID, universityID string) (*dto.GenerateTasksResponse, error) {
	locked, err := s.repo.Locked.Get(ctx, studentID, universityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUniversityNotLocked
		}
		return nil, err
	}

	created, err := s.generator.Generate(ctx, s.repo, studentID, universityID, locked.UniversityName)
	if err != nil {
		s.logger.Error("generate tasks failed", zap.String("university_id", universityID), zap.Error(err))
		return nil, err
	}
	return &dto.GenerateTasksResponse{Created: created}, nil
}

package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"uniguide/backend/internal/model"
	"uniguide/backend/internal/repository"
)

// checklistItem template of one generated task; %s is the university name.
type checklistItem struct {
	title       string
	description string
	priority    string
	category    string
}

var applicationChecklist = []checklistItem{
	{"Research %s admission requirements", "Review program requirements, deadlines and application portal for %s.", model.PriorityMedium, model.TaskGeneral},
	{"Prepare Statement of Purpose for %s", "Draft and refine an SOP tailored to %s.", model.PriorityHigh, model.TaskDocument},
	{"Gather academic transcripts for %s", "Request official transcripts and degree certificates for the %s application.", model.PriorityHigh, model.TaskDocument},
	{"Request letters of recommendation for %s", "Ask two or three referees for letters addressed to %s.", model.PriorityHigh, model.TaskDocument},
	{"Prepare financial documents for %s", "Collect bank statements and sponsorship letters required by %s.", model.PriorityHigh, model.TaskDocument},
	{"Complete %s application form", "Fill in and submit the online application form for %s.", model.PriorityHigh, model.TaskApplication},
}

// TaskGenerator builds the application checklist of a locked university.
type TaskGenerator struct {
	logger *zap.Logger
}

// NewTaskGenerator creates a TaskGenerator.
func NewTaskGenerator(logger *zap.Logger) *TaskGenerator {
	return &TaskGenerator{logger: logger}
}

// Generate creates the checklist unless the student already has tasks for
// the university. It returns the number of tasks created.
func (g *TaskGenerator) Generate(ctx context.Context, repo *repository.Repository, studentID, universityID, universityName string) (int, error) {
	existing, err := repo.Task.CountByStudentAndUniversity(ctx, studentID, universityID)
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	name := universityName
	if name == "" {
		name = "the university"
	}

	tasks := make([]model.Task, 0, len(applicationChecklist))
	for _, item := range applicationChecklist {
		uid, uname := universityID, universityName
		tasks = append(tasks, model.Task{
			StudentID:      studentID,
			UniversityID:   &uid,
			UniversityName: &uname,
			Title:          fmt.Sprintf(item.title, name),
			Description:    fmt.Sprintf(item.description, name),
			Priority:       item.priority,
			Category:       item.category,
			AIGenerated:    true,
		})
	}

	if err := repo.Task.CreateBatch(ctx, tasks); err != nil {
		return 0, fmt.Errorf("create tasks: %w", err)
	}

	g.logger.Info("application tasks generated",
		zap.String("student_id", studentID),
		zap.String("university_id", universityID),
		zap.Int("count", len(tasks)),
	)
	return len(tasks), nil
}

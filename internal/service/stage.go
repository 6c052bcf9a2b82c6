package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"uniguide/backend/internal/model"
	"uniguide/backend/internal/repository"
	pkgerrors "uniguide/backend/pkg/errors"
)

// stageRetries bounds optimistic retries of a stage write.
const stageRetries = 3

// StageName display name of a funnel stage.
func StageName(stage int) string {
	switch stage {
	case model.StageDiscovering:
		return "discovering-universities"
	case model.StageFinalizing:
		return "finalizing-universities"
	case model.StagePreparing:
		return "preparing-applications"
	default:
		return "building-profile"
	}
}

// selectionCounts sizes of both collections after a mutation.
type selectionCounts struct {
	shortlisted int64
	locked      int64
}

// stageRule computes the next stage from the current one and the counts.
type stageRule func(current int, c selectionCounts) int

func afterShortlist(current int, _ selectionCounts) int {
	return max(current, model.StageDiscovering)
}

func afterUnshortlist(current int, c selectionCounts) int {
	if c.shortlisted == 0 && c.locked == 0 {
		return model.StageBuildingProfile
	}
	return current
}

func afterLock(current int, c selectionCounts) int {
	if c.locked >= 3 {
		return model.StagePreparing
	}
	return max(current, model.StageFinalizing)
}

func afterUnlock(current int, c selectionCounts) int {
	switch {
	case c.locked == 0 && c.shortlisted > 0:
		return model.StageDiscovering
	case c.locked == 0:
		return model.StageBuildingProfile
	case c.locked < 3:
		return model.StageFinalizing
	default:
		return current
	}
}

func afterOnboarding(current int, _ selectionCounts) int {
	return max(current, model.StageDiscovering)
}

func clampStage(stage int) int {
	return min(max(stage, model.StageBuildingProfile), model.StagePreparing)
}

// applyStage recomputes and stores the stage of a student, retrying when
// a concurrent writer bumped the version in between.
func applyStage(ctx context.Context, repo *repository.Repository, studentID string, rule stageRule) (int, error) {
	for attempt := 0; attempt < stageRetries; attempt++ {
		student, err := repo.Student.GetByID(ctx, studentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrStudentNotFound
			}
			return 0, err
		}

		counts, err := countSelections(ctx, repo, studentID)
		if err != nil {
			return 0, err
		}

		// always written: the version bump must conflict with a concurrent
		// selection change on the same student
		next := clampStage(rule(student.CurrentStage, counts))
		err = repo.Student.UpdateStage(ctx, studentID, next, student.Version)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return 0, err
		}
	}
	return 0, fmt.Errorf("update stage: %w", pkgerrors.ErrOptimisticLock)
}

func countSelections(ctx context.Context, repo *repository.Repository, studentID string) (selectionCounts, error) {
	shortlisted, err := repo.Shortlist.CountByStudent(ctx, studentID)
	if err != nil {
		return selectionCounts{}, err
	}
	locked, err := repo.Locked.CountByStudent(ctx, studentID)
	if err != nil {
		return selectionCounts{}, err
	}
	return selectionCounts{shortlisted: shortlisted, locked: locked}, nil
}

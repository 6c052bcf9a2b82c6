package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"uniguide/backend/internal/dto"
	"uniguide/backend/internal/model"
	"uniguide/backend/internal/repository"
	pkgerrors "uniguide/backend/pkg/errors"
)

var (
	ErrSelectionLocked = errors.New("university is locked; unlock it first")
	ErrNotShortlisted  = errors.New("university is not shortlisted")
	ErrInvalidCategory = errors.New("category must be dream, target or safe")
)

// SelectionService shortlist, lock and the funnel stage they drive.
type SelectionService interface {
	Shortlist(ctx context.Context, studentID string, req *dto.ShortlistRequest) (*dto.ShortlistResponse, error)
	UpdateCategory(ctx context.Context, studentID, universityID string, req *dto.UpdateCategoryRequest) (*dto.ShortlistResponse, error)
	Unshortlist(ctx context.Context, studentID, universityID string) (*dto.StatusResponse, error)
	Lock(ctx context.Context, studentID string, req *dto.LockRequest) (*dto.LockResponse, error)
	Unlock(ctx context.Context, studentID, universityID string) (*dto.UnlockResponse, error)
	GetStage(ctx context.Context, studentID string) (*dto.StageResponse, error)
	List(ctx context.Context, studentID string) (*dto.SelectionsResponse, error)
}

type selectionService struct {
	repo      *repository.Repository
	generator *TaskGenerator
	events    EventPublisher
	logger    *zap.Logger
}

// NewSelectionService creates a SelectionService. A nil publisher disables
// selection events.
func NewSelectionService(repo *repository.Repository, generator *TaskGenerator, events EventPublisher, logger *zap.Logger) SelectionService {
	if events == nil {
		events = nopPublisher{}
	}
	return &selectionService{repo: repo, generator: generator, events: events, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// Shortlist
// ═══════════════════════════════════════════════════════════

func (s *selectionService) Shortlist(ctx context.Context, studentID string, req *dto.ShortlistRequest) (*dto.ShortlistResponse, error) {
	category := model.Category(req.Category)
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	resp := &dto.ShortlistResponse{Status: dto.StatusOK, Category: category}
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		student, err := loadStudent(ctx, tx, studentID)
		if err != nil {
			return err
		}

		entry := &model.ShortlistEntry{
			StudentID:         studentID,
			UniversityID:      req.UniversityID,
			Category:          category,
			UniversityName:    req.UniversityName,
			Country:           req.Country,
			City:              req.City,
			TuitionFee:        req.TuitionFee,
			LivingCostPerYear: req.LivingCostPerYear,
		}
		err = tx.Shortlist.Create(ctx, entry)
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			existing, getErr := tx.Shortlist.Get(ctx, studentID, req.UniversityID)
			if getErr != nil {
				return getErr
			}
			resp.Status = dto.StatusAlreadyShortlisted
			resp.ExistingCategory = existing.Category
			resp.CurrentStage = student.CurrentStage
			return nil
		}
		if err != nil {
			return err
		}

		resp.CurrentStage, err = applyStage(ctx, tx, studentID, afterShortlist)
		return err
	})
	if err != nil {
		return nil, s.fail("shortlist", studentID, err)
	}

	if resp.Status == dto.StatusOK {
		publishEvent(ctx, s.events, s.logger, SelectionEvent{
			Type: EventShortlisted, StudentID: studentID, UniversityID: req.UniversityID,
			Category: string(category), Stage: resp.CurrentStage,
		})
	}
	return resp, nil
}

func (s *selectionService) UpdateCategory(ctx context.Context, studentID, universityID string, req *dto.UpdateCategoryRequest) (*dto.ShortlistResponse, error) {
	category := model.Category(req.Category)
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	student, err := loadStudent(ctx, s.repo, studentID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Shortlist.UpdateCategory(ctx, studentID, universityID, category); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotShortlisted
		}
		return nil, s.fail("update category", studentID, err)
	}

	return &dto.ShortlistResponse{Status: dto.StatusOK, Category: category, CurrentStage: student.CurrentStage}, nil
}

func (s *selectionService) Unshortlist(ctx context.Context, studentID, universityID string) (*dto.StatusResponse, error) {
	resp := &dto.StatusResponse{Status: dto.StatusOK, CurrentStage: model.StageBuildingProfile}
	removed := false

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		student, err := loadStudent(ctx, tx, studentID)
		if errors.Is(err, ErrStudentNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		resp.CurrentStage = student.CurrentStage

		if _, err := tx.Locked.Get(ctx, studentID, universityID); err == nil {
			return ErrSelectionLocked
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		n, err := tx.Shortlist.Delete(ctx, studentID, universityID)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		removed = true
		resp.CurrentStage, err = applyStage(ctx, tx, studentID, afterUnshortlist)
		return err
	})
	if err != nil {
		return nil, s.fail("unshortlist", studentID, err)
	}

	if removed {
		publishEvent(ctx, s.events, s.logger, SelectionEvent{
			Type: EventUnshortlisted, StudentID: studentID, UniversityID: universityID, Stage: resp.CurrentStage,
		})
	}
	return resp, nil
}

// ═══════════════════════════════════════════════════════════
// Lock
// ═══════════════════════════════════════════════════════════
//
// The lock, the implicit shortlist entry and the stage commit together.
// Task generation and the event run afterwards; their failure is logged
// and never rolls the lock back.

func (s *selectionService) Lock(ctx context.Context, studentID string, req *dto.LockRequest) (*dto.LockResponse, error) {
	resp := &dto.LockResponse{Status: dto.StatusOK}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		student, err := loadStudent(ctx, tx, studentID)
		if err != nil {
			return err
		}

		err = tx.Locked.Create(ctx, &model.LockedEntry{
			StudentID:      studentID,
			UniversityID:   req.UniversityID,
			UniversityName: req.UniversityName,
			Country:        req.Country,
		})
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			resp.Status = dto.StatusAlreadyLocked
			resp.CurrentStage = student.CurrentStage
			return nil
		}
		if err != nil {
			return err
		}

		err = tx.Shortlist.Create(ctx, &model.ShortlistEntry{
			StudentID:         studentID,
			UniversityID:      req.UniversityID,
			Category:          model.CategoryTarget,
			UniversityName:    req.UniversityName,
			Country:           req.Country,
			City:              req.City,
			TuitionFee:        req.TuitionFee,
			LivingCostPerYear: req.LivingCostPerYear,
		})
		if err != nil && !errors.Is(err, pkgerrors.ErrDuplicate) {
			return err
		}

		resp.CurrentStage, err = applyStage(ctx, tx, studentID, afterLock)
		return err
	})
	if err != nil {
		return nil, s.fail("lock", studentID, err)
	}
	if resp.Status != dto.StatusOK {
		return resp, nil
	}

	created, err := s.generator.Generate(ctx, s.repo, studentID, req.UniversityID, req.UniversityName)
	if err != nil {
		s.logger.Error("generate application tasks failed",
			zap.String("student_id", studentID),
			zap.String("university_id", req.UniversityID),
			zap.Error(err),
		)
		created = 0
	}
	resp.TasksCreated = created

	publishEvent(ctx, s.events, s.logger, SelectionEvent{
		Type: EventLocked, StudentID: studentID, UniversityID: req.UniversityID, Stage: resp.CurrentStage,
	})
	return resp, nil
}

func (s *selectionService) Unlock(ctx context.Context, studentID, universityID string) (*dto.UnlockResponse, error) {
	resp := &dto.UnlockResponse{Status: dto.StatusOK, CurrentStage: model.StageBuildingProfile}
	removed := false

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		student, err := loadStudent(ctx, tx, studentID)
		if errors.Is(err, ErrStudentNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		resp.CurrentStage = student.CurrentStage

		n, err := tx.Locked.Delete(ctx, studentID, universityID)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		removed = true

		if resp.TasksDeleted, err = tx.Task.DeleteByUniversity(ctx, studentID, universityID); err != nil {
			return err
		}
		resp.CurrentStage, err = applyStage(ctx, tx, studentID, afterUnlock)
		return err
	})
	if err != nil {
		return nil, s.fail("unlock", studentID, err)
	}

	if removed {
		publishEvent(ctx, s.events, s.logger, SelectionEvent{
			Type: EventUnlocked, StudentID: studentID, UniversityID: universityID, Stage: resp.CurrentStage,
		})
	}
	return resp, nil
}

// ═══════════════════════════════════════════════════════════
// Queries
// ═══════════════════════════════════════════════════════════

func (s *selectionService) GetStage(ctx context.Context, studentID string) (*dto.StageResponse, error) {
	student, err := loadStudent(ctx, s.repo, studentID)
	if err != nil {
		return nil, err
	}
	stage := clampStage(student.CurrentStage)
	return &dto.StageResponse{Stage: stage, Name: StageName(stage)}, nil
}

func (s *selectionService) List(ctx context.Context, studentID string) (*dto.SelectionsResponse, error) {
	student, err := loadStudent(ctx, s.repo, studentID)
	if err != nil {
		return nil, err
	}

	shortlisted, err := s.repo.Shortlist.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, s.fail("list shortlist", studentID, err)
	}
	locked, err := s.repo.Locked.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, s.fail("list locked", studentID, err)
	}

	if shortlisted == nil {
		shortlisted = []model.ShortlistEntry{}
	}
	if locked == nil {
		locked = []model.LockedEntry{}
	}
	return &dto.SelectionsResponse{
		Shortlisted:  shortlisted,
		Locked:       locked,
		CurrentStage: student.CurrentStage,
	}, nil
}

// fail logs unexpected errors; known sentinels pass through quietly.
func (s *selectionService) fail(op, studentID string, err error) error {
	if errors.Is(err, ErrStudentNotFound) || errors.Is(err, ErrSelectionLocked) {
		return err
	}
	s.logger.Error(op+" failed", zap.String("student_id", studentID), zap.Error(err))
	return err
}

// loadStudent maps a missing row to ErrStudentNotFound.
func loadStudent(ctx context.Context, repo *repository.Repository, studentID string) (*model.Student, error) {
	student, err := repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"uniguide/backend/internal/country"
	"uniguide/backend/internal/dto"
	"uniguide/backend/internal/model"
	"uniguide/backend/internal/repository"
	"uniguide/backend/internal/scoring"
	pkgerrors "uniguide/backend/pkg/errors"
)

// ProfileService student profile, readiness and evaluation.
type ProfileService interface {
	Get(ctx context.Context, studentID string) (*dto.ProfileResponse, error)
	Update(ctx context.Context, studentID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	// CompleteOnboarding marks onboarding done. Completing it moves the
	// student to at least stage 2; skipping leaves the stage alone.
	CompleteOnboarding(ctx context.Context, studentID string, req *dto.OnboardingRequest) (*dto.ProfileResponse, error)
	UpdateReadiness(ctx context.Context, studentID string, req *dto.ReadinessRequest) (*dto.ProfileResponse, error)
	Evaluate(ctx context.Context, studentID string) (*dto.EvaluationResponse, error)
}

type profileService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(repo *repository.Repository, logger *zap.Logger) ProfileService {
	return &profileService{repo: repo, logger: logger}
}

func (s *profileService) Get(ctx context.Context, studentID string) (*dto.ProfileResponse, error) {
	student, err := loadStudent(ctx, s.repo, studentID)
	if err != nil {
		return nil, err
	}
	resp := toProfileResponse(student)
	return &resp, nil
}

func (s *profileService) Update(ctx context.Context, studentID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	return s.mutate(ctx, studentID, func(st *model.Student) {
		applyProfile(st, req)
	})
}

func (s *profileService) CompleteOnboarding(ctx context.Context, studentID string, req *dto.OnboardingRequest) (*dto.ProfileResponse, error) {
	return s.mutate(ctx, studentID, func(st *model.Student) {
		st.OnboardingCompleted = true
		if req.Skip {
			return
		}
		if req.Profile != nil {
			applyProfile(st, req.Profile)
		}
		st.CurrentStage = clampStage(afterOnboarding(st.CurrentStage, selectionCounts{}))
	})
}

func (s *profileService) UpdateReadiness(ctx context.Context, studentID string, req *dto.ReadinessRequest) (*dto.ProfileResponse, error) {
	return s.mutate(ctx, studentID, func(st *model.Student) {
		setExam(&st.IELTSStatus, &st.IELTSScore, req.IELTSStatus, req.IELTSScore)
		setExam(&st.TOEFLStatus, &st.TOEFLScore, req.TOEFLStatus, req.TOEFLScore)
		setExam(&st.GREStatus, &st.GREScore, req.GREStatus, req.GREScore)
		setExam(&st.GMATStatus, &st.GMATScore, req.GMATStatus, req.GMATScore)
		if req.SOPStatus != nil {
			st.SOPStatus = model.SOPStatus(*req.SOPStatus)
		}
	})
}

func (s *profileService) Evaluate(ctx context.Context, studentID string) (*dto.EvaluationResponse, error) {
	student, err := loadStudent(ctx, s.repo, studentID)
	if err != nil {
		return nil, err
	}
	eval, err := scoring.EvaluateProfile(student)
	if err != nil {
		return nil, err
	}
	return &dto.EvaluationResponse{ProfileEvaluation: eval}, nil
}

// mutate loads, changes, validates and stores the profile, reapplying the
// change on a fresh copy when a concurrent write won the version race.
func (s *profileService) mutate(ctx context.Context, studentID string, change func(*model.Student)) (*dto.ProfileResponse, error) {
	for attempt := 0; attempt < stageRetries; attempt++ {
		student, err := loadStudent(ctx, s.repo, studentID)
		if err != nil {
			return nil, err
		}

		change(student)
		if err := scoring.ValidateProfile(student); err != nil {
			return nil, err
		}

		err = s.repo.Student.Update(ctx, student)
		if err == nil {
			resp := toProfileResponse(student)
			return &resp, nil
		}
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("update profile failed", zap.String("student_id", studentID), zap.Error(err))
			return nil, err
		}
	}
	return nil, pkgerrors.ErrOptimisticLock
}

func applyProfile(st *model.Student, req *dto.UpdateProfileRequest) {
	setString(&st.FullName, req.FullName)
	setString(&st.EducationLevel, req.EducationLevel)
	setString(&st.Degree, req.Degree)
	setString(&st.Major, req.Major)
	setString(&st.IntendedDegree, req.IntendedDegree)
	setString(&st.FieldOfStudy, req.FieldOfStudy)
	setString(&st.FundingPlan, req.FundingPlan)

	if req.GraduationYear != nil {
		st.GraduationYear = req.GraduationYear
	}
	if req.GPA != nil {
		st.GPA = req.GPA
	}
	if req.TargetIntakeYear != nil {
		st.TargetIntakeYear = req.TargetIntakeYear
	}
	if req.BudgetMin != nil {
		st.BudgetMin = req.BudgetMin
	}
	if req.BudgetMax != nil {
		st.BudgetMax = req.BudgetMax
	}
	if req.PreferredCountries != nil {
		st.PreferredCountries = country.CanonicalAll(*req.PreferredCountries)
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setExam(status *model.ExamStatus, score **float64, newStatus *string, newScore *float64) {
	if newStatus != nil {
		*status = model.ExamStatus(*newStatus)
	}
	if newScore != nil {
		*score = newScore
	}
}

func toProfileResponse(st *model.Student) dto.ProfileResponse {
	countries := []string(st.PreferredCountries)
	if countries == nil {
		countries = []string{}
	}
	return dto.ProfileResponse{
		ID:                 st.StudentID,
		FullName:           st.FullName,
		Email:              st.Email,
		Role:               st.Role,
		EducationLevel:     st.EducationLevel,
		Degree:             st.Degree,
		Major:              st.Major,
		GraduationYear:     st.GraduationYear,
		GPA:                st.GPA,
		IntendedDegree:     st.IntendedDegree,
		FieldOfStudy:       st.FieldOfStudy,
		TargetIntakeYear:   st.TargetIntakeYear,
		PreferredCountries: countries,
		BudgetMin:          st.BudgetMin,
		BudgetMax:          st.BudgetMax,
		FundingPlan:        st.FundingPlan,
		Readiness: dto.ReadinessBlock{
			IELTS: dto.ExamReadiness{Status: string(st.IELTSStatus), Score: st.IELTSScore},
			TOEFL: dto.ExamReadiness{Status: string(st.TOEFLStatus), Score: st.TOEFLScore},
			GRE:   dto.ExamReadiness{Status: string(st.GREStatus), Score: st.GREScore},
			GMAT:  dto.ExamReadiness{Status: string(st.GMATStatus), Score: st.GMATScore},
			SOP:   string(st.SOPStatus),
		},
		OnboardingCompleted: st.OnboardingCompleted,
		CurrentStage:        st.CurrentStage,
		CreatedAt:           st.CreatedAt,
		UpdatedAt:           st.UpdatedAt,
	}
}

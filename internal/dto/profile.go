package dto

import (
	"time"

	"uniguide/backend/internal/scoring"
)

// ProfileResponse full student profile without credentials.
type ProfileResponse struct {
	ID                  string         `json:"id"`
	FullName            string         `json:"full_name"`
	Email               string         `json:"email"`
	Role                string         `json:"role"`
	EducationLevel      string         `json:"education_level"`
	Degree              string         `json:"degree"`
	Major               string         `json:"major"`
	GraduationYear      *int           `json:"graduation_year"`
	GPA                 *float64       `json:"gpa"`
	IntendedDegree      string         `json:"intended_degree"`
	FieldOfStudy        string         `json:"field_of_study"`
	TargetIntakeYear    *int           `json:"target_intake_year"`
	PreferredCountries  []string       `json:"preferred_countries"`
	BudgetMin           *float64       `json:"budget_min"`
	BudgetMax           *float64       `json:"budget_max"`
	FundingPlan         string         `json:"funding_plan"`
	Readiness           ReadinessBlock `json:"readiness"`
	OnboardingCompleted bool           `json:"onboarding_completed"`
	CurrentStage        int            `json:"current_stage"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// ReadinessBlock exam and SOP progress.
type ReadinessBlock struct {
	IELTS ExamReadiness `json:"ielts"`
	TOEFL ExamReadiness `json:"toefl"`
	GRE   ExamReadiness `json:"gre"`
	GMAT  ExamReadiness `json:"gmat"`
	SOP   string        `json:"sop"`
}

// ExamReadiness status and optional score of one exam.
type ExamReadiness struct {
	Status string   `json:"status"`
	Score  *float64 `json:"score,omitempty"`
}

// UpdateProfileRequest partial profile update; nil fields are left as is.
type UpdateProfileRequest struct {
	FullName           *string   `json:"full_name"          binding:"omitempty,min=2,max=100"`
	EducationLevel     *string   `json:"education_level"    binding:"omitempty,max=50"`
	Degree             *string   `json:"degree"             binding:"omitempty,max=100"`
	Major              *string   `json:"major"              binding:"omitempty,max=100"`
	GraduationYear     *int      `json:"graduation_year"    binding:"omitempty,min=1950,max=2100"`
	GPA                *float64  `json:"gpa"                binding:"omitempty,gte=0,lte=100"`
	IntendedDegree     *string   `json:"intended_degree"    binding:"omitempty,max=20"`
	FieldOfStudy       *string   `json:"field_of_study"     binding:"omitempty,max=100"`
	TargetIntakeYear   *int      `json:"target_intake_year" binding:"omitempty,min=2000,max=2100"`
	PreferredCountries *[]string `json:"preferred_countries" binding:"omitempty,max=20,dive,min=2,max=100"`
	BudgetMin          *float64  `json:"budget_min"         binding:"omitempty,gte=0"`
	BudgetMax          *float64  `json:"budget_max"         binding:"omitempty,gte=0"`
	FundingPlan        *string   `json:"funding_plan"       binding:"omitempty,oneof=self-funded scholarship loan mixed"`
}

// OnboardingRequest finishes or skips onboarding, optionally saving the
// profile collected on the way.
type OnboardingRequest struct {
	Skip    bool                  `json:"skip"`
	Profile *UpdateProfileRequest `json:"profile"`
}

// ReadinessRequest exam and SOP status update.
type ReadinessRequest struct {
	IELTSStatus *string  `json:"ielts_status" binding:"omitempty,oneof=not-started in-progress completed not-required"`
	IELTSScore  *float64 `json:"ielts_score"  binding:"omitempty,gte=0,lte=9"`
	TOEFLStatus *string  `json:"toefl_status" binding:"omitempty,oneof=not-started in-progress completed not-required"`
	TOEFLScore  *float64 `json:"toefl_score"  binding:"omitempty,gte=0,lte=120"`
	GREStatus   *string  `json:"gre_status"   binding:"omitempty,oneof=not-started in-progress completed not-required"`
	GREScore    *float64 `json:"gre_score"    binding:"omitempty,gte=0,lte=340"`
	GMATStatus  *string  `json:"gmat_status"  binding:"omitempty,oneof=not-started in-progress completed not-required"`
	GMATScore   *float64 `json:"gmat_score"   binding:"omitempty,gte=0,lte=800"`
	SOPStatus   *string  `json:"sop_status"   binding:"omitempty,oneof=not-started draft ready"`
}

// EvaluationResponse profile completion and strength.
type EvaluationResponse struct {
	scoring.ProfileEvaluation
}

// StageResponse current funnel stage.
type StageResponse struct {
	Stage int    `json:"stage"`
	Name  string `json:"name"`
}

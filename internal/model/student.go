package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Roles
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// ExamStatus readiness of a single exam.
type ExamStatus string

const (
	ExamNotStarted  ExamStatus = "not-started"
	ExamInProgress  ExamStatus = "in-progress"
	ExamCompleted   ExamStatus = "completed"
	ExamNotRequired ExamStatus = "not-required"
)

// Valid reports whether s is a known status.
func (s ExamStatus) Valid() bool {
	switch s {
	case ExamNotStarted, ExamInProgress, ExamCompleted, ExamNotRequired:
		return true
	}
	return false
}

// SOPStatus statement of purpose progress.
type SOPStatus string

const (
	SOPNotStarted SOPStatus = "not-started"
	SOPDraft      SOPStatus = "draft"
	SOPReady      SOPStatus = "ready"
)

// Funding plans
const (
	FundingSelf        = "self-funded"
	FundingScholarship = "scholarship"
	FundingLoan        = "loan"
	FundingMixed       = "mixed"
)

// Funnel stages.
const (
	StageBuildingProfile = 1
	StageDiscovering     = 2
	StageFinalizing      = 3
	StagePreparing       = 4
)

// Student profile, table students.
type Student struct {
	StudentID    string `gorm:"type:uuid;primaryKey"                       json:"student_id"`
	FullName     string `gorm:"type:varchar(100);not null"                 json:"full_name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"     json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                 json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'student'" json:"role"`

	// academic
	EducationLevel   string   `gorm:"type:varchar(50);not null;default:''"  json:"education_level"`
	Degree           string   `gorm:"type:varchar(100);not null;default:''" json:"degree"`
	Major            string   `gorm:"type:varchar(100);not null;default:''" json:"major"`
	GraduationYear   *int     `json:"graduation_year"`
	GPA              *float64 `gorm:"column:gpa" json:"gpa"`
	IntendedDegree   string   `gorm:"type:varchar(20);not null;default:''"  json:"intended_degree"`
	FieldOfStudy     string   `gorm:"type:varchar(100);not null;default:''" json:"field_of_study"`
	TargetIntakeYear *int     `json:"target_intake_year"`

	PreferredCountries datatypes.JSONSlice[string] `gorm:"not null" json:"preferred_countries"`

	// financial
	BudgetMin   *float64 `json:"budget_min"`
	BudgetMax   *float64 `json:"budget_max"`
	FundingPlan string   `gorm:"type:varchar(20);not null;default:''" json:"funding_plan"`

	// readiness
	IELTSStatus ExamStatus `gorm:"column:ielts_status;type:varchar(20);not null;default:'not-started'" json:"ielts_status"`
	IELTSScore  *float64   `gorm:"column:ielts_score"                                                  json:"ielts_score"`
	TOEFLStatus ExamStatus `gorm:"column:toefl_status;type:varchar(20);not null;default:'not-started'" json:"toefl_status"`
	TOEFLScore  *float64   `gorm:"column:toefl_score"                                                  json:"toefl_score"`
	GREStatus   ExamStatus `gorm:"column:gre_status;type:varchar(20);not null;default:'not-started'"   json:"gre_status"`
	GREScore    *float64   `gorm:"column:gre_score"                                                    json:"gre_score"`
	GMATStatus  ExamStatus `gorm:"column:gmat_status;type:varchar(20);not null;default:'not-started'"  json:"gmat_status"`
	GMATScore   *float64   `gorm:"column:gmat_score"                                                   json:"gmat_score"`
	SOPStatus   SOPStatus  `gorm:"column:sop_status;type:varchar(20);not null;default:'not-started'"   json:"sop_status"`

	OnboardingCompleted bool `gorm:"not null;default:false" json:"onboarding_completed"`
	CurrentStage        int  `gorm:"not null;default:1"     json:"current_stage"`
	VersionedModel
}

// TableName students
func (Student) TableName() string { return "students" }

// BeforeCreate assigns the id and fills enum defaults.
func (s *Student) BeforeCreate(*gorm.DB) error {
	newID(&s.StudentID)
	if s.Role == "" {
		s.Role = RoleStudent
	}
	if s.CurrentStage == 0 {
		s.CurrentStage = StageBuildingProfile
	}
	if s.PreferredCountries == nil {
		s.PreferredCountries = datatypes.JSONSlice[string]{}
	}
	for _, st := range []*ExamStatus{&s.IELTSStatus, &s.TOEFLStatus, &s.GREStatus, &s.GMATStatus} {
		if *st == "" {
			*st = ExamNotStarted
		}
	}
	if s.SOPStatus == "" {
		s.SOPStatus = SOPNotStarted
	}
	return nil
}

// Exams returns the four exam statuses in a fixed order.
func (s *Student) Exams() []ExamStatus {
	return []ExamStatus{s.IELTSStatus, s.TOEFLStatus, s.GREStatus, s.GMATStatus}
}

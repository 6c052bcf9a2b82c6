package model

import (
	"time"

	"gorm.io/datatypes"
)

// University sources
const (
	SourceSeed      = "seed"
	SourceDirectory = "directory"
)

// ProgramRequirements admission minimums of a program.
type ProgramRequirements struct {
	MinGPA       *float64 `json:"min_gpa,omitempty"   validate:"omitempty,gte=0"`
	IELTSMin     *float64 `json:"ielts_min,omitempty" validate:"omitempty,gte=0,lte=9"`
	TOEFLMin     *float64 `json:"toefl_min,omitempty" validate:"omitempty,gte=0,lte=120"`
	GRERequired  bool     `json:"gre_required"`
	GMATRequired bool     `json:"gmat_required"`
}

// Program offered by a university.
type Program struct {
	Name           string              `json:"name"                       validate:"required"`
	Degree         string              `json:"degree"                     validate:"required"`
	Field          string              `json:"field"`
	FieldAliases   []string            `json:"field_aliases,omitempty"`
	Duration       string              `json:"duration"`
	TuitionPerYear *float64            `json:"tuition_per_year,omitempty" validate:"omitempty,gte=0"`
	Requirements   ProgramRequirements `json:"requirements"`
}

// University record, table universities. Also the shape returned by the
// live directory, which never persists unless synced.
type University struct {
	UniversityID              string   `gorm:"type:varchar(512);primaryKey"  json:"university_id"`
	Name                      string   `gorm:"type:varchar(255);not null"    json:"name"    validate:"required"`
	Country                   string   `gorm:"type:varchar(100);not null;index" json:"country" validate:"required"`
	City                      string   `gorm:"type:varchar(100);not null;default:''" json:"city"`
	Website                   string   `gorm:"type:varchar(255);not null;default:''" json:"website"`
	Ranking                   *int     `json:"ranking"                     validate:"omitempty,gte=0"`
	AcceptanceRate            *float64 `json:"acceptance_rate"             validate:"omitempty,gte=0,lte=100"`
	InternationalStudentRatio *float64 `json:"international_student_ratio" validate:"omitempty,gte=0,lte=100"`
	ScholarshipsAvailable     bool     `gorm:"not null;default:false" json:"scholarships_available"`
	TuitionFee                float64  `gorm:"not null;default:0"     json:"tuition_fee"          validate:"gte=0"`
	LivingCostPerYear         float64  `gorm:"not null;default:0"     json:"living_cost_per_year" validate:"gte=0"`
	ApplicationFee            *float64 `json:"application_fee,omitempty"`
	Description               string   `gorm:"type:text;not null;default:''" json:"description"`

	Programs datatypes.JSONSlice[Program] `gorm:"not null" json:"programs" validate:"min=1,dive"`

	Source    string     `gorm:"type:varchar(20);not null;default:'seed'" json:"source"`
	FetchedAt *time.Time `json:"fetched_at,omitempty"`
	BaseModel
}

// TableName universities
func (University) TableName() string { return "universities" }

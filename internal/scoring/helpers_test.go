package scoring

import (
	"gorm.io/datatypes"

	"uniguide/backend/internal/model"
)

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

func baseProfile() *model.Student {
	return &model.Student{
		FullName:           "Test Student",
		GPA:                f64(3.8),
		BudgetMax:          f64(70000),
		IntendedDegree:     "masters",
		PreferredCountries: datatypes.JSONSlice[string]{"USA"},
	}
}

func university(name string, acceptance, tuition, living, minGPA float64) model.University {
	return model.University{
		UniversityID:      name,
		Name:              name,
		Country:           "USA",
		AcceptanceRate:    f64(acceptance),
		TuitionFee:        tuition,
		LivingCostPerYear: living,
		Programs: datatypes.JSONSlice[model.Program]{{
			Name:         "MS Computer Science",
			Degree:       "masters",
			Field:        "Computer Science",
			Requirements: model.ProgramRequirements{MinGPA: f64(minGPA)},
		}},
	}
}

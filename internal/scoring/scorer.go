// Package scoring rates universities against a student profile and
// evaluates the profile itself. Everything here is pure.
package scoring

import (
	"strconv"

	"uniguide/backend/internal/country"
	"uniguide/backend/internal/model"
)

// Rubric points.
const (
	pointsWithinBudget   = 30
	pointsNearBudget     = 15
	pointsDegreeMatch    = 15
	pointsGPAExceeds     = 25
	pointsGPAMeets       = 15
	pointsNoMinGPA       = 10
	pointsNoDegreeMatch  = 10
	pointsHighAcceptance = 20
	pointsModAcceptance  = 10
	pointsPreferred      = 5

	budgetTolerance = 1.2
	gpaMargin       = 0.3
	gpaEpsilon      = 1e-9

	safeThreshold   = 60
	targetThreshold = 35
)

// Acceptance chance labels.
const (
	ChanceHigh   = "high"
	ChanceMedium = "medium"
	ChanceLow    = "low"
)

// FitResult is the score of one university for one profile.
// Reasons and risks keep the order budget, academic, admission, preference.
type FitResult struct {
	University       model.University `json:"university"`
	Score            int              `json:"score"`
	Category         model.Category   `json:"category"`
	Reasons          []string         `json:"reasons"`
	Risks            []string         `json:"risks"`
	EstimatedCost    float64          `json:"estimated_cost"`
	AcceptanceChance string           `json:"acceptance_chance"`
}

// Score rates u for s. Invalid records yield ErrInvalidUniversity and
// never a partial score.
func Score(s *model.Student, u *model.University) (FitResult, error) {
	if err := ValidateProfile(s); err != nil {
		return FitResult{}, err
	}
	if err := ValidateUniversity(u); err != nil {
		return FitResult{}, err
	}

	r := FitResult{
		University: *u,
		Reasons:    []string{},
		Risks:      []string{},
	}

	matching := matchingPrograms(u.Programs, s.IntendedDegree)
	costBasis := matching
	if len(costBasis) == 0 {
		costBasis = u.Programs
	}
	r.EstimatedCost = averageTuition(costBasis, u.TuitionFee) + u.LivingCostPerYear

	// budget
	if s.BudgetMax != nil && *s.BudgetMax > 0 {
		budget := *s.BudgetMax
		switch {
		case r.EstimatedCost <= budget:
			r.add(pointsWithinBudget, "Within budget")
		case r.EstimatedCost <= budget*budgetTolerance:
			r.add(pointsNearBudget, "Slightly above budget")
		default:
			r.risk("May exceed budget")
		}
	}

	// academic
	if len(matching) == 0 {
		r.Score += pointsNoDegreeMatch
	} else {
		r.Score += pointsDegreeMatch
		if minGPA, ok := lowestMinGPA(matching); !ok {
			r.Score += pointsNoMinGPA
		} else if gpa, has := NormalizeGPA(s.GPA); has {
			required := normalizeScale(minGPA)
			switch {
			case gpa+gpaEpsilon >= required+gpaMargin:
				r.add(pointsGPAExceeds, "GPA exceeds requirements")
			case gpa+gpaEpsilon >= required:
				r.add(pointsGPAMeets, "GPA meets requirements")
			default:
				r.risk("Min GPA: " + strconv.FormatFloat(minGPA, 'f', -1, 64))
			}
		}
	}

	// admission
	if u.AcceptanceRate != nil {
		rate := *u.AcceptanceRate
		switch {
		case rate > 60:
			r.add(pointsHighAcceptance, "High acceptance rate")
		case rate > 30:
			r.add(pointsModAcceptance, "Moderate acceptance")
		case rate < 15:
			r.risk("Highly competitive")
		}
	}

	// preference
	if country.In(u.Country, s.PreferredCountries) {
		r.add(pointsPreferred, "In a preferred country")
	}

	r.Category = CategoryFor(r.Score)
	r.AcceptanceChance = chanceFor(r.Score)
	return r, nil
}

// CategoryFor buckets a score: high fit is safe, low fit is a dream (reach).
func CategoryFor(score int) model.Category {
	switch {
	case score >= safeThreshold:
		return model.CategorySafe
	case score >= targetThreshold:
		return model.CategoryTarget
	}
	return model.CategoryDream
}

func chanceFor(score int) string {
	switch {
	case score >= 60:
		return ChanceHigh
	case score >= 40:
		return ChanceMedium
	}
	return ChanceLow
}

func (r *FitResult) add(points int, reason string) {
	r.Score += points
	r.Reasons = append(r.Reasons, reason)
}

func (r *FitResult) risk(msg string) {
	r.Risks = append(r.Risks, msg)
}

func matchingPrograms(programs []model.Program, intended string) []model.Program {
	want := NormalizeDegree(intended)
	if want == "" {
		return nil
	}
	var out []model.Program
	for _, p := range programs {
		if NormalizeDegree(p.Degree) == want {
			out = append(out, p)
		}
	}
	return out
}

// averageTuition over programs; a program without its own tuition uses the
// university fee.
func averageTuition(programs []model.Program, fallback float64) float64 {
	if len(programs) == 0 {
		return fallback
	}
	var sum float64
	for _, p := range programs {
		if p.TuitionPerYear != nil {
			sum += *p.TuitionPerYear
		} else {
			sum += fallback
		}
	}
	return sum / float64(len(programs))
}

// lowestMinGPA is the most lenient GPA requirement among programs.
func lowestMinGPA(programs []model.Program) (float64, bool) {
	var lowest float64
	found := false
	for _, p := range programs {
		if p.Requirements.MinGPA == nil {
			continue
		}
		if v := *p.Requirements.MinGPA; !found || normalizeScale(v) < normalizeScale(lowest) {
			lowest, found = v, true
		}
	}
	return lowest, found
}

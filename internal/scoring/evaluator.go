package scoring

import (
	"strings"

	"uniguide/backend/internal/model"
)

// Strength labels.
const (
	AcademicsStrong  = "strong"
	AcademicsAverage = "average"
	AcademicsWeak    = "weak"

	ExamsCompleted  = "completed"
	ExamsInProgress = "in-progress"
	ExamsNotStarted = "not-started"
)

// CompletionBreakdown points earned per section of the profile form.
type CompletionBreakdown struct {
	BasicInfo int `json:"basic_info"` // of 20
	Academic  int `json:"academic"`   // of 25
	Goals     int `json:"goals"`      // of 25
	Budget    int `json:"budget"`     // of 10
	Exams     int `json:"exams"`      // of 10
	SOP       int `json:"sop"`        // of 10
}

// StrengthBreakdown points and labels of the quality rubric.
type StrengthBreakdown struct {
	AcademicsPoints int    `json:"academics_points"` // of 40
	ExamsPoints     int    `json:"exams_points"`     // of 40
	SOPPoints       int    `json:"sop_points"`       // of 20
	Academics       string `json:"academics"`
	Exams           string `json:"exams"`
	SOP             string `json:"sop"`
}

// ProfileEvaluation is the result of EvaluateProfile. Completion measures
// how much is filled in, Strength how good it is; they are independent.
type ProfileEvaluation struct {
	Completion          int                 `json:"completion"`
	Strength            int                 `json:"strength"`
	CompletionBreakdown CompletionBreakdown `json:"completion_breakdown"`
	StrengthBreakdown   StrengthBreakdown   `json:"strength_breakdown"`
}

// EvaluateProfile scores profile completion and strength, 0 to 100 each.
func EvaluateProfile(s *model.Student) (ProfileEvaluation, error) {
	if s == nil {
		return ProfileEvaluation{}, ErrInvalidProfile
	}

	var c CompletionBreakdown
	c.BasicInfo = points(set(s.FullName), 10) + points(set(s.Email), 10)
	c.Academic = points(set(s.EducationLevel), 5) +
		points(set(s.Degree), 5) +
		points(set(s.Major), 5) +
		points(s.GPA != nil, 5) +
		points(s.GraduationYear != nil, 5)
	c.Goals = points(set(s.IntendedDegree), 7) +
		points(set(s.FieldOfStudy), 6) +
		points(s.TargetIntakeYear != nil, 6) +
		points(len(s.PreferredCountries) > 0, 6)
	c.Budget = points(s.BudgetMin != nil, 3) +
		points(s.BudgetMax != nil, 3) +
		points(set(s.FundingPlan), 4)

	var examsSet, completed, inProgress, notRequired int
	for _, st := range s.Exams() {
		if st != "" && st != model.ExamNotStarted {
			examsSet++
		}
		switch st {
		case model.ExamCompleted:
			completed++
		case model.ExamInProgress:
			inProgress++
		case model.ExamNotRequired:
			notRequired++
		}
	}
	switch {
	case examsSet >= 2:
		c.Exams = 10
	case examsSet == 1:
		c.Exams = 5
	}
	c.SOP = points(s.SOPStatus != "" && s.SOPStatus != model.SOPNotStarted, 10)

	st := StrengthBreakdown{
		Academics: AcademicsWeak,
		Exams:     ExamsNotStarted,
		SOP:       string(s.SOPStatus),
	}
	if st.SOP == "" {
		st.SOP = string(model.SOPNotStarted)
	}
	if gpa, ok := NormalizeGPA(s.GPA); ok {
		switch {
		case gpa >= 3.5:
			st.AcademicsPoints, st.Academics = 40, AcademicsStrong
		case gpa >= 3.0:
			st.AcademicsPoints, st.Academics = 25, AcademicsAverage
		default:
			st.AcademicsPoints = 10
		}
	}
	switch {
	case completed >= 2 || (completed >= 1 && notRequired >= 2):
		st.ExamsPoints, st.Exams = 40, ExamsCompleted
	case completed >= 1:
		st.ExamsPoints, st.Exams = 25, ExamsInProgress
	case inProgress >= 1:
		st.ExamsPoints, st.Exams = 10, ExamsInProgress
	}
	switch s.SOPStatus {
	case model.SOPReady:
		st.SOPPoints = 20
	case model.SOPDraft:
		st.SOPPoints = 10
	}

	return ProfileEvaluation{
		Completion:          min(c.BasicInfo+c.Academic+c.Goals+c.Budget+c.Exams+c.SOP, 100),
		Strength:            min(st.AcademicsPoints+st.ExamsPoints+st.SOPPoints, 100),
		CompletionBreakdown: c,
		StrengthBreakdown:   st,
	}, nil
}

func set(v string) bool { return strings.TrimSpace(v) != "" }

func points(ok bool, n int) int {
	if ok {
		return n
	}
	return 0
}

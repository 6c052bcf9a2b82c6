package scoring

import (
	"testing"

	"gorm.io/datatypes"

	"uniguide/backend/internal/model"
)

func TestEvaluateProfile_Empty(t *testing.T) {
	ev, err := EvaluateProfile(&model.Student{})
	if err != nil {
		t.Fatalf("EvaluateProfile: %v", err)
	}
	if ev.Completion != 0 || ev.Strength != 0 {
		t.Errorf("completion=%d strength=%d, want 0/0", ev.Completion, ev.Strength)
	}
	sb := ev.StrengthBreakdown
	if sb.Academics != AcademicsWeak || sb.Exams != ExamsNotStarted || sb.SOP != "not-started" {
		t.Errorf("labels = %+v", sb)
	}
}

func TestEvaluateProfile_Complete(t *testing.T) {
	s := &model.Student{
		FullName:           "Ada",
		Email:              "ada@example.com",
		EducationLevel:     "bachelors",
		Degree:             "BSc",
		Major:              "CS",
		GPA:                f64(3.6),
		GraduationYear:     intp(2025),
		IntendedDegree:     "masters",
		FieldOfStudy:       "CS",
		TargetIntakeYear:   intp(2027),
		PreferredCountries: datatypes.JSONSlice[string]{"Germany"},
		BudgetMin:          f64(10000),
		BudgetMax:          f64(40000),
		FundingPlan:        model.FundingSelf,
		IELTSStatus:        model.ExamCompleted,
		GREStatus:          model.ExamCompleted,
		TOEFLStatus:        model.ExamNotRequired,
		GMATStatus:         model.ExamNotRequired,
		SOPStatus:          model.SOPReady,
	}

	ev, err := EvaluateProfile(s)
	if err != nil {
		t.Fatalf("EvaluateProfile: %v", err)
	}
	if ev.Completion != 100 {
		t.Errorf("completion = %d, want 100 (%+v)", ev.Completion, ev.CompletionBreakdown)
	}
	if ev.Strength != 100 {
		t.Errorf("strength = %d, want 100 (%+v)", ev.Strength, ev.StrengthBreakdown)
	}
	if ev.StrengthBreakdown.Academics != AcademicsStrong || ev.StrengthBreakdown.Exams != ExamsCompleted {
		t.Errorf("labels = %+v", ev.StrengthBreakdown)
	}
}

func TestEvaluateProfile_PresenceNotMagnitude(t *testing.T) {
	s := &model.Student{GraduationYear: intp(0), GPA: f64(0), BudgetMin: f64(0)}
	ev, _ := EvaluateProfile(s)
	if ev.CompletionBreakdown.Academic != 10 {
		t.Errorf("academic completion = %d, want 10", ev.CompletionBreakdown.Academic)
	}
	if ev.CompletionBreakdown.Budget != 3 {
		t.Errorf("budget completion = %d, want 3", ev.CompletionBreakdown.Budget)
	}
	if ev.StrengthBreakdown.AcademicsPoints != 0 {
		t.Errorf("zero GPA should earn no strength, got %d", ev.StrengthBreakdown.AcademicsPoints)
	}
}

func TestEvaluateProfile_AcademicTiers(t *testing.T) {
	cases := []struct {
		gpa    float64
		points int
		label  string
	}{
		{3.5, 40, AcademicsStrong},
		{85, 40, AcademicsStrong},
		{3.2, 25, AcademicsAverage},
		{70, 25, AcademicsAverage},
		{2.1, 10, AcademicsWeak},
		{55, 10, AcademicsWeak},
	}
	for _, tc := range cases {
		ev, _ := EvaluateProfile(&model.Student{GPA: f64(tc.gpa)})
		if ev.StrengthBreakdown.AcademicsPoints != tc.points || ev.StrengthBreakdown.Academics != tc.label {
			t.Errorf("gpa %v: got %d/%s, want %d/%s", tc.gpa,
				ev.StrengthBreakdown.AcademicsPoints, ev.StrengthBreakdown.Academics, tc.points, tc.label)
		}
	}
}

func TestEvaluateProfile_ExamTiers(t *testing.T) {
	c, p, n, r := model.ExamCompleted, model.ExamInProgress, model.ExamNotStarted, model.ExamNotRequired
	cases := []struct {
		name       string
		exams      [4]model.ExamStatus
		points     int
		completion int
	}{
		{"two completed", [4]model.ExamStatus{c, c, n, n}, 40, 10},
		{"one completed two not required", [4]model.ExamStatus{c, r, r, n}, 40, 10},
		{"one completed", [4]model.ExamStatus{c, n, n, n}, 25, 5},
		{"in progress", [4]model.ExamStatus{p, n, n, n}, 10, 5},
		{"nothing", [4]model.ExamStatus{n, n, n, n}, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &model.Student{IELTSStatus: tc.exams[0], TOEFLStatus: tc.exams[1], GREStatus: tc.exams[2], GMATStatus: tc.exams[3]}
			ev, _ := EvaluateProfile(s)
			if ev.StrengthBreakdown.ExamsPoints != tc.points {
				t.Errorf("exam strength = %d, want %d", ev.StrengthBreakdown.ExamsPoints, tc.points)
			}
			if ev.CompletionBreakdown.Exams != tc.completion {
				t.Errorf("exam completion = %d, want %d", ev.CompletionBreakdown.Exams, tc.completion)
			}
		})
	}
}

func TestEvaluateProfile_Nil(t *testing.T) {
	if _, err := EvaluateProfile(nil); err == nil {
		t.Fatal("expected error for nil profile")
	}
}

package scoring

import (
	"errors"
	"reflect"
	"testing"

	"gorm.io/datatypes"

	"uniguide/backend/internal/model"
)

func TestScore_SafeMatch(t *testing.T) {
	u := university("Good Fit", 70, 30000, 15000, 3.0)

	r, err := Score(baseProfile(), &u)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if r.Score != 95 {
		t.Errorf("score = %d, want 95", r.Score)
	}
	if r.Category != model.CategorySafe {
		t.Errorf("category = %s, want safe", r.Category)
	}
	wantReasons := []string{"Within budget", "GPA exceeds requirements", "High acceptance rate", "In a preferred country"}
	if !reflect.DeepEqual(r.Reasons, wantReasons) {
		t.Errorf("reasons = %v, want %v", r.Reasons, wantReasons)
	}
	if len(r.Risks) != 0 {
		t.Errorf("risks = %v, want none", r.Risks)
	}
	if r.EstimatedCost != 45000 {
		t.Errorf("estimated cost = %v, want 45000", r.EstimatedCost)
	}
	if r.AcceptanceChance != ChanceHigh {
		t.Errorf("acceptance chance = %s, want high", r.AcceptanceChance)
	}
}

func TestScore_DreamReach(t *testing.T) {
	u := university("Reach", 5, 80000, 25000, 3.9)
	u.Country = "United Kingdom"

	r, err := Score(baseProfile(), &u)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if r.Score != 15 {
		t.Errorf("score = %d, want 15", r.Score)
	}
	if r.Category != model.CategoryDream {
		t.Errorf("category = %s, want dream", r.Category)
	}
	wantRisks := []string{"May exceed budget", "Min GPA: 3.9", "Highly competitive"}
	if !reflect.DeepEqual(r.Risks, wantRisks) {
		t.Errorf("risks = %v, want %v", r.Risks, wantRisks)
	}
	if len(r.Reasons) != 0 {
		t.Errorf("reasons = %v, want none", r.Reasons)
	}
}

func TestScore_BudgetTiers(t *testing.T) {
	cases := []struct {
		name    string
		tuition float64
		want    int
		reason  string
	}{
		{"within", 50000, 30, "Within budget"},
		{"slightly above", 65000, 15, "Slightly above budget"},
		{"far above", 90000, 0, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &model.Student{BudgetMax: f64(70000)}
			u := university("U", 50, tc.tuition, 10000, 3.0)
			r, err := Score(p, &u)
			if err != nil {
				t.Fatalf("Score: %v", err)
			}
			// no intended degree: +10 flat, acceptance 50: +10
			if got := r.Score - 20; got != tc.want {
				t.Errorf("budget points = %d, want %d", got, tc.want)
			}
			if tc.reason != "" && (len(r.Reasons) == 0 || r.Reasons[0] != tc.reason) {
				t.Errorf("first reason = %v, want %q", r.Reasons, tc.reason)
			}
		})
	}
}

func TestScore_MissingBudgetSkipsBudget(t *testing.T) {
	p := baseProfile()
	p.BudgetMax = nil
	u := university("U", 70, 300000, 50000, 3.0)

	r, err := Score(p, &u)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	for _, risk := range r.Risks {
		if risk == "May exceed budget" {
			t.Fatal("budget risk reported without a budget")
		}
	}
	if r.Score != 65 {
		t.Errorf("score = %d, want 65", r.Score)
	}
}

func TestScore_MissingGPAIsNeutral(t *testing.T) {
	p := baseProfile()
	p.GPA = nil
	u := university("U", 50, 30000, 15000, 3.9)

	r, err := Score(p, &u)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	// budget 30 + degree match 15 + moderate 10 + preferred 5
	if r.Score != 60 {
		t.Errorf("score = %d, want 60", r.Score)
	}
	for _, risk := range r.Risks {
		if risk == "Min GPA: 3.9" {
			t.Fatal("GPA risk reported without a GPA")
		}
	}
}

func TestScore_PercentageGPA(t *testing.T) {
	p := baseProfile()
	p.GPA = f64(85) // ≡ 3.5
	u := university("U", 50, 30000, 15000, 3.2)

	r, err := Score(p, &u)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if r.Reasons[1] != "GPA exceeds requirements" {
		t.Errorf("reasons = %v, want GPA exceeds requirements", r.Reasons)
	}

	p.GPA = f64(60) // below 3.0
	r, _ = Score(p, &u)
	if len(r.Risks) != 1 || r.Risks[0] != "Min GPA: 3.2" {
		t.Errorf("risks = %v, want [Min GPA: 3.2]", r.Risks)
	}
}

func TestScore_DegreeMatching(t *testing.T) {
	u := university("U", 50, 30000, 15000, 3.0)
	u.Programs = append(u.Programs, model.Program{Name: "BSc", Degree: "Bachelor's"})

	p := &model.Student{IntendedDegree: "Master's", GPA: f64(3.1)}
	r, _ := Score(p, &u)
	// match 15 + meets 15 + moderate 10
	if r.Score != 40 {
		t.Errorf("master's profile score = %d, want 40", r.Score)
	}

	p = &model.Student{IntendedDegree: "phd", GPA: f64(3.1)}
	r, _ = Score(p, &u)
	// no match flat 10 + moderate 10
	if r.Score != 20 {
		t.Errorf("phd profile score = %d, want 20", r.Score)
	}

	u.Programs[0].Requirements.MinGPA = nil
	p = &model.Student{IntendedDegree: "masters", GPA: f64(2.0)}
	r, _ = Score(p, &u)
	// match 15 + no min gpa 10 + moderate 10
	if r.Score != 35 || r.Category != model.CategoryTarget {
		t.Errorf("no min gpa: score = %d category = %s, want 35 target", r.Score, r.Category)
	}
}

func TestScore_ProgramTuitionPreferred(t *testing.T) {
	u := university("U", 50, 30000, 10000, 3.0)
	u.Programs[0].TuitionPerYear = f64(20000)
	u.Programs = append(u.Programs, model.Program{Name: "MBA", Degree: "mba", TuitionPerYear: f64(90000)})

	r, _ := Score(&model.Student{IntendedDegree: "masters"}, &u)
	if r.EstimatedCost != 30000 {
		t.Errorf("estimated cost = %v, want 30000 (matching program only)", r.EstimatedCost)
	}

	r, _ = Score(&model.Student{IntendedDegree: "bachelors"}, &u)
	if r.EstimatedCost != 65000 {
		t.Errorf("estimated cost = %v, want 65000 (average of all programs)", r.EstimatedCost)
	}
}

func TestScore_CountryAliases(t *testing.T) {
	u := university("U", 50, 30000, 15000, 3.0)
	u.Country = "United States"
	p := baseProfile()
	p.PreferredCountries = datatypes.JSONSlice[string]{"usa"}

	r, _ := Score(p, &u)
	if r.Reasons[len(r.Reasons)-1] != "In a preferred country" {
		t.Errorf("reasons = %v, want preferred country bonus", r.Reasons)
	}
}

func TestScore_InvalidUniversity(t *testing.T) {
	cases := map[string]func(u *model.University){
		"no programs":        func(u *model.University) { u.Programs = nil },
		"acceptance too big": func(u *model.University) { u.AcceptanceRate = f64(140) },
		"negative ranking":   func(u *model.University) { u.Ranking = intp(-3) },
		"missing name":       func(u *model.University) { u.Name = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			u := university("U", 50, 30000, 15000, 3.0)
			mutate(&u)
			r, err := Score(baseProfile(), &u)
			if !errors.Is(err, ErrInvalidUniversity) {
				t.Fatalf("err = %v, want ErrInvalidUniversity", err)
			}
			if r.Score != 0 || r.Reasons != nil {
				t.Errorf("partial result returned: %+v", r)
			}
		})
	}
}

func TestScore_InvalidBudgetRange(t *testing.T) {
	p := baseProfile()
	p.BudgetMin = f64(90000)
	u := university("U", 50, 30000, 15000, 3.0)

	if _, err := Score(p, &u); !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("err = %v, want ErrInvalidProfile", err)
	}
}

func TestScore_Deterministic(t *testing.T) {
	u := university("U", 25, 60000, 20000, 3.5)
	p := baseProfile()

	a, _ := Score(p, &u)
	b, _ := Score(p, &u)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("identical inputs produced different results:\n%+v\n%+v", a, b)
	}
}

func TestScore_MonotonicInGPA(t *testing.T) {
	unis := []model.University{
		university("A", 70, 30000, 15000, 3.0),
		university("B", 5, 80000, 25000, 3.9),
		university("C", 40, 50000, 15000, 3.4),
		university("D", 40, 50000, 15000, 85),
	}
	rank := map[model.Category]int{model.CategoryDream: 0, model.CategoryTarget: 1, model.CategorySafe: 2}

	for _, u := range unis {
		prevScore, prevCat := -1, -1
		for gpa := 1.0; gpa <= 4.0; gpa += 0.1 {
			p := baseProfile()
			p.GPA = f64(gpa)
			r, err := Score(p, &u)
			if err != nil {
				t.Fatalf("Score: %v", err)
			}
			if r.Score < prevScore {
				t.Fatalf("%s: score dropped from %d to %d at gpa %.1f", u.Name, prevScore, r.Score, gpa)
			}
			if rank[r.Category] < prevCat {
				t.Fatalf("%s: category moved toward dream at gpa %.1f", u.Name, gpa)
			}
			prevScore, prevCat = r.Score, rank[r.Category]
		}
	}
}

func TestCategoryFor(t *testing.T) {
	cases := map[int]model.Category{0: model.CategoryDream, 34: model.CategoryDream, 35: model.CategoryTarget, 59: model.CategoryTarget, 60: model.CategorySafe, 95: model.CategorySafe}
	for score, want := range cases {
		if got := CategoryFor(score); got != want {
			t.Errorf("CategoryFor(%d) = %s, want %s", score, got, want)
		}
	}
}

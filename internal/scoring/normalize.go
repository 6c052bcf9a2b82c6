package scoring

import "strings"

// Canonical degree levels.
const (
	DegreeBachelors = "bachelors"
	DegreeMasters   = "masters"
	DegreeMBA       = "mba"
	DegreePhD       = "phd"
)

// NormalizeGPA returns the GPA on a 4.0 scale and whether it is usable.
// Values above 10 are a 100-point percentage mapped linearly so that
// 70 ≡ 3.0 and 85 ≡ 3.5, clamped to [0,4]. Nil or non-positive is absent.
func NormalizeGPA(gpa *float64) (float64, bool) {
	if gpa == nil || *gpa <= 0 {
		return 0, false
	}
	return normalizeScale(*gpa), true
}

func normalizeScale(v float64) float64 {
	if v <= 10 {
		return v
	}
	g := 3.0 + (v-70)/30
	switch {
	case g < 0:
		return 0
	case g > 4:
		return 4
	}
	return g
}

// NormalizeDegree maps free-form degree names ("Master's", "MSc", "PhD")
// to one of the canonical levels. Unknown values are lowercased.
func NormalizeDegree(d string) string {
	s := strings.ToLower(strings.TrimSpace(d))
	s = strings.NewReplacer("'", "", "’", "", ".", "").Replace(s)

	switch {
	case s == "":
		return ""
	case strings.Contains(s, "phd"), strings.Contains(s, "doctor"):
		return DegreePhD
	case strings.Contains(s, "mba"), strings.Contains(s, "business administration"):
		return DegreeMBA
	case strings.HasPrefix(s, "master"), s == "ms", s == "msc", s == "ma", s == "meng", s == "graduate":
		return DegreeMasters
	case strings.HasPrefix(s, "bachelor"), s == "bs", s == "bsc", s == "ba", s == "beng", s == "undergraduate":
		return DegreeBachelors
	}
	return s
}

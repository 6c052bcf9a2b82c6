package directory

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gorm.io/datatypes"

	"uniguide/backend/internal/model"
)

// apiUniversity is one element of the Hipo Labs search response.
type apiUniversity struct {
	Name          string   `json:"name"`
	Country       string   `json:"country"`
	AlphaTwoCode  string   `json:"alpha_two_code"`
	StateProvince *string  `json:"state-province"`
	Domains       []string `json:"domains"`
	WebPages      []string `json:"web_pages"`
}

// countryProfile averages used to synthesize the statistics the directory
// does not provide.
type countryProfile struct {
	DefaultCity      string
	BaseRanking      int64
	AcceptanceRate   int64
	InternationalPct int64
	Tuition          int64
	LivingCost       int64
	ApplicationFee   float64
}

var countryProfiles = map[string]countryProfile{
	"United States":  {"Various", 50, 50, 15, 45000, 18000, 80},
	"United Kingdom": {"Various", 40, 40, 35, 28000, 15000, 50},
	"Canada":         {"Various", 60, 55, 25, 35000, 14000, 100},
	"Germany":        {"Various", 80, 45, 20, 500, 12000, 0},
	"Australia":      {"Various", 70, 60, 30, 38000, 16000, 100},
	"Singapore":      {"Singapore", 30, 25, 40, 40000, 15000, 50},
	"Ireland":        {"Various", 100, 55, 25, 25000, 14000, 60},
	"Netherlands":    {"Various", 90, 50, 30, 18000, 13000, 100},
}

func profileFor(country string) countryProfile {
	if p, ok := countryProfiles[country]; ok {
		return p
	}
	return countryProfiles["United States"]
}

type studyField struct {
	Name    string
	Aliases []string
}

var studyFields = []studyField{
	{"Computer Science", []string{"computer science", "cs", "computing", "software", "programming"}},
	{"Data Science", []string{"data science", "data analytics", "analytics", "big data"}},
	{"Artificial Intelligence", []string{"artificial intelligence", "ai", "machine learning", "ml", "deep learning"}},
	{"Engineering", []string{"engineering", "electrical", "mechanical", "civil", "chemical"}},
	{"Business", []string{"business", "management", "commerce", "marketing"}},
	{"Finance", []string{"finance", "accounting", "economics", "financial"}},
	{"Information Technology", []string{"information technology", "it", "information systems", "mis"}},
	{"Cybersecurity", []string{"cybersecurity", "cyber security", "information security", "security"}},
	{"Healthcare", []string{"healthcare", "health", "medicine", "nursing", "public health"}},
	{"Biotechnology", []string{"biotechnology", "biotech", "biology", "bioinformatics"}},
	{"Psychology", []string{"psychology", "behavioral science", "cognitive science"}},
	{"Education", []string{"education", "teaching", "pedagogy"}},
	{"Law", []string{"law", "legal", "jurisprudence"}},
	{"Architecture", []string{"architecture", "urban planning", "design"}},
	{"Media", []string{"media", "journalism", "communication", "mass communication"}},
}

var phdFields = []string{"Computer Science", "Data Science", "Engineering", "Business", "Psychology", "Biotechnology"}

var mbaAliases = []string{"business", "mba", "management"}

// Degree labels used by directory records.
const (
	degreeBachelors = "Bachelor's"
	degreeMasters   = "Master's"
	degreeMBA       = "MBA"
	degreePhD       = "PhD"
)

// transform turns a raw directory entry into a University. Everything the
// directory lacks is derived from the name hash, so the same name always
// yields the same record.
func transform(raw apiUniversity, country string, now time.Time) model.University {
	p := profileFor(country)
	h := hashName(raw.Name)

	city := p.DefaultCity
	if raw.StateProvince != nil && *raw.StateProvince != "" {
		city = *raw.StateProvince
	}

	website := ""
	switch {
	case len(raw.WebPages) > 0 && raw.WebPages[0] != "":
		website = raw.WebPages[0]
	case len(raw.Domains) > 0 && raw.Domains[0] != "":
		website = "https://" + raw.Domains[0]
	}

	ranking := int(p.BaseRanking + h%200)
	acceptance := float64(clamp(p.AcceptanceRate+h%40-20, 10, 90))
	international := float64(clamp(p.InternationalPct+h%30-15, 5, 60))
	appFee := p.ApplicationFee
	fetched := now

	return model.University{
		UniversityID:              UniversityID(raw.Name, country),
		Name:                      raw.Name,
		Country:                   country,
		City:                      city,
		Website:                   website,
		Ranking:                   &ranking,
		AcceptanceRate:            &acceptance,
		InternationalStudentRatio: &international,
		ScholarshipsAvailable:     h%3 != 0,
		TuitionFee:                float64(p.Tuition + (h%30000 - 15000)),
		LivingCostPerYear:         float64(p.LivingCost + (h%8000 - 4000)),
		ApplicationFee:            &appFee,
		Description:               fmt.Sprintf("%s is a university located in %s. Visit their website for more information.", raw.Name, country),
		Programs:                  datatypes.JSONSlice[model.Program](generatePrograms(p, h)),
		Source:                    model.SourceDirectory,
		FetchedAt:                 &fetched,
	}
}

// generatePrograms offers bachelors and masters in 5 to 8 fields picked by
// the hash, an MBA pair for one in three names and PhDs for one in four.
func generatePrograms(p countryProfile, h int64) []model.Program {
	numFields := int(5 + h%4)
	shuffled := make([]studyField, len(studyFields))
	copy(shuffled, studyFields)
	sort.SliceStable(shuffled, func(i, j int) bool {
		return (h+int64(len(shuffled[i].Name)))%10 < (h+int64(len(shuffled[j].Name)))%10
	})
	offered := make(map[string]bool, numFields)
	for _, f := range shuffled[:numFields] {
		offered[f.Name] = true
	}

	type candidate struct {
		name, degree, duration string
		field                  studyField
	}
	var picked []candidate
	for _, f := range studyFields {
		if offered[f.Name] {
			picked = append(picked, candidate{"BS in " + f.Name, degreeBachelors, "4 years", f})
		}
	}
	for _, f := range studyFields {
		if offered[f.Name] {
			picked = append(picked, candidate{"MS in " + f.Name, degreeMasters, "2 years", f})
		}
	}
	if h%3 == 0 {
		business := studyField{"Business", mbaAliases}
		picked = append(picked,
			candidate{"MBA", degreeMBA, "2 years", business},
			candidate{"Executive MBA", degreeMBA, "1.5 years", business},
		)
	}
	if h%4 == 0 {
		for _, name := range phdFields {
			if offered[name] {
				picked = append(picked, candidate{"PhD in " + name, degreePhD, "4-5 years", fieldByName(name)})
			}
		}
	}

	programs := make([]model.Program, 0, len(picked))
	for i, c := range picked {
		step := float64((h + int64(i)) % 10)
		var multiplier, minGPA, ielts, toefl float64
		switch c.degree {
		case degreeBachelors:
			multiplier, minGPA, ielts, toefl = 0.9, 2.5+step/20, 6.0, 80
		case degreeMasters:
			multiplier, minGPA, ielts, toefl = 1.0, 3.0+step/20, 6.5, 90
		case degreeMBA:
			multiplier, minGPA, ielts, toefl = 1.5, 3.0+step/20, 7.0, 100
		case degreePhD:
			multiplier, minGPA, ielts, toefl = 0.3, 3.3+step/25, 7.0, 100
		}
		tuition := math.Floor(float64(p.Tuition)*multiplier + 0.5)
		minGPA = math.Floor(minGPA*10+0.5) / 10

		programs = append(programs, model.Program{
			Name:           c.name,
			Degree:         c.degree,
			Field:          c.field.Name,
			FieldAliases:   c.field.Aliases,
			Duration:       c.duration,
			TuitionPerYear: &tuition,
			Requirements: model.ProgramRequirements{
				MinGPA:       &minGPA,
				IELTSMin:     &ielts,
				TOEFLMin:     &toefl,
				GRERequired:  c.degree == degreeMasters || c.degree == degreePhD,
				GMATRequired: c.degree == degreeMBA,
			},
		})
	}
	return programs
}

func fieldByName(name string) studyField {
	for _, f := range studyFields {
		if f.Name == name {
			return f
		}
	}
	return studyField{Name: name}
}

func clamp(v, lo, hi int64) int64 {
	return max(lo, min(hi, v))
}

package service

import (
	"uniguide/backend/internal/country"
	"uniguide/backend/internal/directory"
	"uniguide/backend/internal/model"
)

type seedProgram struct {
	name, degree, field, duration string
	tuition                       float64
	minGPA, ielts, toefl          float64
	gre, gmat                     bool
}

type seedUniversity struct {
	name, country, city, website, description string
	ranking                                   int
	acceptance, intl                          float64
	living, appFee                            float64
	programs                                  []seedProgram
}

var builtinCatalog = []seedUniversity{
	{"Massachusetts Institute of Technology", "USA", "Cambridge, MA", "https://mit.edu",
		"World-renowned research university known for science and technology.", 1, 4, 30, 25000, 75,
		[]seedProgram{
			{"MS Computer Science", "masters", "Computer Science", "2 years", 57590, 3.7, 7.0, 100, true, false},
			{"MBA", "mba", "Business", "2 years", 82000, 3.5, 7.5, 109, false, true},
		}},
	{"Stanford University", "USA", "Stanford, CA", "https://stanford.edu",
		"Elite private research university in Silicon Valley.", 3, 4, 24, 28000, 90,
		[]seedProgram{{"MS Computer Science", "masters", "Computer Science", "2 years", 60000, 3.6, 7.0, 100, true, false}}},
	{"University of Toronto", "Canada", "Toronto, ON", "https://utoronto.ca",
		"Canada's top university with diverse programs.", 21, 43, 25, 15000, 125,
		[]seedProgram{
			{"MSc Computer Science", "masters", "Computer Science", "2 years", 45000, 3.3, 7.0, 93, false, false},
			{"MBA", "mba", "Business", "20 months", 65000, 3.0, 7.0, 100, false, true},
		}},
	{"University of British Columbia", "Canada", "Vancouver, BC", "https://ubc.ca",
		"Leading Canadian research university on the Pacific coast.", 35, 52, 28, 14000, 110,
		[]seedProgram{{"MSc Data Science", "masters", "Data Science", "2 years", 40000, 3.0, 6.5, 90, false, false}}},
	{"University of Oxford", "UK", "Oxford", "https://ox.ac.uk",
		"World's oldest English-speaking university.", 4, 17, 45, 18000, 75,
		[]seedProgram{{"MSc Computer Science", "masters", "Computer Science", "1 year", 35000, 3.5, 7.5, 110, false, false}}},
	{"Imperial College London", "UK", "London", "https://imperial.ac.uk",
		"World-class science, engineering, and medicine institution.", 6, 14, 60, 22000, 80,
		[]seedProgram{{"MSc Computing", "masters", "Computer Science", "1 year", 38000, 3.3, 7.0, 100, false, false}}},
	{"University of Melbourne", "Australia", "Melbourne", "https://unimelb.edu.au",
		"Australia's leading university with global reputation.", 33, 70, 45, 21000, 100,
		[]seedProgram{{"Master of IT", "masters", "Information Technology", "2 years", 45000, 3.0, 6.5, 79, false, false}}},
	{"Technical University of Munich", "Germany", "Munich", "https://tum.de",
		"Germany's top technical university with no tuition fees.", 50, 40, 35, 12000, 0,
		[]seedProgram{{"MSc Informatics", "masters", "Computer Science", "2 years", 300, 3.0, 6.5, 88, false, false}}},
	{"ETH Zurich", "Switzerland", "Zurich", "https://ethz.ch",
		"Europe's leading science and technology university.", 8, 27, 40, 24000, 150,
		[]seedProgram{{"MSc Computer Science", "masters", "Computer Science", "2 years", 1500, 3.5, 7.0, 100, true, false}}},
	{"National University of Singapore", "Singapore", "Singapore", "https://nus.edu.sg",
		"Asia's leading global university.", 11, 25, 38, 16000, 50,
		[]seedProgram{{"MSc Computer Science", "masters", "Computer Science", "1.5 years", 35000, 3.2, 6.5, 90, true, false}}},
	{"Arizona State University", "USA", "Tempe, AZ", "https://asu.edu",
		"Large public research university known for innovation.", 185, 88, 15, 15000, 70,
		[]seedProgram{{"MS Computer Science", "masters", "Computer Science", "2 years", 32000, 3.0, 6.5, 80, false, false}}},
	{"University of Waterloo", "Canada", "Waterloo, ON", "https://uwaterloo.ca",
		"Top Canadian university for engineering and co-op programs.", 112, 53, 22, 12000, 125,
		[]seedProgram{{"MMath Computer Science", "masters", "Computer Science", "2 years", 28000, 3.0, 7.0, 90, false, false}}},
}

// seedCatalog builds the built-in catalog. Ids use the same encoding as
// the live directory so a later sync updates these rows in place.
func seedCatalog() []model.University {
	out := make([]model.University, 0, len(builtinCatalog))
	for _, su := range builtinCatalog {
		countryName := country.Canonical(su.country)
		ranking, acceptance, intl, appFee := su.ranking, su.acceptance, su.intl, su.appFee

		programs := make([]model.Program, 0, len(su.programs))
		var tuitionSum float64
		for _, sp := range su.programs {
			tuition, minGPA, ielts, toefl := sp.tuition, sp.minGPA, sp.ielts, sp.toefl
			tuitionSum += tuition
			programs = append(programs, model.Program{
				Name:           sp.name,
				Degree:         sp.degree,
				Field:          sp.field,
				Duration:       sp.duration,
				TuitionPerYear: &tuition,
				Requirements: model.ProgramRequirements{
					MinGPA:       &minGPA,
					IELTSMin:     &ielts,
					TOEFLMin:     &toefl,
					GRERequired:  sp.gre,
					GMATRequired: sp.gmat,
				},
			})
		}

		out = append(out, model.University{
			UniversityID:              directory.UniversityID(su.name, countryName),
			Name:                      su.name,
			Country:                   countryName,
			City:                      su.city,
			Website:                   su.website,
			Ranking:                   &ranking,
			AcceptanceRate:            &acceptance,
			InternationalStudentRatio: &intl,
			ScholarshipsAvailable:     true,
			TuitionFee:                tuitionSum / float64(len(su.programs)),
			LivingCostPerYear:         su.living,
			ApplicationFee:            &appFee,
			Description:               su.description,
			Programs:                  programs,
			Source:                    model.SourceSeed,
		})
	}
	return out
}

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"uniguide/backend/config"
	"uniguide/backend/internal/directory"
	"uniguide/backend/internal/dto"
	"uniguide/backend/internal/model"
)

func setupRecommend(t *testing.T) (RecommendationService, *mocks, *mockDirectory, *model.Student) {
	t.Helper()
	repo, m := newMockRepository()
	dir := &mockDirectory{byCountry: map[string][]model.University{}}
	cfg := &config.RecommendConfig{
		PerCountryLimit:  10,
		Workers:          2,
		DefaultCountries: []string{"usa", "Canada"},
	}
	st := m.students.add(&model.Student{Email: "rec@example.com", GPA: f64(3.6)})
	return NewRecommendationService(cfg, repo, dir, zap.NewNop()), m, dir, st
}

func TestRecommend_DefaultCountries(t *testing.T) {
	svc, _, dir, st := setupRecommend(t)
	dir.byCountry["Canada"] = []model.University{
		testUniversity("ca-1", "Easy U", "Canada", 80, 15000, 2.8),
	}

	resp, err := svc.Recommend(context.Background(), st.StudentID, &dto.RecommendationRequest{})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if resp.Source != SourceLive {
		t.Errorf("live is the default source, got %q", resp.Source)
	}
	if len(resp.Countries) != 2 || resp.Countries[0] != "United States" {
		t.Errorf("expected canonical default countries, got %v", resp.Countries)
	}
	if dir.calls[0] != "for:United States,Canada" {
		t.Errorf("unexpected directory calls %v", dir.calls)
	}
	if resp.Total != 1 || len(resp.Dream)+len(resp.Target)+len(resp.Safe) != 1 {
		t.Errorf("expected one recommendation, got %+v", resp)
	}
}

func TestRecommend_PreferredCountriesWin(t *testing.T) {
	svc, m, dir, st := setupRecommend(t)
	m.students.students[st.StudentID].PreferredCountries = []string{" germany", "uk"}

	resp, err := svc.Recommend(context.Background(), st.StudentID, &dto.RecommendationRequest{Source: SourceLive})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if dir.calls[0] != "for:germany,United Kingdom" {
		t.Errorf("expected preferred country, got %v", dir.calls)
	}
	// nothing found is a valid empty answer
	if resp.Total != 0 {
		t.Errorf("expected empty result, got %d", resp.Total)
	}
}

func TestRecommend_DirectoryFailure(t *testing.T) {
	svc, _, dir, st := setupRecommend(t)
	dir.err = fmt.Errorf("%w: timeout", directory.ErrSourceUnavailable)

	_, err := svc.Recommend(context.Background(), st.StudentID, &dto.RecommendationRequest{})
	if !errors.Is(err, ErrExternalSource) {
		t.Fatalf("expected ErrExternalSource, got %v", err)
	}
}

func TestRecommend_CatalogSourceSkipsInvalid(t *testing.T) {
	svc, m, dir, st := setupRecommend(t)
	good := testUniversity("us-1", "Good U", "United States", 30, 30000, 3.0)
	bad := testUniversity("us-2", "Bad U", "United States", 30, 30000, 3.0)
	bad.AcceptanceRate = f64(140)
	other := testUniversity("fr-1", "Paris U", "France", 30, 5000, 3.0)
	for _, u := range []model.University{good, bad, other} {
		m.unis.unis[u.UniversityID] = u
	}

	resp, err := svc.Recommend(context.Background(), st.StudentID, &dto.RecommendationRequest{Source: SourceCatalog})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(dir.calls) != 0 {
		t.Errorf("catalog source must not hit the directory, got %v", dir.calls)
	}
	if resp.Total != 1 || resp.Skipped != 1 {
		t.Errorf("expected 1 scored and 1 skipped, got total=%d skipped=%d", resp.Total, resp.Skipped)
	}
}

func TestRecommend_UnknownStudent(t *testing.T) {
	svc, _, _, _ := setupRecommend(t)
	_, err := svc.Recommend(context.Background(), "ghost", &dto.RecommendationRequest{})
	if !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("expected ErrStudentNotFound, got %v", err)
	}
}

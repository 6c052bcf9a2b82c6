package service

import (
	"context"

	"go.uber.org/zap"

	"uniguide/backend/config"
	"uniguide/backend/internal/country"
	"uniguide/backend/internal/directory"
	"uniguide/backend/internal/dto"
	"uniguide/backend/internal/model"
	"uniguide/backend/internal/repository"
	"uniguide/backend/internal/scoring"
)

// Recommendation sources.
const (
	SourceLive    = "live"
	SourceCatalog = "catalog"
)

// RecommendationService scores universities of the preferred countries
// against the student profile.
type RecommendationService interface {
	Recommend(ctx context.Context, studentID string, req *dto.RecommendationRequest) (*dto.RecommendationResponse, error)
}

type recommendationService struct {
	cfg    *config.RecommendConfig
	repo   *repository.Repository
	dir    directory.Client
	logger *zap.Logger
}

// NewRecommendationService creates a RecommendationService.
func NewRecommendationService(cfg *config.RecommendConfig, repo *repository.Repository, dir directory.Client, logger *zap.Logger) RecommendationService {
	return &recommendationService{cfg: cfg, repo: repo, dir: dir, logger: logger}
}

func (s *recommendationService) Recommend(ctx context.Context, studentID string, req *dto.RecommendationRequest) (*dto.RecommendationResponse, error) {
	student, err := loadStudent(ctx, s.repo, studentID)
	if err != nil {
		return nil, err
	}
	if err := scoring.ValidateProfile(student); err != nil {
		return nil, err
	}

	countries := country.CanonicalAll(student.PreferredCountries)
	if len(countries) == 0 {
		countries = country.CanonicalAll(s.cfg.DefaultCountries)
	}

	source := req.Source
	if source == "" {
		source = SourceLive
	}

	batch, err := s.load(ctx, source, countries)
	if err != nil {
		return nil, err
	}

	recs, err := scoring.Recommend(ctx, student, batch, scoring.Options{
		BucketLimit: s.cfg.BucketLimit,
		Workers:     s.cfg.Workers,
	})
	if err != nil {
		return nil, err
	}

	if recs.Skipped > 0 {
		s.logger.Warn("invalid university records skipped",
			zap.String("source", source),
			zap.Int("skipped", recs.Skipped),
		)
	}

	return &dto.RecommendationResponse{
		Source:    source,
		Countries: countries,
		Dream:     recs.Dream,
		Target:    recs.Target,
		Safe:      recs.Safe,
		Total:     recs.Total,
		Skipped:   recs.Skipped,
	}, nil
}

func (s *recommendationService) load(ctx context.Context, source string, countries []string) ([]model.University, error) {
	if source == SourceCatalog {
		unis, err := s.repo.University.List(ctx, repository.UniversityQuery{Countries: countries})
		if err != nil {
			s.logger.Error("load catalog failed", zap.Error(err))
			return nil, err
		}
		return unis, nil
	}

	unis, err := s.dir.ForCountries(ctx, countries, s.cfg.PerCountryLimit)
	if err != nil {
		s.logger.Warn("directory unavailable for recommendations",
			zap.Strings("countries", countries),
			zap.Error(err),
		)
		return nil, mapDirectoryErr(err)
	}
	return unis, nil
}

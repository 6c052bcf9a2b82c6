package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"uniguide/backend/config"
	"uniguide/backend/internal/country"
	"uniguide/backend/internal/directory"
	"uniguide/backend/internal/dto"
	"uniguide/backend/internal/model"
	"uniguide/backend/internal/repository"
	"uniguide/backend/internal/scoring"
)

var (
	ErrUniversityNotFound  = errors.New("university not found")
	ErrInvalidUniversityID = errors.New("invalid university id")
	// ErrExternalSource the live directory failed; retryable and distinct
	// from an empty result.
	ErrExternalSource = errors.New("university directory unavailable")
)

const defaultSearchLimit = 20

// UniversityService stored catalog and live directory access.
type UniversityService interface {
	List(ctx context.Context, req *dto.UniversityListRequest) (*dto.UniversityListResponse, error)
	Get(ctx context.Context, id string) (*model.University, error)
	Search(ctx context.Context, req *dto.SearchRequest) ([]model.University, error)
	// Seed inserts the built-in catalog; records already stored are kept.
	Seed(ctx context.Context) (*dto.SeedResponse, error)
	// Sync pulls countries from the directory and upserts them by id.
	Sync(ctx context.Context, countries []string) (*dto.SyncResponse, error)

	LiveByCountry(ctx context.Context, countryName string, limit int) ([]model.University, error)
	LiveSearch(ctx context.Context, query string) ([]model.University, error)
	LiveGet(ctx context.Context, id string) (*model.University, error)
}

type universityService struct {
	cfg    *config.Config
	repo   *repository.Repository
	dir    directory.Client
	logger *zap.Logger
}

// NewUniversityService creates a UniversityService.
func NewUniversityService(cfg *config.Config, repo *repository.Repository, dir directory.Client, logger *zap.Logger) UniversityService {
	return &universityService{cfg: cfg, repo: repo, dir: dir, logger: logger}
}

// ── catalog ──

func (s *universityService) List(ctx context.Context, req *dto.UniversityListRequest) (*dto.UniversityListResponse, error) {
	unis, err := s.repo.University.List(ctx, repository.UniversityQuery{
		Countries:  country.CanonicalAll(req.Countries),
		MaxTuition: req.MaxTuition,
	})
	if err != nil {
		s.logger.Error("list universities failed", zap.Error(err))
		return nil, err
	}

	filtered := make([]model.University, 0, len(unis))
	for _, u := range unis {
		if offersProgram(u, req.Degree, req.Field) {
			filtered = append(filtered, u)
		}
	}

	page, size := req.GetPage(), req.GetPageSize()
	start := min(req.GetOffset(), len(filtered))
	end := min(start+size, len(filtered))

	return &dto.UniversityListResponse{
		Items:    filtered[start:end],
		Total:    len(filtered),
		Page:     page,
		PageSize: size,
	}, nil
}

func (s *universityService) Get(ctx context.Context, id string) (*model.University, error) {
	u, err := s.repo.University.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUniversityNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *universityService) Search(ctx context.Context, req *dto.SearchRequest) ([]model.University, error) {
	query := strings.TrimSpace(req.Query)
	if len([]rune(query)) < 2 {
		return []model.University{}, nil
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	unis, err := s.repo.University.SearchByName(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if unis == nil {
		unis = []model.University{}
	}
	return unis, nil
}

func (s *universityService) Seed(ctx context.Context) (*dto.SeedResponse, error) {
	inserted, err := s.repo.University.InsertMissing(ctx, seedCatalog())
	if err != nil {
		s.logger.Error("seed catalog failed", zap.Error(err))
		return nil, err
	}
	total, err := s.repo.University.Count(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("catalog seeded", zap.Int64("inserted", inserted), zap.Int64("total", total))
	return &dto.SeedResponse{Inserted: inserted, Total: total}, nil
}

func (s *universityService) Sync(ctx context.Context, countries []string) (*dto.SyncResponse, error) {
	countries = country.CanonicalAll(countries)
	if len(countries) == 0 {
		countries = country.CanonicalAll(s.cfg.Catalog.SyncCountries)
	}

	fetched, err := s.dir.ForCountries(ctx, countries, s.cfg.Directory.MaxPerCountry)
	if err != nil {
		return nil, mapDirectoryErr(err)
	}

	valid := make([]model.University, 0, len(fetched))
	for i := range fetched {
		if scoring.ValidateUniversity(&fetched[i]) == nil {
			valid = append(valid, fetched[i])
		}
	}

	upserted, err := s.repo.University.Upsert(ctx, valid)
	if err != nil {
		s.logger.Error("upsert synced universities failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("catalog synced",
		zap.Strings("countries", countries),
		zap.Int("fetched", len(fetched)),
		zap.Int64("upserted", upserted),
	)
	return &dto.SyncResponse{
		Countries: countries,
		Fetched:   len(fetched),
		Upserted:  upserted,
		Skipped:   len(fetched) - len(valid),
	}, nil
}

// ── live directory ──

func (s *universityService) LiveByCountry(ctx context.Context, countryName string, limit int) ([]model.University, error) {
	unis, err := s.dir.ByCountry(ctx, countryName)
	if err != nil {
		return nil, mapDirectoryErr(err)
	}
	if limit > 0 && len(unis) > limit {
		unis = unis[:limit]
	}
	return unis, nil
}

func (s *universityService) LiveSearch(ctx context.Context, query string) ([]model.University, error) {
	unis, err := s.dir.Search(ctx, query)
	if err != nil {
		return nil, mapDirectoryErr(err)
	}
	return unis, nil
}

func (s *universityService) LiveGet(ctx context.Context, id string) (*model.University, error) {
	name, countryName, ok := directory.DecodeUniversityID(id)
	if !ok {
		return nil, ErrInvalidUniversityID
	}
	u, err := s.dir.Lookup(ctx, name, countryName)
	if err != nil {
		return nil, mapDirectoryErr(err)
	}
	return u, nil
}

// mapDirectoryErr translates directory failures into service errors.
func mapDirectoryErr(err error) error {
	switch {
	case errors.Is(err, directory.ErrNotFound):
		return ErrUniversityNotFound
	case errors.Is(err, directory.ErrSourceUnavailable):
		return fmt.Errorf("%w: %v", ErrExternalSource, err)
	default:
		return err
	}
}

// offersProgram reports whether u has a program matching degree (normalized)
// and field (case-insensitive substring of the field or an alias).
// Empty filters match everything.
func offersProgram(u model.University, degree, field string) bool {
	degree = scoring.NormalizeDegree(degree)
	field = strings.ToLower(strings.TrimSpace(field))
	if degree == "" && field == "" {
		return true
	}
	for _, p := range u.Programs {
		if degree != "" && scoring.NormalizeDegree(p.Degree) != degree {
			continue
		}
		if field == "" || fieldMatches(p, field) {
			return true
		}
	}
	return false
}

func fieldMatches(p model.Program, field string) bool {
	if strings.Contains(strings.ToLower(p.Field), field) {
		return true
	}
	for _, alias := range p.FieldAliases {
		if strings.Contains(strings.ToLower(alias), field) {
			return true
		}
	}
	return false
}

package service

import (
	"go.uber.org/zap"

	"uniguide/backend/config"
	"uniguide/backend/internal/directory"
	"uniguide/backend/internal/repository"
	"uniguide/backend/pkg/jwt"
)

// Service aggregates every service.
type Service struct {
	Auth           AuthService
	Profile        ProfileService
	University     UniversityService
	Recommendation RecommendationService
	Selection      SelectionService
	Task           TaskService
	Export         ExportService
}

// NewService wires the services. blacklist and events may be nil when
// Redis or Kafka are not configured.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	dir directory.Client,
	blacklist TokenBlacklist,
	events EventPublisher,
	logger *zap.Logger,
) *Service {
	generator := NewTaskGenerator(logger)
	return &Service{
		Auth:           NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		Profile:        NewProfileService(repo, logger),
		University:     NewUniversityService(cfg, repo, dir, logger),
		Recommendation: NewRecommendationService(&cfg.Recommend, repo, dir, logger),
		Selection:      NewSelectionService(repo, generator, events, logger),
		Task:           NewTaskService(repo, generator, logger),
		Export:         NewExportService(repo, logger),
	}
}

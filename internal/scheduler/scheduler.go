// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"uniguide/backend/internal/dto"
)

const defaultSyncTimeout = 5 * time.Minute

// CatalogSyncer pulls the configured countries into the stored catalog.
type CatalogSyncer interface {
	Sync(ctx context.Context, countries []string) (*dto.SyncResponse, error)
}

// Scheduler wraps a cron instance. Overlapping runs of a job are skipped.
type Scheduler struct {
	cron    *cron.Cron
	syncer  CatalogSyncer
	timeout time.Duration
	logger  *zap.Logger
}

// New registers the catalog sync under spec (standard 5-field cron syntax
// or descriptors like "@daily").
func New(spec string, syncer CatalogSyncer, logger *zap.Logger) (*Scheduler, error) {
	cl := cronLogger{logger.Sugar()}
	s := &Scheduler{
		cron:    cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		syncer:  syncer,
		timeout: defaultSyncTimeout,
		logger:  logger,
	}
	if _, err := s.cron.AddFunc(spec, s.syncCatalog); err != nil {
		return nil, fmt.Errorf("schedule catalog sync %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop stops scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}

func (s *Scheduler) syncCatalog() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	res, err := s.syncer.Sync(ctx, nil)
	if err != nil {
		s.logger.Error("scheduled catalog sync failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled catalog sync done",
		zap.Int("fetched", res.Fetched),
		zap.Int64("upserted", res.Upserted),
		zap.Int("skipped", res.Skipped),
		zap.Duration("took", time.Since(start)),
	)
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

package app

import (
	"context"
	"fmt"

	"github.com/hostelhub/hostel-api/internal/projection"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SnapshotSource produces the platform metrics the scheduler records
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*projection.Dashboard, error)
}

// Scheduler runs background jobs on cron specs
type Scheduler struct {
	cron    *cron.Cron
	metrics SnapshotSource
	logger  *zap.Logger
}

// NewScheduler registers the metrics snapshot job on spec, e.g. "@hourly"
func NewScheduler(ctx context.Context, spec string, metrics SnapshotSource, logger *zap.Logger) (*Scheduler, error) {
	cronLogger := cron.VerbosePrintfLogger(zap.NewStdLog(logger))

	s := &Scheduler{
		cron:    cron.New(cron.WithLogger(cronLogger), cron.WithChain(cron.Recover(cronLogger))),
		metrics: metrics,
		logger:  logger,
	}

	if _, err := s.cron.AddFunc(spec, func() { s.snapshot(ctx) }); err != nil {
		return nil, fmt.Errorf("schedule metrics snapshot %q: %w", spec, err)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.logger.Info("Starting background scheduler", zap.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
}

// Stop waits for running jobs to finish
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) snapshot(ctx context.Context) {
	d, err := s.metrics.Snapshot(ctx)
	if err != nil {
		s.logger.Error("Failed to take metrics snapshot", zap.Error(err))
		return
	}

	s.logger.Info("Metrics snapshot",
		zap.Int("total_users", d.TotalUsers),
		zap.Int("total_hostels", d.TotalHostels),
		zap.Int("pending_verifications", d.PendingVerifications),
		zap.Int("total_bookings", d.TotalBookings),
		zap.Int("open_reports", d.OpenReports),
	)
}

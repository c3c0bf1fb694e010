package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/flock/internal/config"
	"github.com/mamadbah2/flock/internal/domain/models"
	"github.com/mamadbah2/flock/internal/repository/sheets"
	"github.com/mamadbah2/flock/internal/service/finance"
)

// GeneratedBy stamps snapshots produced by the scheduler.
const GeneratedBy = "scheduler"

// SnapshotTaker persists an overview snapshot for a date range.
type SnapshotTaker interface {
	SaveSnapshot(ctx context.Context, window finance.Window, generatedBy string) (models.ReportSnapshot, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron       *cron.Cron
	reporting  SnapshotTaker
	exporter   sheets.Exporter
	schedule   string
	window     finance.Window
	sheetRange string
	logger     *zap.Logger
}

// NewScheduler creates a new scheduler instance. exporter may be nil, in which
// case snapshots are only persisted.
func NewScheduler(cfg config.Config, reporting SnapshotTaker, exporter sheets.Exporter, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := cfg.Reporting.Location()
	if err != nil {
		return nil, fmt.Errorf("load scheduler timezone: %w", err)
	}
	window, err := finance.ParseWindow(cfg.Reporting.DateRange)
	if err != nil {
		return nil, fmt.Errorf("scheduler date range: %w", err)
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(loc)),
		reporting:  reporting,
		exporter:   exporter,
		schedule:   cfg.Reporting.CronSchedule,
		window:     window,
		sheetRange: cfg.Sheets.Range,
		logger:     logger.Named("scheduler"),
	}, nil
}

// Start registers the snapshot job and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule), zap.String("date_range", string(s.window)))

	if _, err := s.cron.AddFunc(s.schedule, s.takeSnapshot); err != nil {
		return fmt.Errorf("schedule report snapshot %q: %w", s.schedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// RunOnce builds and stores one snapshot, then appends it to the sheet when
// export is configured.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	snapshot, err := s.reporting.SaveSnapshot(ctx, s.window, GeneratedBy)
	if err != nil {
		return fmt.Errorf("save scheduled snapshot: %w", err)
	}

	if s.exporter == nil {
		return nil
	}
	if _, err := s.exporter.AppendRows(ctx, s.sheetRange, []models.Row{snapshot.Row}); err != nil {
		return fmt.Errorf("export scheduled snapshot: %w", err)
	}
	return nil
}

func (s *Scheduler) takeSnapshot() {
	s.logger.Info("generating report snapshot")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error("report snapshot failed", zap.Error(err))
		return
	}
	s.logger.Info("report snapshot completed")
}

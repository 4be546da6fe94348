package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/dinopark/internal/config"
	"github.com/mamadbah2/dinopark/internal/domain/models"
)

const reportTimeout = 2 * time.Minute

// ReportPublisher builds and stores the daily park report.
type ReportPublisher interface {
	PublishDailyReport(ctx context.Context) (string, error)
}

// Notifier delivers the report summary to the park manager.
type Notifier interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	reporting ReportPublisher
	notifier  Notifier
	managerID string
	logger    *zap.Logger
}

// NewScheduler registers the daily report job on cfg.Reporting.CronSchedule,
// evaluated in cfg.Reporting.Timezone. notifier may be nil, in which case the
// report is only stored.
func NewScheduler(cfg config.Config, reporting ReportPublisher, notifier Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Reporting.Timezone, err)
	}

	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		reporting: reporting,
		notifier:  notifier,
		managerID: cfg.WhatsApp.ManagerID,
		logger:    logger,
	}

	if _, err := s.cron.AddFunc(cfg.Reporting.CronSchedule, s.RunDailyReport); err != nil {
		return nil, fmt.Errorf("schedule daily report %q: %w", cfg.Reporting.CronSchedule, err)
	}

	return s, nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// RunDailyReport publishes the park report and forwards it to the manager.
func (s *Scheduler) RunDailyReport() {
	s.logger.Info("generating daily report")
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	summary, err := s.reporting.PublishDailyReport(ctx)
	if err != nil {
		s.logger.Error("failed to publish daily report", zap.Error(err))
		return
	}

	if s.notifier == nil || s.managerID == "" {
		s.logger.Debug("messaging disabled, daily report not sent")
		return
	}

	req := models.OutboundMessageRequest{To: s.managerID, Message: summary}
	if err := s.notifier.SendOutbound(ctx, req); err != nil {
		s.logger.Error("failed to send daily report", zap.Error(err))
		return
	}
	s.logger.Info("daily report sent successfully")
}

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ReportWorker periodically builds last month's report for every active owner
type ReportWorker struct {
	reportService *ReportService
	ownerRepo     domain.OwnerRepository
	logger        zerolog.Logger
	cronExpr      string
	schedule      cron.Schedule
	runOnStart    bool
	cron          *cron.Cron
	now           func() time.Time
	mu            sync.Mutex
	running       bool
}

// ReportWorkerConfig holds configuration for the report worker
type ReportWorkerConfig struct {
	Schedule   string // Standard five-field cron expression
	RunOnStart bool   // Warm the previous month immediately on Start
}

// WarmResult counts the outcome of one warm run
type WarmResult struct {
	Period domain.Period
	Owners int
	Built  int
	Errors int
}

// DefaultReportWorkerConfig returns sensible defaults
func DefaultReportWorkerConfig() ReportWorkerConfig {
	return ReportWorkerConfig{
		Schedule: "0 3 1 * *", // 03:00 on the first of every month
	}
}

// NewReportWorker creates a new report worker
func NewReportWorker(
	reportService *ReportService,
	ownerRepo domain.OwnerRepository,
	logger zerolog.Logger,
	config ReportWorkerConfig,
) (*ReportWorker, error) {
	if config.Schedule == "" {
		config.Schedule = DefaultReportWorkerConfig().Schedule
	}
	schedule, err := cron.ParseStandard(config.Schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid report schedule %q: %w", config.Schedule, err)
	}

	return &ReportWorker{
		reportService: reportService,
		ownerRepo:     ownerRepo,
		logger:        logger.With().Str("component", "report_worker").Logger(),
		cronExpr:      config.Schedule,
		schedule:      schedule,
		runOnStart:    config.RunOnStart,
		now:           time.Now,
	}, nil
}

// Start schedules the warm runs
func (w *ReportWorker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}

	w.cron = cron.New()
	w.cron.Schedule(w.schedule, cron.FuncJob(func() {
		if _, err := w.WarmPreviousPeriod(ctx); err != nil {
			w.logger.Error().Err(err).Msg("Scheduled report warm failed")
		}
	}))
	w.cron.Start()
	w.running = true

	w.logger.Info().
		Str("schedule", w.cronExpr).
		Time("next_run", w.schedule.Next(w.now())).
		Msg("Starting report worker")

	if w.runOnStart {
		go func() {
			if _, err := w.WarmPreviousPeriod(ctx); err != nil {
				w.logger.Error().Err(err).Msg("Initial report warm failed")
			}
		}()
	}
}

// Stop waits for a running job to finish and stops the schedule
func (w *ReportWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	c := w.cron
	w.running = false
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping report worker")
	<-c.Stop().Done()
	w.logger.Info().Msg("Report worker stopped")
}

// IsRunning returns whether the worker is currently scheduled
func (w *ReportWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// WarmPreviousPeriod builds the reports of the month before now
func (w *ReportWorker) WarmPreviousPeriod(ctx context.Context) (*WarmResult, error) {
	return w.WarmPeriod(ctx, domain.PeriodOf(w.now()).Previous())
}

// WarmPeriod builds the period's report for every owner with ledger activity.
// Existing reports are left untouched; per-owner failures are logged and counted.
func (w *ReportWorker) WarmPeriod(ctx context.Context, period domain.Period) (*WarmResult, error) {
	startTime := time.Now()

	owners, err := w.ownerRepo.ListActive(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list active owners: %w", err)
	}

	result := &WarmResult{Period: period, Owners: len(owners)}
	for _, ownerID := range owners {
		if ctx.Err() != nil {
			w.logger.Info().Msg("Context cancelled, stopping warm run")
			return result, ctx.Err()
		}

		if _, err := w.reportService.GetOrBuildReport(ctx, ownerID, period); err != nil {
			w.logger.Error().
				Err(err).
				Str("owner_id", ownerID.String()).
				Str("period", period.String()).
				Msg("Failed to build report for owner")
			result.Errors++
			continue
		}
		result.Built++
	}

	w.logger.Info().
		Str("period", period.String()).
		Int("owners", result.Owners).
		Int("built", result.Built).
		Int("errors", result.Errors).
		Dur("elapsed", time.Since(startTime)).
		Msg("Completed report warm run")

	return result, nil
}

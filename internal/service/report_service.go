package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"sync/atomic"
	"time"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/advice"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/metrics"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Cache lifetimes used when none are configured
const (
	DefaultTrendCacheTTL           = 5 * time.Minute
	DefaultHistoricalTrendCacheTTL = 15 * time.Minute
	DefaultArchiveURLExpiry        = 15 * time.Minute
)

const reportContentType = "application/json"

var hundred = decimal.NewFromInt(100)

// InvestmentAdvisor produces investment suggestions for a balance
type InvestmentAdvisor interface {
	InvestmentAdvice(ctx context.Context, balance decimal.Decimal, risk domain.RiskProfile, patterns []domain.CategoryAmount) (advice.Advice, error)
}

// ReportService aggregates ledger data into summaries, trends and monthly reports
type ReportService struct {
	incomeRepo  domain.IncomeRepository
	expenseRepo domain.ExpenseRepository
	budgetRepo  domain.BudgetRepository
	reportRepo  domain.ReportRepository
	advisor     InvestmentAdvisor

	trendCache    domain.TrendCache
	trendTTL      time.Duration
	historicalTTL time.Duration

	archive       domain.ReportArchive
	archiveExpiry time.Duration

	eventPublisher websocket.EventPublisher
}

// NewReportService creates a new ReportService
func NewReportService(
	incomeRepo domain.IncomeRepository,
	expenseRepo domain.ExpenseRepository,
	budgetRepo domain.BudgetRepository,
	reportRepo domain.ReportRepository,
	advisor InvestmentAdvisor,
) *ReportService {
	return &ReportService{
		incomeRepo:    incomeRepo,
		expenseRepo:   expenseRepo,
		budgetRepo:    budgetRepo,
		reportRepo:    reportRepo,
		advisor:       advisor,
		trendTTL:      DefaultTrendCacheTTL,
		historicalTTL: DefaultHistoricalTrendCacheTTL,
		archiveExpiry: DefaultArchiveURLExpiry,
	}
}

// SetTrendCache enables read-through caching of trend series.
// Series anchored in a past month use historicalTTL. Entries are never
// invalidated, so ledger writes show up once the entry expires.
func (s *ReportService) SetTrendCache(cache domain.TrendCache, ttl, historicalTTL time.Duration) {
	s.trendCache = cache
	if ttl > 0 {
		s.trendTTL = ttl
	}
	if historicalTTL > 0 {
		s.historicalTTL = historicalTTL
	}
}

// SetArchive enables report archiving to object storage
func (s *ReportService) SetArchive(archive domain.ReportArchive, urlExpiry time.Duration) {
	s.archive = archive
	if urlExpiry > 0 {
		s.archiveExpiry = urlExpiry
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ReportService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes an event if a publisher is configured
func (s *ReportService) publishEvent(ownerID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(ownerID, event)
	}
}

// TrendPoints lazily yields one point per month for the window ending at anchor,
// oldest first. Iteration stops at the first repository error.
// The sequence is single-use: ranging over it again yields only
// domain.ErrSequenceConsumed. Call TrendPoints again for a fresh read.
func (s *ReportService) TrendPoints(ctx context.Context, ownerID uuid.UUID, anchor domain.Period, window int) iter.Seq2[domain.TrendPoint, error] {
	var used atomic.Bool
	return func(yield func(domain.TrendPoint, error) bool) {
		if !used.CompareAndSwap(false, true) {
			yield(domain.TrendPoint{}, domain.ErrSequenceConsumed)
			return
		}
		if err := validateWindow(window); err != nil {
			yield(domain.TrendPoint{}, err)
			return
		}
		for i := window - 1; i >= 0; i-- {
			point, err := s.trendPoint(ctx, ownerID, anchor.AddMonths(-i))
			if !yield(point, err) || err != nil {
				return
			}
		}
	}
}

func (s *ReportService) trendPoint(ctx context.Context, ownerID uuid.UUID, period domain.Period) (domain.TrendPoint, error) {
	income, err := s.periodIncome(ctx, ownerID, period)
	if err != nil {
		return domain.TrendPoint{}, err
	}
	expenses, err := s.expenseRepo.ListByPeriod(ctx, ownerID, period)
	if err != nil {
		return domain.TrendPoint{}, err
	}

	total := metrics.PeriodExpenseTotal(expenses, period)
	savings := metrics.Remaining(income, total)

	point := domain.TrendPoint{
		Period:   period,
		Label:    period.Label(),
		Income:   income,
		Expenses: total,
		Savings:  savings,
	}
	if income.IsPositive() {
		percent := savings.Mul(hundred).Div(income).Round(1)
		point.SavingsPercent = &percent
	}
	return point, nil
}

// BuildTrendSeries materializes TrendPoints and adds window totals.
// A window of 0 yields an empty series.
func (s *ReportService) BuildTrendSeries(ctx context.Context, ownerID uuid.UUID, anchor domain.Period, window int) (*domain.TrendSeries, error) {
	if err := validatePeriod(anchor); err != nil {
		return nil, err
	}
	if err := validateWindow(window); err != nil {
		return nil, err
	}

	key := domain.TrendCacheKey(ownerID, anchor, window)
	if s.trendCache != nil {
		if cached, ok := s.trendCache.Get(ctx, key); ok {
			return cached, nil
		}
	}

	series := &domain.TrendSeries{
		Anchor:         anchor,
		Window:         window,
		Points:         make([]domain.TrendPoint, 0, window),
		TotalIncome:    decimal.Zero,
		TotalExpenses:  decimal.Zero,
		SavingsRate:    decimal.Zero,
		AverageExpense: decimal.Zero,
	}
	for point, err := range s.TrendPoints(ctx, ownerID, anchor, window) {
		if err != nil {
			return nil, err
		}
		series.Points = append(series.Points, point)
		series.TotalIncome = series.TotalIncome.Add(point.Income)
		series.TotalExpenses = series.TotalExpenses.Add(point.Expenses)
	}

	if series.TotalIncome.IsPositive() {
		series.SavingsRate = metrics.SavingsRate(series.TotalIncome, series.TotalExpenses).Round(1)
	}
	if window > 0 {
		series.AverageExpense = series.TotalExpenses.Div(decimal.NewFromInt(int64(window))).Round(2)
	}

	if s.trendCache != nil {
		ttl := s.trendTTL
		if anchor.IsHistorical() {
			ttl = s.historicalTTL
		}
		s.trendCache.Set(ctx, key, series, ttl)
	}
	return series, nil
}

// BuildPeriodSummary derives totals, category breakdown and budget status for one period
func (s *ReportService) BuildPeriodSummary(ctx context.Context, ownerID uuid.UUID, period domain.Period) (*domain.PeriodSummary, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	income, err := s.periodIncome(ctx, ownerID, period)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.ListByPeriod(ctx, ownerID, period)
	if err != nil {
		return nil, err
	}
	budgets, err := s.budgetRepo.ListByPeriod(ctx, ownerID, period)
	if err != nil {
		return nil, err
	}

	total := metrics.PeriodExpenseTotal(expenses, period)
	status := metrics.BudgetStatus(budgets, expenses)
	for i := range status {
		status[i].Percentage = status[i].Percentage.Round(2)
	}

	return &domain.PeriodSummary{
		Period:            period,
		TotalIncome:       income,
		TotalExpenses:     total,
		Remaining:         metrics.Remaining(income, total),
		SavingsRate:       metrics.SavingsRate(income, total).Round(2),
		CategoryBreakdown: metrics.CategoryBreakdown(expenses),
		BudgetStatus:      status,
	}, nil
}

// GetOrBuildReport returns the stored report for a period, creating it on first request.
// When a concurrent request wins the insert, its report is returned instead.
func (s *ReportService) GetOrBuildReport(ctx context.Context, ownerID uuid.UUID, period domain.Period) (*domain.MonthlyReport, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	existing, err := s.reportRepo.GetByPeriod(ctx, ownerID, period)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrReportNotFound) {
		return nil, err
	}

	summary, err := s.BuildPeriodSummary(ctx, ownerID, period)
	if err != nil {
		return nil, err
	}

	balance := decimal.Max(summary.Remaining, decimal.Zero)
	suggestion, err := s.advisor.InvestmentAdvice(ctx, balance, domain.DefaultRiskProfile, summary.CategoryBreakdown)
	if err != nil {
		return nil, err
	}

	created, err := s.reportRepo.Create(ctx, &domain.MonthlyReport{
		OwnerID:       ownerID,
		PeriodSummary: *summary,
		AdviceText:    suggestion.Text,
		AdviceSource:  suggestion.Source,
	})
	if err != nil {
		if errors.Is(err, domain.ErrReportAlreadyExists) {
			// Lost the race, the winner's row is authoritative
			return s.reportRepo.GetByPeriod(ctx, ownerID, period)
		}
		return nil, err
	}

	log.Info().
		Str("owner_id", ownerID.String()).
		Str("period", period.String()).
		Str("advice_source", created.AdviceSource).
		Msg("Monthly report created")

	s.publishEvent(ownerID, websocket.ReportCreated(created))
	return created, nil
}

// ArchiveReport uploads the period's report as JSON and returns a temporary download URL
func (s *ReportService) ArchiveReport(ctx context.Context, ownerID uuid.UUID, period domain.Period) (*domain.ArchivedReport, error) {
	if s.archive == nil {
		return nil, domain.ErrArchiveDisabled
	}

	report, err := s.GetOrBuildReport(ctx, ownerID, period)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	key := domain.ReportArchiveKey(ownerID, period)
	if err := s.archive.Upload(ctx, key, data, reportContentType); err != nil {
		return nil, fmt.Errorf("failed to upload report: %w", err)
	}

	url, err := s.archive.PresignedURL(ctx, key, s.archiveExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign report url: %w", err)
	}

	archived := &domain.ArchivedReport{
		Period:    period,
		Key:       key,
		URL:       url,
		ExpiresAt: time.Now().Add(s.archiveExpiry).UTC(),
	}
	s.publishEvent(ownerID, websocket.ReportArchived(archived))
	return archived, nil
}

// periodIncome returns the recorded income, or zero when none exists
func (s *ReportService) periodIncome(ctx context.Context, ownerID uuid.UUID, period domain.Period) (decimal.Decimal, error) {
	income, err := s.incomeRepo.GetByPeriod(ctx, ownerID, period)
	if err != nil {
		if errors.Is(err, domain.ErrIncomeNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return income.Amount, nil
}

func validatePeriod(period domain.Period) error {
	_, err := domain.NewPeriod(period.Year, period.Month)
	return err
}

func validateWindow(window int) error {
	if window < 0 || window > domain.MaxWindow {
		return domain.ErrInvalidWindow
	}
	return nil
}

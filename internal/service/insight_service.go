package service

import (
	"context"
	"errors"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/advice"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/metrics"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AdviceGenerator produces investment and health advice
type AdviceGenerator interface {
	InvestmentAdvisor
	HealthNarrative(ctx context.Context, income, expenses decimal.Decimal) (advice.Advice, error)
}

// InsightService generates and records advice for an owner's month
type InsightService struct {
	incomeRepo     domain.IncomeRepository
	expenseRepo    domain.ExpenseRepository
	adviceRepo     domain.AdviceRepository
	advisor        AdviceGenerator
	healthFloor    int
	eventPublisher websocket.EventPublisher
}

// NewInsightService creates a new InsightService.
// healthFloor is the lowest health score stored on advice records.
func NewInsightService(
	incomeRepo domain.IncomeRepository,
	expenseRepo domain.ExpenseRepository,
	adviceRepo domain.AdviceRepository,
	advisor AdviceGenerator,
	healthFloor int,
) *InsightService {
	return &InsightService{
		incomeRepo:  incomeRepo,
		expenseRepo: expenseRepo,
		adviceRepo:  adviceRepo,
		advisor:     advisor,
		healthFloor: healthFloor,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *InsightService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// GenerateInsights produces investment suggestions and a health narrative for
// a period and appends an advice record. An empty risk profile means Moderate.
func (s *InsightService) GenerateInsights(ctx context.Context, ownerID uuid.UUID, period domain.Period, risk domain.RiskProfile) (*domain.Insight, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	risk, err := domain.ParseRiskProfile(string(risk))
	if err != nil {
		return nil, err
	}

	income := decimal.Zero
	record, err := s.incomeRepo.GetByPeriod(ctx, ownerID, period)
	switch {
	case err == nil:
		income = record.Amount
	case !errors.Is(err, domain.ErrIncomeNotFound):
		return nil, err
	}

	expenses, err := s.expenseRepo.ListByPeriod(ctx, ownerID, period)
	if err != nil {
		return nil, err
	}
	total := metrics.PeriodExpenseTotal(expenses, period)
	remaining := metrics.Remaining(income, total)

	investment, err := s.advisor.InvestmentAdvice(ctx, decimal.Max(remaining, decimal.Zero), risk, metrics.CategoryBreakdown(expenses))
	if err != nil {
		return nil, err
	}
	health, err := s.advisor.HealthNarrative(ctx, income, total)
	if err != nil {
		return nil, err
	}

	score := metrics.HealthScore(metrics.SavingsRate(income, total), s.healthFloor)
	stored, err := s.adviceRepo.Create(ctx, &domain.AdviceRecord{
		OwnerID:          ownerID,
		RemainingBalance: remaining,
		RiskProfile:      risk,
		Suggestions:      investment.Text,
		HealthScore:      score,
		Source:           investment.Source,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("owner_id", ownerID.String()).
		Str("period", period.String()).
		Str("risk_profile", string(risk)).
		Str("investment_source", investment.Source).
		Str("health_source", health.Source).
		Int("health_score", score).
		Msg("Insights generated")

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(ownerID, websocket.AdviceCreated(stored))
	}

	return &domain.Insight{
		Period:           period,
		RemainingBalance: remaining,
		RiskProfile:      risk,
		Investment:       investment.Text,
		InvestmentSource: investment.Source,
		Health:           health.Text,
		HealthSource:     health.Source,
		HealthScore:      score,
		Record:           stored,
	}, nil
}

// ListRecent returns the latest advice records of an owner
func (s *InsightService) ListRecent(ctx context.Context, ownerID uuid.UUID) ([]*domain.AdviceRecord, error) {
	return s.adviceRepo.ListRecent(ctx, ownerID, domain.RecentAdviceMax)
}

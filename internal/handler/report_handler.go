package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/middleware"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/service"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/util"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ReportHandler handles report and trend HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// AmountResponse is a decimal amount with its display form
type AmountResponse struct {
	Value   string `json:"value"`
	Display string `json:"display"`
}

// CategoryAmountResponse represents one category breakdown entry
type CategoryAmountResponse struct {
	Name   string         `json:"name"`
	Amount AmountResponse `json:"amount"`
}

// BudgetStatusResponse represents one budget status entry
type BudgetStatusResponse struct {
	CategoryID int32          `json:"categoryId"`
	Category   string         `json:"category"`
	Allocated  AmountResponse `json:"allocated"`
	Spent      AmountResponse `json:"spent"`
	Remaining  AmountResponse `json:"remaining"`
	Percentage string         `json:"percentage"`
	Alert      string         `json:"alert,omitempty"`
}

// ReportResponse represents a monthly report in API responses
type ReportResponse struct {
	ID                int64                    `json:"id"`
	Period            string                   `json:"period"`
	Label             string                   `json:"label"`
	TotalIncome       AmountResponse           `json:"totalIncome"`
	TotalExpenses     AmountResponse           `json:"totalExpenses"`
	Remaining         AmountResponse           `json:"remaining"`
	SavingsRate       string                   `json:"savingsRate"`
	CategoryBreakdown []CategoryAmountResponse `json:"categoryBreakdown"`
	BudgetStatus      []BudgetStatusResponse   `json:"budgetStatus"`
	AdviceText        string                   `json:"adviceText"`
	AdviceSource      string                   `json:"adviceSource"`
	GeneratedAt       string                   `json:"generatedAt"`
}

// TrendPointResponse represents one month of a trend
type TrendPointResponse struct {
	Period         string         `json:"period"`
	Label          string         `json:"label"`
	Income         AmountResponse `json:"income"`
	Expenses       AmountResponse `json:"expenses"`
	Savings        AmountResponse `json:"savings"`
	SavingsPercent *string        `json:"savingsPercent"`
}

// TrendResponse represents a trend series in API responses
type TrendResponse struct {
	Anchor         string               `json:"anchor"`
	Window         int                  `json:"window"`
	Points         []TrendPointResponse `json:"points"`
	TotalIncome    AmountResponse       `json:"totalIncome"`
	TotalExpenses  AmountResponse       `json:"totalExpenses"`
	SavingsRate    string               `json:"savingsRate"`
	AverageExpense AmountResponse       `json:"averageExpense"`
}

// ArchiveResponse represents an archived report
type ArchiveResponse struct {
	Period    string `json:"period"`
	Key       string `json:"key"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt"`
}

// GetCurrent handles GET /api/v1/reports/current
func (h *ReportHandler) GetCurrent(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	return h.respondReport(c, ownerID, domain.CurrentPeriod())
}

// GetByYearMonth handles GET /api/v1/reports/:year/:month
func (h *ReportHandler) GetByYearMonth(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	period, errs := pathPeriod(c)
	if errs != nil {
		return NewValidationError(c, "Invalid period", errs)
	}

	return h.respondReport(c, ownerID, period)
}

func (h *ReportHandler) respondReport(c echo.Context, ownerID uuid.UUID, period domain.Period) error {
	report, err := h.reportService.GetOrBuildReport(c.Request().Context(), ownerID, period)
	if err != nil {
		return handleServiceError(c, err, ownerID, "get report")
	}

	return c.JSON(http.StatusOK, toReportResponse(report))
}

// Archive handles POST /api/v1/reports/:year/:month/archive
func (h *ReportHandler) Archive(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	period, errs := pathPeriod(c)
	if errs != nil {
		return NewValidationError(c, "Invalid period", errs)
	}

	archived, err := h.reportService.ArchiveReport(c.Request().Context(), ownerID, period)
	if err != nil {
		return handleServiceError(c, err, ownerID, "archive report")
	}

	return c.JSON(http.StatusCreated, ArchiveResponse{
		Period:    archived.Period.String(),
		Key:       archived.Key,
		URL:       archived.URL,
		ExpiresAt: archived.ExpiresAt.Format(time.RFC3339),
	})
}

// GetTrends handles GET /api/v1/trends?anchor=YYYY-MM&window=N
func (h *ReportHandler) GetTrends(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	anchor := domain.CurrentPeriod()
	if anchorStr := c.QueryParam("anchor"); anchorStr != "" {
		parsed, err := domain.ParsePeriod(anchorStr)
		if err != nil {
			return NewValidationError(c, "Invalid anchor", []ValidationError{
				{Field: "anchor", Message: "Anchor must be a month in YYYY-MM form"},
			})
		}
		anchor = parsed
	}

	window := domain.DefaultWindow
	if windowStr := c.QueryParam("window"); windowStr != "" {
		parsed, err := strconv.Atoi(windowStr)
		if err != nil {
			return NewValidationError(c, "Invalid window", []ValidationError{
				{Field: "window", Message: "Window must be an integer"},
			})
		}
		window = parsed
	}

	series, err := h.reportService.BuildTrendSeries(c.Request().Context(), ownerID, anchor, window)
	if err != nil {
		return handleServiceError(c, err, ownerID, "build trend")
	}

	return c.JSON(http.StatusOK, toTrendResponse(series))
}

func toAmount(d decimal.Decimal) AmountResponse {
	return AmountResponse{
		Value:   d.StringFixed(2),
		Display: util.FormatCurrency(d),
	}
}

func toCategoryAmounts(breakdown []domain.CategoryAmount) []CategoryAmountResponse {
	response := make([]CategoryAmountResponse, len(breakdown))
	for i, c := range breakdown {
		response[i] = CategoryAmountResponse{Name: c.Name, Amount: toAmount(c.Amount)}
	}
	return response
}

func toBudgetStatusResponse(s domain.BudgetStatus, alert string) BudgetStatusResponse {
	return BudgetStatusResponse{
		CategoryID: s.CategoryID,
		Category:   s.Category,
		Allocated:  toAmount(s.Allocated),
		Spent:      toAmount(s.Spent),
		Remaining:  toAmount(s.Remaining),
		Percentage: s.Percentage.StringFixed(2),
		Alert:      alert,
	}
}

func toReportResponse(r *domain.MonthlyReport) ReportResponse {
	status := make([]BudgetStatusResponse, len(r.BudgetStatus))
	for i, s := range r.BudgetStatus {
		status[i] = toBudgetStatusResponse(s, "")
	}

	return ReportResponse{
		ID:                r.ID,
		Period:            r.Period.String(),
		Label:             r.Period.Label(),
		TotalIncome:       toAmount(r.TotalIncome),
		TotalExpenses:     toAmount(r.TotalExpenses),
		Remaining:         toAmount(r.Remaining),
		SavingsRate:       r.SavingsRate.StringFixed(2),
		CategoryBreakdown: toCategoryAmounts(r.CategoryBreakdown),
		BudgetStatus:      status,
		AdviceText:        r.AdviceText,
		AdviceSource:      r.AdviceSource,
		GeneratedAt:       r.GeneratedAt.Format(time.RFC3339),
	}
}

func toTrendResponse(s *domain.TrendSeries) TrendResponse {
	points := make([]TrendPointResponse, len(s.Points))
	for i, p := range s.Points {
		var percent *string
		if p.SavingsPercent != nil {
			v := p.SavingsPercent.StringFixed(1)
			percent = &v
		}
		points[i] = TrendPointResponse{
			Period:         p.Period.String(),
			Label:          p.Label,
			Income:         toAmount(p.Income),
			Expenses:       toAmount(p.Expenses),
			Savings:        toAmount(p.Savings),
			SavingsPercent: percent,
		}
	}

	return TrendResponse{
		Anchor:         s.Anchor.String(),
		Window:         s.Window,
		Points:         points,
		TotalIncome:    toAmount(s.TotalIncome),
		TotalExpenses:  toAmount(s.TotalExpenses),
		SavingsRate:    s.SavingsRate.StringFixed(1),
		AverageExpense: toAmount(s.AverageExpense),
	}
}

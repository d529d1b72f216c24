package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/middleware"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID         int32          `json:"id"`
	Name       string         `json:"name"`
	Amount     AmountResponse `json:"amount"`
	CategoryID *int32         `json:"categoryId"`
	Category   string         `json:"category"`
	Date       string         `json:"date"`
	Note       string         `json:"note,omitempty"`
}

// DashboardMetricsResponse represents the dashboard metrics API response
type DashboardMetricsResponse struct {
	Period           string                 `json:"period"`
	Label            string                 `json:"label"`
	Income           AmountResponse         `json:"income"`
	CurrentExpenses  AmountResponse         `json:"currentExpenses"`
	PreviousExpenses AmountResponse         `json:"previousExpenses"`
	ExpenseChange    string                 `json:"expenseChange"`
	AvgDailySpending AmountResponse         `json:"avgDailySpending"`
	TotalBudget      AmountResponse         `json:"totalBudget"`
	BudgetAdherence  string                 `json:"budgetAdherence"`
	Remaining        AmountResponse         `json:"remaining"`
	BudgetAlerts     []BudgetStatusResponse `json:"budgetAlerts"`
	RecentExpenses   []ExpenseResponse      `json:"recentExpenses"`
}

// IncomeResponse represents an income record in API responses
type IncomeResponse struct {
	ID       int32          `json:"id"`
	Period   string         `json:"period"`
	Amount   AmountResponse `json:"amount"`
	Currency string         `json:"currency"`
}

// IncomeStatsResponse represents the income statistics API response
type IncomeStatsResponse struct {
	Current          *IncomeResponse `json:"current"`
	First            *IncomeResponse `json:"first"`
	AverageIncome    AmountResponse  `json:"averageIncome"`
	GrowthPercentage string          `json:"growthPercentage"`
	TotalRecords     int             `json:"totalRecords"`
}

// GetMetrics handles GET /api/v1/dashboard
// Accepts optional year and month query params for historical navigation
func (h *DashboardHandler) GetMetrics(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	period, errs := queryPeriod(c)
	if errs != nil {
		return NewValidationError(c, "Invalid period", errs)
	}

	metrics, err := h.dashboardService.GetMetrics(c.Request().Context(), ownerID, period)
	if err != nil {
		return handleServiceError(c, err, ownerID, "get dashboard metrics")
	}

	alerts := make([]BudgetStatusResponse, len(metrics.BudgetAlerts))
	for i, a := range metrics.BudgetAlerts {
		alerts[i] = toBudgetStatusResponse(a.BudgetStatus, a.Alert)
	}

	return c.JSON(http.StatusOK, DashboardMetricsResponse{
		Period:           metrics.Period.String(),
		Label:            metrics.Period.Label(),
		Income:           toAmount(metrics.Income),
		CurrentExpenses:  toAmount(metrics.CurrentExpenses),
		PreviousExpenses: toAmount(metrics.PreviousExpenses),
		ExpenseChange:    metrics.ExpenseChange.StringFixed(2),
		AvgDailySpending: toAmount(metrics.AvgDailySpending),
		TotalBudget:      toAmount(metrics.TotalBudget),
		BudgetAdherence:  metrics.BudgetAdherence.StringFixed(2),
		Remaining:        toAmount(metrics.Remaining),
		BudgetAlerts:     alerts,
		RecentExpenses:   toExpenseResponses(metrics.RecentExpenses),
	})
}

// GetIncomeStats handles GET /api/v1/dashboard/income-stats
func (h *DashboardHandler) GetIncomeStats(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	stats, err := h.dashboardService.GetIncomeStats(c.Request().Context(), ownerID)
	if err != nil {
		return handleServiceError(c, err, ownerID, "get income statistics")
	}

	return c.JSON(http.StatusOK, IncomeStatsResponse{
		Current:          toIncomeResponse(stats.Current),
		First:            toIncomeResponse(stats.First),
		AverageIncome:    toAmount(stats.AverageIncome),
		GrowthPercentage: stats.GrowthPercentage.StringFixed(2),
		TotalRecords:     stats.TotalRecords,
	})
}

func toIncomeResponse(i *domain.IncomeRecord) *IncomeResponse {
	if i == nil {
		return nil
	}
	return &IncomeResponse{
		ID:       i.ID,
		Period:   i.Period.String(),
		Amount:   toAmount(i.Amount),
		Currency: i.Currency,
	}
}

func toExpenseResponses(expenses []*domain.ExpenseRecord) []ExpenseResponse {
	response := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		response[i] = ExpenseResponse{
			ID:         e.ID,
			Name:       e.Name,
			Amount:     toAmount(e.Amount),
			CategoryID: e.CategoryID,
			Category:   e.CategoryName(),
			Date:       e.Date.Format(time.DateOnly),
			Note:       e.Note,
		}
	}
	return response
}

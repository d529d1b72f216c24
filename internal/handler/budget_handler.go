package handler

import (
	"net/http"
	"strconv"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/middleware"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// BudgetHandler handles budget drill-down HTTP requests
type BudgetHandler struct {
	dashboardService *service.DashboardService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(dashboardService *service.DashboardService) *BudgetHandler {
	return &BudgetHandler{
		dashboardService: dashboardService,
	}
}

// CategoryExpensesResponse represents a category drill-down
type CategoryExpensesResponse struct {
	CategoryID int32             `json:"categoryId"`
	Category   string            `json:"category"`
	Period     string            `json:"period"`
	Total      AmountResponse    `json:"total"`
	Expenses   []ExpenseResponse `json:"expenses"`
}

// GetCategoryExpenses handles GET /api/v1/budgets/:year/:month/:categoryId/expenses
func (h *BudgetHandler) GetCategoryExpenses(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	period, errs := pathPeriod(c)
	if errs != nil {
		return NewValidationError(c, "Invalid period", errs)
	}

	categoryID, err := strconv.ParseInt(c.Param("categoryId"), 10, 32)
	if err != nil || categoryID <= 0 {
		return NewValidationError(c, "Invalid category ID", []ValidationError{
			{Field: "categoryId", Message: "Must be a positive integer"},
		})
	}

	result, err := h.dashboardService.GetCategoryExpenses(c.Request().Context(), ownerID, period, int32(categoryID))
	if err != nil {
		return handleServiceError(c, err, ownerID, "get category expenses")
	}

	return c.JSON(http.StatusOK, CategoryExpensesResponse{
		CategoryID: result.Category.ID,
		Category:   result.Category.Name,
		Period:     result.Period.String(),
		Total:      toAmount(result.Total),
		Expenses:   toExpenseResponses(result.Expenses),
	})
}

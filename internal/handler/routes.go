package handler

import (
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, rateLimiter *middleware.RateLimiter, reportHandler *ReportHandler, dashboardHandler *DashboardHandler, budgetHandler *BudgetHandler, insightHandler *InsightHandler, wsHandler *WebSocketHandler) {
	owner := middleware.OwnerIdentity()

	// API version 1, every route requires an owner
	api := e.Group("/api/v1")
	api.Use(owner)

	// Report routes
	reports := api.Group("/reports")
	reports.GET("/current", reportHandler.GetCurrent)
	reports.GET("/:year/:month", reportHandler.GetByYearMonth)
	reports.POST("/:year/:month/archive", reportHandler.Archive)

	// Trend routes
	api.GET("/trends", reportHandler.GetTrends)

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.GET("", dashboardHandler.GetMetrics)
	dashboard.GET("/income-stats", dashboardHandler.GetIncomeStats)

	// Budget drill-down routes
	budgets := api.Group("/budgets")
	budgets.GET("/:year/:month/:categoryId/expenses", budgetHandler.GetCategoryExpenses)

	// Insight routes; generation calls paid backends and is rate limited
	insights := api.Group("/insights")
	insights.GET("", insightHandler.ListRecent)
	insights.POST("", insightHandler.Generate, middleware.RateLimitMiddleware(rateLimiter))

	// WebSocket event stream
	if wsHandler != nil {
		e.GET("/ws", wsHandler.HandleWS, owner)
	}
}

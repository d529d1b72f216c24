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

// InsightHandler handles advice HTTP requests
type InsightHandler struct {
	insightService *service.InsightService
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(insightService *service.InsightService) *InsightHandler {
	return &InsightHandler{
		insightService: insightService,
	}
}

// GenerateInsightsRequest represents the request body for generating insights.
// Year and month default to the current month.
type GenerateInsightsRequest struct {
	RiskProfile string `json:"riskProfile"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
}

// AdviceRecordResponse represents a stored advice record
type AdviceRecordResponse struct {
	ID               int64          `json:"id"`
	RemainingBalance AmountResponse `json:"remainingBalance"`
	RiskProfile      string         `json:"riskProfile"`
	Suggestions      string         `json:"suggestions"`
	HealthScore      int            `json:"healthScore"`
	Source           string         `json:"source"`
	GeneratedAt      string         `json:"generatedAt"`
}

// InsightResponse represents generated insights
type InsightResponse struct {
	Period           string               `json:"period"`
	RemainingBalance AmountResponse       `json:"remainingBalance"`
	RiskProfile      string               `json:"riskProfile"`
	Investment       string               `json:"investment"`
	InvestmentSource string               `json:"investmentSource"`
	Health           string               `json:"health"`
	HealthSource     string               `json:"healthSource"`
	HealthScore      int                  `json:"healthScore"`
	Record           AdviceRecordResponse `json:"record"`
}

// Generate handles POST /api/v1/insights
func (h *InsightHandler) Generate(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	var req GenerateInsightsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	period := domain.CurrentPeriod()
	if req.Year != 0 || req.Month != 0 {
		parsed, err := domain.NewPeriod(req.Year, req.Month)
		if err != nil {
			return NewValidationError(c, "Invalid period", []ValidationError{
				{Field: "year", Message: "Year must be between 2000 and 2100"},
				{Field: "month", Message: "Month must be between 1 and 12"},
			})
		}
		period = parsed
	}

	risk, err := domain.ParseRiskProfile(req.RiskProfile)
	if err != nil {
		return NewValidationError(c, "Invalid risk profile", []ValidationError{
			{Field: "riskProfile", Message: "Must be one of Conservative, Moderate, Aggressive"},
		})
	}

	insight, err := h.insightService.GenerateInsights(c.Request().Context(), ownerID, period, risk)
	if err != nil {
		return handleServiceError(c, err, ownerID, "generate insights")
	}

	return c.JSON(http.StatusCreated, InsightResponse{
		Period:           insight.Period.String(),
		RemainingBalance: toAmount(insight.RemainingBalance),
		RiskProfile:      string(insight.RiskProfile),
		Investment:       insight.Investment,
		InvestmentSource: insight.InvestmentSource,
		Health:           insight.Health,
		HealthSource:     insight.HealthSource,
		HealthScore:      insight.HealthScore,
		Record:           toAdviceRecordResponse(insight.Record),
	})
}

// ListRecent handles GET /api/v1/insights
func (h *InsightHandler) ListRecent(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Owner required")
	}

	records, err := h.insightService.ListRecent(c.Request().Context(), ownerID)
	if err != nil {
		return handleServiceError(c, err, ownerID, "list insights")
	}

	response := make([]AdviceRecordResponse, len(records))
	for i, r := range records {
		response[i] = toAdviceRecordResponse(r)
	}
	return c.JSON(http.StatusOK, response)
}

func toAdviceRecordResponse(r *domain.AdviceRecord) AdviceRecordResponse {
	return AdviceRecordResponse{
		ID:               r.ID,
		RemainingBalance: toAmount(r.RemainingBalance),
		RiskProfile:      string(r.RiskProfile),
		Suggestions:      r.Suggestions,
		HealthScore:      r.HealthScore,
		Source:           r.Source,
		GeneratedAt:      r.GeneratedAt.Format(time.RFC3339),
	}
}

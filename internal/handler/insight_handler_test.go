package handler

import (
	"net/http"
	"testing"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsightHandler_Generate(t *testing.T) {
	env := newTestEnv(t)
	env.addIncome(domain.Period{Year: 2025, Month: 1}, 50000)
	env.addExpense(8, 35000, day(2025, 1, 2))

	rec := env.do(http.MethodPost, "/api/v1/insights", `{"riskProfile":"Conservative","year":2025,"month":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	insight := decode[InsightResponse](t, rec)
	assert.Equal(t, "2025-01", insight.Period)
	assert.Equal(t, "Conservative", insight.RiskProfile)
	assert.Equal(t, "₹15,000.00", insight.RemainingBalance.Display)
	assert.Contains(t, insight.Investment, "1. Low risk: ₹6,000.00")
	assert.Contains(t, insight.Health, "Savings rate: 30%")
	assert.Equal(t, 100, insight.HealthScore)
	assert.NotZero(t, insight.Record.ID)

	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestInsightHandler_Generate_Invalid(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"unknown risk profile", `{"riskProfile":"YOLO"}`},
		{"bad month", `{"riskProfile":"Moderate","year":2025,"month":13}`},
		{"year without month", `{"year":2025}`},
		{"malformed body", `{"riskProfile":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.doAs(uuid.New(), http.MethodPost, "/api/v1/insights", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
	assert.Empty(t, env.advice.Records)
}

func TestInsightHandler_Generate_RateLimited(t *testing.T) {
	env := newTestEnv(t)

	// Burst of two per owner
	for i := 0; i < 2; i++ {
		rec := env.do(http.MethodPost, "/api/v1/insights", `{"riskProfile":"Moderate"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(http.MethodPost, "/api/v1/insights", `{"riskProfile":"Moderate"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Another owner is unaffected
	rec = env.doAs(uuid.New(), http.MethodPost, "/api/v1/insights", `{"riskProfile":"Moderate"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestInsightHandler_ListRecent(t *testing.T) {
	env := newTestEnv(t)

	for _, risk := range []string{"Conservative", "Moderate"} {
		rec := env.do(http.MethodPost, "/api/v1/insights", `{"riskProfile":"`+risk+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(http.MethodGet, "/api/v1/insights", "")
	require.Equal(t, http.StatusOK, rec.Code)

	records := decode[[]AdviceRecordResponse](t, rec)
	require.Len(t, records, 2)
	assert.Equal(t, "Moderate", records[0].RiskProfile)
	assert.Equal(t, "Conservative", records[1].RiskProfile)

	// Listing is not rate limited
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/v1/insights", "").Code)
	}
}

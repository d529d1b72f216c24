package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportHandler_GetByYearMonth(t *testing.T) {
	env := newTestEnv(t)
	env.addIncome(domain.Period{Year: 2025, Month: 1}, 50000)
	env.addExpense(8, 35000, day(2025, 1, 2))

	rec := env.do(http.MethodGet, "/api/v1/reports/2025/1", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	report := decode[ReportResponse](t, rec)
	assert.Equal(t, "2025-01", report.Period)
	assert.Equal(t, "Jan 2025", report.Label)
	assert.Equal(t, "15000.00", report.Remaining.Value)
	assert.Equal(t, "₹15,000.00", report.Remaining.Display)
	assert.Equal(t, "30.00", report.SavingsRate)
	require.Len(t, report.CategoryBreakdown, 1)
	assert.Equal(t, domain.CategoryRentMortgage, report.CategoryBreakdown[0].Name)
	assert.Equal(t, domain.AdviceSourceFallback, report.AdviceSource)

	// Same report on the second request
	again := decode[ReportResponse](t, env.do(http.MethodGet, "/api/v1/reports/2025/1", ""))
	assert.Equal(t, report.ID, again.ID)
}

func TestReportHandler_GetCurrent(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/reports/current", "")
	require.Equal(t, http.StatusOK, rec.Code)

	report := decode[ReportResponse](t, rec)
	assert.Equal(t, domain.CurrentPeriod().String(), report.Period)
}

func TestReportHandler_InvalidPeriod(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{"/api/v1/reports/2025/13", "/api/v1/reports/1999/1", "/api/v1/reports/abc/1"} {
		rec := env.do(http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)

		problem := decode[ProblemDetails](t, rec)
		assert.Equal(t, ErrorTypeValidation, problem.Type)
		assert.NotEmpty(t, problem.Errors)
	}
	assert.Zero(t, env.reports.CreateCalls)
}

func TestReportHandler_RequiresOwner(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doAs(uuid.Nil, http.MethodGet, "/api/v1/reports/current", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReportHandler_StorageFailure(t *testing.T) {
	env := newTestEnv(t)
	env.reports.CreateFn = func(*domain.MonthlyReport) (*domain.MonthlyReport, error) {
		return nil, errors.New("connection reset")
	}

	rec := env.do(http.MethodGet, "/api/v1/reports/2025/1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	problem := decode[ProblemDetails](t, rec)
	assert.Equal(t, "Failed to get report", problem.Detail)
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestReportHandler_Archive(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(http.MethodPost, "/api/v1/reports/2025/1/archive", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("enabled", func(t *testing.T) {
		env := newTestEnv(t)
		env.reportSvc.SetArchive(env.archive, 0)

		rec := env.do(http.MethodPost, "/api/v1/reports/2025/1/archive", "")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		archived := decode[ArchiveResponse](t, rec)
		assert.Equal(t, "2025-01", archived.Period)
		assert.Equal(t, domain.ReportArchiveKey(testOwner, domain.Period{Year: 2025, Month: 1}), archived.Key)
		assert.Contains(t, archived.URL, archived.Key)
		assert.Contains(t, env.archive.Objects, archived.Key)
	})
}

func TestReportHandler_GetTrends(t *testing.T) {
	env := newTestEnv(t)
	env.addIncome(domain.Period{Year: 2025, Month: 2}, 1000)
	env.addExpense(1, 250, day(2025, 2, 10))
	env.addExpense(1, 100, day(2025, 3, 1))

	rec := env.do(http.MethodGet, "/api/v1/trends?anchor=2025-03&window=3", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	trend := decode[TrendResponse](t, rec)
	assert.Equal(t, "2025-03", trend.Anchor)
	require.Len(t, trend.Points, 3)
	assert.Equal(t, "2025-01", trend.Points[0].Period)
	assert.Nil(t, trend.Points[0].SavingsPercent)
	require.NotNil(t, trend.Points[1].SavingsPercent)
	assert.Equal(t, "75.0", *trend.Points[1].SavingsPercent)
	assert.Nil(t, trend.Points[2].SavingsPercent)
	assert.Equal(t, "1000.00", trend.TotalIncome.Value)
	assert.Equal(t, "350.00", trend.TotalExpenses.Value)
	assert.Equal(t, "65.0", trend.SavingsRate)
	assert.Equal(t, "116.67", trend.AverageExpense.Value)
}

func TestReportHandler_GetTrends_Defaults(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/trends", "")
	require.Equal(t, http.StatusOK, rec.Code)

	trend := decode[TrendResponse](t, rec)
	assert.Equal(t, domain.CurrentPeriod().String(), trend.Anchor)
	assert.Len(t, trend.Points, domain.DefaultWindow)
}

func TestReportHandler_GetTrends_Invalid(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		target string
	}{
		{"bad anchor", "/api/v1/trends?anchor=2025-13"},
		{"anchor not a month", "/api/v1/trends?anchor=march"},
		{"window not a number", "/api/v1/trends?window=six"},
		{"negative window", "/api/v1/trends?window=-1"},
		{"window too large", "/api/v1/trends?window=25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodGet, tt.target, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestReportHandler_GetTrends_EmptyWindow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/trends?anchor=2025-03&window=0", "")
	require.Equal(t, http.StatusOK, rec.Code)

	trend := decode[TrendResponse](t, rec)
	assert.Empty(t, trend.Points)
	assert.Equal(t, "0.00", trend.AverageExpense.Value)
}

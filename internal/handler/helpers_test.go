package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/advice"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/metrics"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/middleware"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/service"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/testutil"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testOwner = uuid.MustParse("9b2e4c61-58f3-4d27-a0c5-71e8d3f6b902")

type testEnv struct {
	e         *echo.Echo
	incomes   *testutil.MockIncomeRepository
	expenses  *testutil.MockExpenseRepository
	budgets   *testutil.MockBudgetRepository
	reports   *testutil.MockReportRepository
	advice    *testutil.MockAdviceRepository
	archive   *testutil.MockReportArchive
	publisher *testutil.MockEventPublisher
	reportSvc *service.ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	env := &testEnv{
		e:         echo.New(),
		incomes:   testutil.NewMockIncomeRepository(),
		expenses:  testutil.NewMockExpenseRepository(),
		budgets:   testutil.NewMockBudgetRepository(),
		reports:   testutil.NewMockReportRepository(),
		advice:    testutil.NewMockAdviceRepository(),
		archive:   testutil.NewMockReportArchive(),
		publisher: &testutil.MockEventPublisher{},
	}

	provider := advice.NewProviderWithBackends(nil, time.Second, zerolog.Nop())
	categories := testutil.NewMockCategoryRepository()

	env.reportSvc = service.NewReportService(env.incomes, env.expenses, env.budgets, env.reports, provider)
	env.reportSvc.SetEventPublisher(env.publisher)
	dashboardSvc := service.NewDashboardService(env.incomes, env.expenses, env.budgets, categories)
	insightSvc := service.NewInsightService(env.incomes, env.expenses, env.advice, provider, metrics.RecordHealthFloor)
	insightSvc.SetEventPublisher(env.publisher)

	rl := middleware.NewRateLimiterWithConfig(60, 2)
	t.Cleanup(rl.Stop)

	RegisterRoutes(env.e, rl,
		NewReportHandler(env.reportSvc),
		NewDashboardHandler(dashboardSvc),
		NewBudgetHandler(dashboardSvc),
		NewInsightHandler(insightSvc),
		NewWebSocketHandler(websocket.NewHub(), nil),
	)
	return env
}

func (env *testEnv) do(method, target, body string) *httptest.ResponseRecorder {
	return env.doAs(testOwner, method, target, body)
}

func (env *testEnv) doAs(ownerID uuid.UUID, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if ownerID != uuid.Nil {
		req.Header.Set(middleware.OwnerHeader, ownerID.String())
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) addIncome(period domain.Period, amount int64) {
	env.incomes.AddIncome(&domain.IncomeRecord{OwnerID: testOwner, Period: period, Amount: decimal.NewFromInt(amount)})
}

func (env *testEnv) addExpense(categoryID int32, amount int64, date time.Time) {
	expense := &domain.ExpenseRecord{OwnerID: testOwner, Name: "expense", Amount: decimal.NewFromInt(amount), Date: date}
	if categoryID != 0 {
		for _, c := range testutil.DefaultCategories() {
			if c.ID == categoryID {
				expense.Category = c
			}
		}
	}
	env.expenses.AddExpense(expense)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func day(year, month, d int) time.Time {
	return time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC)
}

package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/websocket"
	"github.com/google/uuid"
)

type ownerPeriod struct {
	owner  uuid.UUID
	period domain.Period
}

// MockIncomeRepository is a mock implementation of domain.IncomeRepository
type MockIncomeRepository struct {
	mu            sync.Mutex
	Incomes       map[ownerPeriod]*domain.IncomeRecord
	NextID        int32
	GetByPeriodFn func(ownerID uuid.UUID, period domain.Period) (*domain.IncomeRecord, error)
	ListByOwnerFn func(ownerID uuid.UUID) ([]*domain.IncomeRecord, error)
	Calls         int
}

// NewMockIncomeRepository creates a new MockIncomeRepository
func NewMockIncomeRepository() *MockIncomeRepository {
	return &MockIncomeRepository{
		Incomes: make(map[ownerPeriod]*domain.IncomeRecord),
		NextID:  1,
	}
}

// GetByPeriod retrieves the income of an owner for a period
func (m *MockIncomeRepository) GetByPeriod(_ context.Context, ownerID uuid.UUID, period domain.Period) (*domain.IncomeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++

	if m.GetByPeriodFn != nil {
		return m.GetByPeriodFn(ownerID, period)
	}
	if income, ok := m.Incomes[ownerPeriod{ownerID, period}]; ok {
		return income, nil
	}
	return nil, domain.ErrIncomeNotFound
}

// ListByOwner retrieves all incomes of an owner, newest period first
func (m *MockIncomeRepository) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*domain.IncomeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++

	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ownerID)
	}
	result := make([]*domain.IncomeRecord, 0)
	for key, income := range m.Incomes {
		if key.owner == ownerID {
			result = append(result, income)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].Period, result[j].Period
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		return a.Month > b.Month
	})
	return result, nil
}

// AddIncome adds an income to the mock repository (helper for tests)
func (m *MockIncomeRepository) AddIncome(income *domain.IncomeRecord) *domain.IncomeRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	if income.ID == 0 {
		income.ID = m.NextID
		m.NextID++
	}
	if income.Currency == "" {
		income.Currency = domain.DefaultCurrency
	}
	m.Incomes[ownerPeriod{income.OwnerID, income.Period}] = income
	return income
}

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	mu             sync.Mutex
	Expenses       []*domain.ExpenseRecord
	NextID         int32
	ListByPeriodFn func(ownerID uuid.UUID, period domain.Period) ([]*domain.ExpenseRecord, error)
	Calls          int
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make([]*domain.ExpenseRecord, 0),
		NextID:   1,
	}
}

// ListByPeriod retrieves expenses dated inside a period, newest first
func (m *MockExpenseRepository) ListByPeriod(_ context.Context, ownerID uuid.UUID, period domain.Period) ([]*domain.ExpenseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++

	if m.ListByPeriodFn != nil {
		return m.ListByPeriodFn(ownerID, period)
	}
	return m.filter(func(e *domain.ExpenseRecord) bool {
		return e.OwnerID == ownerID && period.Contains(e.Date)
	}), nil
}

// ListByCategory retrieves expenses of one category inside a period, newest first
func (m *MockExpenseRepository) ListByCategory(_ context.Context, ownerID uuid.UUID, categoryID int32, period domain.Period) ([]*domain.ExpenseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++

	return m.filter(func(e *domain.ExpenseRecord) bool {
		return e.OwnerID == ownerID && e.InCategory(categoryID) && period.Contains(e.Date)
	}), nil
}

func (m *MockExpenseRepository) filter(keep func(*domain.ExpenseRecord) bool) []*domain.ExpenseRecord {
	result := make([]*domain.ExpenseRecord, 0)
	for _, e := range m.Expenses {
		if keep(e) {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

// AddExpense adds an expense to the mock repository (helper for tests)
func (m *MockExpenseRepository) AddExpense(expense *domain.ExpenseRecord) *domain.ExpenseRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	if expense.ID == 0 {
		expense.ID = m.NextID
		m.NextID++
	}
	if expense.Category != nil && expense.CategoryID == nil {
		id := expense.Category.ID
		expense.CategoryID = &id
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now()
	}
	m.Expenses = append(m.Expenses, expense)
	return expense
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	mu      sync.Mutex
	Budgets []*domain.BudgetLimit
	NextID  int32
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make([]*domain.BudgetLimit, 0),
		NextID:  1,
	}
}

// ListByPeriod retrieves the budget limits of a period
func (m *MockBudgetRepository) ListByPeriod(_ context.Context, ownerID uuid.UUID, period domain.Period) ([]*domain.BudgetLimit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*domain.BudgetLimit, 0)
	for _, b := range m.Budgets {
		if b.OwnerID == ownerID && b.Period == period {
			result = append(result, b)
		}
	}
	return result, nil
}

// AddBudget adds a budget limit to the mock repository (helper for tests)
func (m *MockBudgetRepository) AddBudget(budget *domain.BudgetLimit) *domain.BudgetLimit {
	m.mu.Lock()
	defer m.mu.Unlock()

	if budget.ID == 0 {
		budget.ID = m.NextID
		m.NextID++
	}
	if budget.Category != nil && budget.CategoryID == 0 {
		budget.CategoryID = budget.Category.ID
	}
	m.Budgets = append(m.Budgets, budget)
	return budget
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[int32]*domain.Category
}

// NewMockCategoryRepository creates a repository seeded with the standard categories
func NewMockCategoryRepository() *MockCategoryRepository {
	m := &MockCategoryRepository{Categories: make(map[int32]*domain.Category)}
	for _, c := range DefaultCategories() {
		m.Categories[c.ID] = c
	}
	return m
}

// DefaultCategories returns the standard category set with IDs 1..11
func DefaultCategories() []*domain.Category {
	names := []string{
		domain.CategoryFoodDining,
		domain.CategoryTransportation,
		domain.CategoryShopping,
		domain.CategoryEntertainment,
		domain.CategoryBillsUtilities,
		domain.CategoryHealthcare,
		domain.CategoryEducation,
		domain.CategoryRentMortgage,
		domain.CategoryInvestment,
		domain.CategorySavings,
		domain.CategoryOther,
	}
	result := make([]*domain.Category, len(names))
	for i, name := range names {
		result[i] = &domain.Category{ID: int32(i + 1), Name: name, Color: "#6c757d", Icon: "tag"}
	}
	return result
}

// GetAll retrieves every category ordered by ID
func (m *MockCategoryRepository) GetAll(_ context.Context) ([]*domain.Category, error) {
	result := make([]*domain.Category, 0, len(m.Categories))
	for _, c := range m.Categories {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetByID retrieves a category by ID
func (m *MockCategoryRepository) GetByID(_ context.Context, id int32) (*domain.Category, error) {
	if c, ok := m.Categories[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// MockOwnerRepository is a mock implementation of domain.OwnerRepository
type MockOwnerRepository struct {
	Owners       []uuid.UUID
	ListActiveFn func(period domain.Period) ([]uuid.UUID, error)
}

// ListActive returns the configured owners
func (m *MockOwnerRepository) ListActive(_ context.Context, period domain.Period) ([]uuid.UUID, error) {
	if m.ListActiveFn != nil {
		return m.ListActiveFn(period)
	}
	return m.Owners, nil
}

// MockReportRepository is a mock implementation of domain.ReportRepository
type MockReportRepository struct {
	mu            sync.Mutex
	Reports       map[ownerPeriod]*domain.MonthlyReport
	NextID        int64
	GetByPeriodFn func(ownerID uuid.UUID, period domain.Period) (*domain.MonthlyReport, error)
	CreateFn      func(report *domain.MonthlyReport) (*domain.MonthlyReport, error)
	CreateCalls   int
}

// NewMockReportRepository creates a new MockReportRepository
func NewMockReportRepository() *MockReportRepository {
	return &MockReportRepository{
		Reports: make(map[ownerPeriod]*domain.MonthlyReport),
		NextID:  1,
	}
}

// GetByPeriod retrieves the stored report for a period
func (m *MockReportRepository) GetByPeriod(_ context.Context, ownerID uuid.UUID, period domain.Period) (*domain.MonthlyReport, error) {
	if m.GetByPeriodFn != nil {
		return m.GetByPeriodFn(ownerID, period)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if report, ok := m.Reports[ownerPeriod{ownerID, period}]; ok {
		return report, nil
	}
	return nil, domain.ErrReportNotFound
}

// Create stores a report, enforcing one report per owner and period
func (m *MockReportRepository) Create(_ context.Context, report *domain.MonthlyReport) (*domain.MonthlyReport, error) {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()

	if m.CreateFn != nil {
		return m.CreateFn(report)
	}
	return m.Insert(report)
}

// Insert stores a report like the database would (helper for tests)
func (m *MockReportRepository) Insert(report *domain.MonthlyReport) (*domain.MonthlyReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := ownerPeriod{report.OwnerID, report.Period}
	if _, exists := m.Reports[key]; exists {
		return nil, domain.ErrReportAlreadyExists
	}
	created := *report
	created.ID = m.NextID
	m.NextID++
	if created.GeneratedAt.IsZero() {
		created.GeneratedAt = time.Now()
	}
	m.Reports[key] = &created
	return &created, nil
}

// Count returns the number of stored reports
func (m *MockReportRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Reports)
}

// MockAdviceRepository is a mock implementation of domain.AdviceRepository
type MockAdviceRepository struct {
	mu       sync.Mutex
	Records  []*domain.AdviceRecord
	NextID   int64
	CreateFn func(record *domain.AdviceRecord) (*domain.AdviceRecord, error)
}

// NewMockAdviceRepository creates a new MockAdviceRepository
func NewMockAdviceRepository() *MockAdviceRepository {
	return &MockAdviceRepository{
		Records: make([]*domain.AdviceRecord, 0),
		NextID:  1,
	}
}

// Create appends an advice record
func (m *MockAdviceRepository) Create(_ context.Context, record *domain.AdviceRecord) (*domain.AdviceRecord, error) {
	if m.CreateFn != nil {
		return m.CreateFn(record)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	created := *record
	created.ID = m.NextID
	m.NextID++
	if created.GeneratedAt.IsZero() {
		created.GeneratedAt = time.Now()
	}
	m.Records = append(m.Records, &created)
	return &created, nil
}

// ListRecent returns at most limit records of an owner, newest first
func (m *MockAdviceRepository) ListRecent(_ context.Context, ownerID uuid.UUID, limit int) ([]*domain.AdviceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*domain.AdviceRecord, 0)
	for i := len(m.Records) - 1; i >= 0 && len(result) < limit; i-- {
		if m.Records[i].OwnerID == ownerID {
			result = append(result, m.Records[i])
		}
	}
	return result, nil
}

// MockReportArchive is a mock implementation of domain.ReportArchive
type MockReportArchive struct {
	Objects      map[string][]byte
	ContentTypes map[string]string
	UploadErr    error
}

// NewMockReportArchive creates a new MockReportArchive
func NewMockReportArchive() *MockReportArchive {
	return &MockReportArchive{
		Objects:      make(map[string][]byte),
		ContentTypes: make(map[string]string),
	}
}

// Upload stores the object in memory
func (m *MockReportArchive) Upload(_ context.Context, key string, data []byte, contentType string) error {
	if m.UploadErr != nil {
		return m.UploadErr
	}
	m.Objects[key] = data
	m.ContentTypes[key] = contentType
	return nil
}

// PresignedURL returns a fake URL for key
func (m *MockReportArchive) PresignedURL(_ context.Context, key string, expiry time.Duration) (string, error) {
	return "https://archive.test/" + key + "?expires=" + expiry.String(), nil
}

// MockTrendCache is a mock implementation of domain.TrendCache
type MockTrendCache struct {
	mu      sync.Mutex
	Entries map[string]domain.TrendSeries
	TTLs    map[string]time.Duration
	Hits    int
	Misses  int
}

// NewMockTrendCache creates a new MockTrendCache
func NewMockTrendCache() *MockTrendCache {
	return &MockTrendCache{
		Entries: make(map[string]domain.TrendSeries),
		TTLs:    make(map[string]time.Duration),
	}
}

// Get returns a copy of the cached series
func (m *MockTrendCache) Get(_ context.Context, key string) (*domain.TrendSeries, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	series, ok := m.Entries[key]
	if !ok {
		m.Misses++
		return nil, false
	}
	m.Hits++
	return &series, true
}

// Set stores a copy of the series
func (m *MockTrendCache) Set(_ context.Context, key string, series *domain.TrendSeries, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries[key] = *series
	m.TTLs[key] = ttl
}

// PublishedEvent is an event captured by MockEventPublisher
type PublishedEvent struct {
	OwnerID uuid.UUID
	Event   websocket.Event
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// Publish records the event
func (m *MockEventPublisher) Publish(ownerID uuid.UUID, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{OwnerID: ownerID, Event: event})
}

// Published returns a copy of the recorded events
func (m *MockEventPublisher) Published() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PublishedEvent(nil), m.Events...)
}

package domain

import (
	"fmt"
	"time"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/util"
)

// Period is a calendar month
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// NewPeriod validates and returns a Period
func NewPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, ErrInvalidPeriod
	}
	if year < MinYear || year > MaxYear {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Year: year, Month: month}, nil
}

// ParsePeriod parses the YYYY-MM form
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return NewPeriod(t.Year(), int(t.Month()))
}

// PeriodOf returns the period containing t
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// CurrentPeriod returns the period containing now
func CurrentPeriod() Period {
	return PeriodOf(time.Now())
}

// Start returns the first day of the period
func (p Period) Start() time.Time {
	start, _ := util.MonthBoundaries(p.Year, p.Month)
	return start
}

// End returns the last day of the period
func (p Period) End() time.Time {
	_, end := util.MonthBoundaries(p.Year, p.Month)
	return end
}

// Days returns the calendar length of the period
func (p Period) Days() int {
	return util.DaysInMonth(p.Year, p.Month)
}

// Contains reports whether t falls on a day inside the period
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && int(t.Month()) == p.Month
}

// Previous returns the preceding calendar month
func (p Period) Previous() Period {
	y, m := util.PreviousMonth(p.Year, p.Month)
	return Period{Year: y, Month: m}
}

// AddMonths shifts the period by n calendar months
func (p Period) AddMonths(n int) Period {
	y, m := util.AddMonths(p.Year, p.Month, n)
	return Period{Year: y, Month: m}
}

// IsHistorical reports whether the period lies before the current month
func (p Period) IsHistorical() bool {
	return util.IsHistoricalMonth(p.Year, p.Month)
}

// String returns the YYYY-MM form
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Label returns a display label such as "Jan 2025"
func (p Period) Label() string {
	return p.Start().Format("Jan 2006")
}

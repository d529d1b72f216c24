package util

import "time"

// PreviousMonth returns the year and month for the previous month
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// AddMonths shifts a year/month pair by n calendar months (n may be negative)
func AddMonths(year, month, n int) (int, int) {
	idx := year*12 + (month - 1) + n
	y := idx / 12
	m := idx%12 + 1
	if idx < 0 && idx%12 != 0 {
		y--
		m += 12
	}
	return y, m
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year, month int) int {
	// Day 0 of the next month is the last day of this one
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthBoundaries returns the first and last day of a month
func MonthBoundaries(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}

// IsHistoricalMonth returns true if the given year/month is before the current month
func IsHistoricalMonth(year, month int) bool {
	now := time.Now()
	currentYear := now.Year()
	currentMonth := int(now.Month())

	if year < currentYear {
		return true
	}
	if year == currentYear && month < currentMonth {
		return true
	}
	return false
}

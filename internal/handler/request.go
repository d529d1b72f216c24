package handler

import (
	"strconv"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/labstack/echo/v4"
)

// pathPeriod parses the :year and :month path parameters
func pathPeriod(c echo.Context) (domain.Period, []ValidationError) {
	return parsePeriod(c.Param("year"), c.Param("month"), false)
}

// queryPeriod parses optional year and month query parameters, defaulting to the current month
func queryPeriod(c echo.Context) (domain.Period, []ValidationError) {
	return parsePeriod(c.QueryParam("year"), c.QueryParam("month"), true)
}

func parsePeriod(yearStr, monthStr string, optional bool) (domain.Period, []ValidationError) {
	current := domain.CurrentPeriod()
	year, month := current.Year, current.Month
	var errs []ValidationError

	if yearStr != "" || !optional {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil || parsed < domain.MinYear || parsed > domain.MaxYear {
			errs = append(errs, ValidationError{Field: "year", Message: "Year must be between 2000 and 2100"})
		}
		year = parsed
	}
	if monthStr != "" || !optional {
		parsed, err := strconv.Atoi(monthStr)
		if err != nil || parsed < 1 || parsed > 12 {
			errs = append(errs, ValidationError{Field: "month", Message: "Month must be between 1 and 12"})
		}
		month = parsed
	}
	if len(errs) > 0 {
		return domain.Period{}, errs
	}
	return domain.Period{Year: year, Month: month}, nil
}

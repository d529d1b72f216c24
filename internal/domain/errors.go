package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInternalError = errors.New("internal error")
)

// Input errors. All of them match ErrInvalidInput with errors.Is.
var (
	ErrInvalidPeriod      = fmt.Errorf("%w: malformed period", ErrInvalidInput)
	ErrInvalidAmount      = fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	ErrInvalidWindow      = fmt.Errorf("%w: window size out of range", ErrInvalidInput)
	ErrUnknownCategory    = fmt.Errorf("%w: unknown category", ErrInvalidInput)
	ErrInvalidRiskProfile = fmt.Errorf("%w: unknown risk profile", ErrInvalidInput)
)

// Lookup errors
var (
	ErrIncomeNotFound      = fmt.Errorf("income %w", ErrNotFound)
	ErrCategoryNotFound    = fmt.Errorf("category %w", ErrNotFound)
	ErrReportNotFound      = fmt.Errorf("report %w", ErrNotFound)
	ErrReportAlreadyExists = fmt.Errorf("report %w", ErrAlreadyExists)
	ErrArchiveDisabled     = errors.New("report archive is not configured")
)

// ErrSequenceConsumed is yielded when a single-use sequence is ranged over again
var ErrSequenceConsumed = errors.New("sequence already consumed")

// Validation constants
const (
	MinYear         = 2000
	MaxYear         = 2100
	DefaultWindow   = 6
	MaxWindow       = 24
	RecentAdviceMax = 3
)

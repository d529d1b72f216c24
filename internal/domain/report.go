package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MonthlyReport is the persisted PeriodSummary plus advice, one per owner and period
type MonthlyReport struct {
	ID      int64     `json:"id"`
	OwnerID uuid.UUID `json:"ownerId"`
	PeriodSummary
	AdviceText   string    `json:"adviceText"`
	AdviceSource string    `json:"adviceSource"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

type ReportRepository interface {
	GetByPeriod(ctx context.Context, ownerID uuid.UUID, period Period) (*MonthlyReport, error)
	// Create returns ErrReportAlreadyExists when the (owner, period) slot is taken
	Create(ctx context.Context, report *MonthlyReport) (*MonthlyReport, error)
}

// ReportArchive stores serialized reports in object storage
type ReportArchive interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ReportArchiveKey returns the object key for an owner's report
func ReportArchiveKey(ownerID uuid.UUID, period Period) string {
	return fmt.Sprintf("%s/reports/%s.json", ownerID, period)
}

// ArchivedReport points to an uploaded report
type ArchivedReport struct {
	Period    Period    `json:"period"`
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

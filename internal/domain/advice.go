package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RiskProfile string

const (
	RiskConservative RiskProfile = "Conservative"
	RiskModerate     RiskProfile = "Moderate"
	RiskAggressive   RiskProfile = "Aggressive"
)

// DefaultRiskProfile is used for generated monthly reports
const DefaultRiskProfile = RiskModerate

// ParseRiskProfile validates a risk profile name; empty means the default
func ParseRiskProfile(s string) (RiskProfile, error) {
	switch RiskProfile(s) {
	case "":
		return DefaultRiskProfile, nil
	case RiskConservative, RiskModerate, RiskAggressive:
		return RiskProfile(s), nil
	}
	return "", ErrInvalidRiskProfile
}

// AdviceSourceFallback marks advice produced without a remote backend
const AdviceSourceFallback = "fallback"

// AdviceRecord is an append-only snapshot of generated investment advice
type AdviceRecord struct {
	ID               int64           `json:"id"`
	OwnerID          uuid.UUID       `json:"ownerId"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	RiskProfile      RiskProfile     `json:"riskProfile"`
	Suggestions      string          `json:"suggestions"`
	HealthScore      int             `json:"healthScore"`
	Source           string          `json:"source"`
	GeneratedAt      time.Time       `json:"generatedAt"`
}

type AdviceRepository interface {
	Create(ctx context.Context, record *AdviceRecord) (*AdviceRecord, error)
	// ListRecent returns at most limit records, newest first
	ListRecent(ctx context.Context, ownerID uuid.UUID, limit int) ([]*AdviceRecord, error)
}

// Insight is the result of one advice request
type Insight struct {
	Period           Period          `json:"period"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	RiskProfile      RiskProfile     `json:"riskProfile"`
	Investment       string          `json:"investment"`
	InvestmentSource string          `json:"investmentSource"`
	Health           string          `json:"health"`
	HealthSource     string          `json:"healthSource"`
	HealthScore      int             `json:"healthScore"`
	Record           *AdviceRecord   `json:"record"`
}

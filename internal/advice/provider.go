// Package advice produces investment suggestions and financial health
// narratives. Remote text-generation backends are tried in order; when none
// is configured or all of them fail, a deterministic local template is used.
package advice

import (
	"context"
	"net/http"
	"time"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/metrics"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Advice is generated text together with the backend that produced it
type Advice struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Provider generates advice through an ordered list of backends
type Provider struct {
	backends []Backend
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewProvider builds the backends named in cfg.Order that have an API key.
// Unknown names are logged and skipped.
func NewProvider(cfg Config, logger zerolog.Logger) *Provider {
	logger = logger.With().Str("component", "advice_provider").Logger()

	order := cfg.Order
	if len(order) == 0 {
		order = DefaultOrder()
	}

	client := &http.Client{}
	backends := make([]Backend, 0, len(order))
	for _, name := range order {
		switch name {
		case BackendOpenAI:
			if cfg.OpenAI.APIKey != "" {
				backends = append(backends, NewOpenAIBackend(cfg.OpenAI, client))
			}
		case BackendGemini:
			if cfg.Gemini.APIKey != "" {
				backends = append(backends, NewGeminiBackend(cfg.Gemini, client))
			}
		default:
			logger.Warn().Str("backend", name).Msg("Ignoring unknown advice backend")
		}
	}

	p := NewProviderWithBackends(backends, cfg.Timeout, logger)
	logger.Info().Strs("backends", p.BackendNames()).Dur("timeout", p.timeout).Msg("Advice provider configured")
	return p
}

// NewProviderWithBackends uses the given backends in order
func NewProviderWithBackends(backends []Backend, timeout time.Duration, logger zerolog.Logger) *Provider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Provider{
		backends: backends,
		timeout:  timeout,
		logger:   logger,
	}
}

// BackendNames lists the active backends in priority order
func (p *Provider) BackendNames() []string {
	names := make([]string, 0, len(p.backends))
	for _, b := range p.backends {
		names = append(names, b.Name())
	}
	return names
}

// InvestmentAdvice suggests how to invest balance for the given risk profile.
// Only invalid input is returned as an error.
func (p *Provider) InvestmentAdvice(ctx context.Context, balance decimal.Decimal, risk domain.RiskProfile, patterns []domain.CategoryAmount) (Advice, error) {
	if balance.IsNegative() {
		return Advice{}, domain.ErrInvalidAmount
	}
	if _, err := domain.ParseRiskProfile(string(risk)); err != nil || risk == "" {
		return Advice{}, domain.ErrInvalidRiskProfile
	}

	if result, ok := p.generate(ctx, "investment", investmentPrompt(balance, risk, patterns)); ok {
		return Advice{Text: result.Text, Source: result.Backend}, nil
	}
	return Advice{Text: FallbackInvestment(balance, risk), Source: domain.AdviceSourceFallback}, nil
}

// HealthNarrative describes the financial health of a month.
// Only invalid input is returned as an error.
func (p *Provider) HealthNarrative(ctx context.Context, income, expenses decimal.Decimal) (Advice, error) {
	if income.IsNegative() || expenses.IsNegative() {
		return Advice{}, domain.ErrInvalidAmount
	}

	rate := metrics.SavingsRate(income, expenses)
	if result, ok := p.generate(ctx, "health", healthPrompt(income, expenses, rate)); ok {
		return Advice{Text: result.Text, Source: result.Backend}, nil
	}
	return Advice{Text: FallbackHealth(income, expenses), Source: domain.AdviceSourceFallback}, nil
}

// generate returns the first successful backend result
func (p *Provider) generate(ctx context.Context, kind, prompt string) (Result, bool) {
	for _, b := range p.backends {
		if ctx.Err() != nil {
			break
		}

		result := attempt(ctx, b, prompt, p.timeout)
		if result.OK() {
			p.logger.Debug().
				Str("backend", result.Backend).
				Str("kind", kind).
				Dur("duration", result.Duration).
				Msg("Advice generated")
			return result, true
		}

		p.logger.Warn().
			Err(result.Err).
			Str("backend", result.Backend).
			Str("kind", kind).
			Dur("duration", result.Duration).
			Msg("Advice backend failed, trying next")
	}
	return Result{}, false
}

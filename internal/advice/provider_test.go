package advice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	name    string
	text    string
	err     error
	block   bool
	calls   int
	prompts []string
}

func (s *stubBackend) Name() string { return s.name }

func (s *stubBackend) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.text, s.err
}

func newTestProvider(backends ...Backend) *Provider {
	return NewProviderWithBackends(backends, 50*time.Millisecond, zerolog.Nop())
}

func TestInvestmentAdvice_FirstSuccessWins(t *testing.T) {
	first := &stubBackend{name: "openai", text: "buy index funds"}
	second := &stubBackend{name: "gemini", text: "buy gold"}
	p := newTestProvider(first, second)

	got, err := p.InvestmentAdvice(context.Background(), decimal.NewFromInt(10000), domain.RiskModerate, nil)

	require.NoError(t, err)
	assert.Equal(t, Advice{Text: "buy index funds", Source: "openai"}, got)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
}

func TestInvestmentAdvice_FailureFallsThrough(t *testing.T) {
	first := &stubBackend{name: "openai", err: errors.New("connection refused")}
	second := &stubBackend{name: "gemini", text: "  diversify  "}
	p := newTestProvider(first, second)

	got, err := p.InvestmentAdvice(context.Background(), decimal.NewFromInt(10000), domain.RiskModerate, nil)

	require.NoError(t, err)
	assert.Equal(t, "diversify", got.Text)
	assert.Equal(t, "gemini", got.Source)
	assert.Equal(t, 1, first.calls)
}

func TestInvestmentAdvice_EmptyTextFallsThrough(t *testing.T) {
	first := &stubBackend{name: "openai", text: "   "}
	p := newTestProvider(first)

	got, err := p.InvestmentAdvice(context.Background(), decimal.NewFromInt(10000), domain.RiskModerate, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.AdviceSourceFallback, got.Source)
}

func TestInvestmentAdvice_TimeoutFallsThrough(t *testing.T) {
	slow := &stubBackend{name: "openai", block: true}
	fast := &stubBackend{name: "gemini", text: "ok"}
	p := newTestProvider(slow, fast)

	started := time.Now()
	got, err := p.InvestmentAdvice(context.Background(), decimal.NewFromInt(10000), domain.RiskModerate, nil)

	require.NoError(t, err)
	assert.Equal(t, "gemini", got.Source)
	assert.Less(t, time.Since(started), 5*time.Second)
}

func TestInvestmentAdvice_AllFailUsesFallback(t *testing.T) {
	p := newTestProvider(
		&stubBackend{name: "openai", err: errors.New("status 500")},
		&stubBackend{name: "gemini", err: errors.New("malformed body")},
	)

	got, err := p.InvestmentAdvice(context.Background(), decimal.NewFromInt(10000), domain.RiskModerate, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.AdviceSourceFallback, got.Source)
	assert.Equal(t, FallbackInvestment(decimal.NewFromInt(10000), domain.RiskModerate), got.Text)
}

func TestInvestmentAdvice_NoBackends(t *testing.T) {
	p := NewProvider(Config{}, zerolog.Nop())
	assert.Empty(t, p.BackendNames())

	got, err := p.InvestmentAdvice(context.Background(), decimal.NewFromInt(500), domain.RiskConservative, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.AdviceSourceFallback, got.Source)
	assert.Contains(t, got.Text, "Risk profile: Conservative")
}

func TestInvestmentAdvice_PromptIncludesPatterns(t *testing.T) {
	backend := &stubBackend{name: "openai", text: "ok"}
	p := newTestProvider(backend)
	patterns := []domain.CategoryAmount{{Name: domain.CategoryFoodDining, Amount: decimal.NewFromInt(1200)}}

	_, err := p.InvestmentAdvice(context.Background(), decimal.NewFromInt(10000), domain.RiskAggressive, patterns)

	require.NoError(t, err)
	require.Len(t, backend.prompts, 1)
	assert.Contains(t, backend.prompts[0], "User Balance: ₹10,000.00")
	assert.Contains(t, backend.prompts[0], "Risk Profile: Aggressive")
	assert.Contains(t, backend.prompts[0], "Food & Dining: ₹1,200.00")
}

func TestInvestmentAdvice_InvalidInput(t *testing.T) {
	backend := &stubBackend{name: "openai", text: "ok"}
	p := newTestProvider(backend)

	_, err := p.InvestmentAdvice(context.Background(), decimal.NewFromInt(-1), domain.RiskModerate, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = p.InvestmentAdvice(context.Background(), decimal.NewFromInt(100), domain.RiskProfile("Reckless"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRiskProfile)

	_, err = p.InvestmentAdvice(context.Background(), decimal.NewFromInt(100), "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRiskProfile)

	assert.Equal(t, 0, backend.calls, "backends must not be called for invalid input")
}

func TestHealthNarrative(t *testing.T) {
	t.Run("backend text", func(t *testing.T) {
		backend := &stubBackend{name: "gemini", text: "looking good"}
		p := newTestProvider(backend)

		got, err := p.HealthNarrative(context.Background(), decimal.NewFromInt(50000), decimal.NewFromInt(35000))

		require.NoError(t, err)
		assert.Equal(t, Advice{Text: "looking good", Source: "gemini"}, got)
		assert.Contains(t, backend.prompts[0], "Savings Rate: 30.0%")
	})

	t.Run("fallback", func(t *testing.T) {
		p := newTestProvider()

		got, err := p.HealthNarrative(context.Background(), decimal.Zero, decimal.NewFromInt(500))

		require.NoError(t, err)
		assert.Equal(t, domain.AdviceSourceFallback, got.Source)
		assert.Contains(t, got.Text, "Savings rate: 0%")
	})

	t.Run("negative input", func(t *testing.T) {
		p := newTestProvider()

		_, err := p.HealthNarrative(context.Background(), decimal.NewFromInt(100), decimal.NewFromInt(-5))
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})
}

func TestNewProvider_OrderAndKeys(t *testing.T) {
	p := NewProvider(Config{
		Order:  []string{BackendGemini, "unknown", BackendOpenAI},
		OpenAI: OpenAIConfig{APIKey: "sk-test"},
		Gemini: GeminiConfig{APIKey: "g-test"},
	}, zerolog.Nop())
	assert.Equal(t, []string{BackendGemini, BackendOpenAI}, p.BackendNames())

	p = NewProvider(Config{OpenAI: OpenAIConfig{}, Gemini: GeminiConfig{APIKey: "g-test"}}, zerolog.Nop())
	assert.Equal(t, []string{BackendGemini}, p.BackendNames(), "backends without a key are skipped")
}

func TestAttempt_WrapsErrors(t *testing.T) {
	r := attempt(context.Background(), &stubBackend{name: "openai", err: errors.New("boom")}, "p", time.Second)

	assert.False(t, r.OK())
	assert.ErrorIs(t, r.Err, ErrBackendFailed)
	assert.Equal(t, "openai", r.Backend)
}

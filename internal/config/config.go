package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/advice"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string
	AutoMigrate bool

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Advice backends
	Advice            advice.Config
	AdviceHealthFloor int

	// Trend cache
	RedisURL                string
	TrendCacheTTL           time.Duration
	HistoricalTrendCacheTTL time.Duration
	TrendCacheSize          int64

	// S3 report archive
	S3               S3Config
	ArchiveURLExpiry time.Duration

	// Events
	AMQPURL      string
	AMQPExchange string

	// Rate limiting of POST /insights
	InsightsRatePerMinute int
	InsightsRateBurst     int

	// Report worker
	ReportCron string
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
}

// Enabled reports whether an archive bucket is configured
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	p := &envParser{}
	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		AutoMigrate: p.bool("AUTO_MIGRATE", true),
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnvList("CORS_ORIGINS", "http://localhost:3000"),
		Env:         getEnv("ENV", "development"),
		Advice: advice.Config{
			Order:   getEnvList("ADVICE_BACKENDS", strings.Join(advice.DefaultOrder(), ",")),
			Timeout: p.duration("ADVICE_TIMEOUT", advice.DefaultTimeout),
			OpenAI: advice.OpenAIConfig{
				APIKey:       getEnv("OPENAI_API_KEY", ""),
				Organization: getEnv("OPENAI_ORG", ""),
				Model:        getEnv("OPENAI_MODEL", advice.DefaultOpenAIModel),
				URL:          getEnv("OPENAI_URL", advice.DefaultOpenAIURL),
			},
			Gemini: advice.GeminiConfig{
				APIKey: getEnv("GEMINI_API_KEY", ""),
				URL:    getEnv("GEMINI_URL", advice.DefaultGeminiURL),
			},
		},
		AdviceHealthFloor:       p.int("ADVICE_HEALTH_SCORE_FLOOR", 0),
		RedisURL:                getEnv("REDIS_URL", ""),
		TrendCacheTTL:           p.duration("TREND_CACHE_TTL", 5*time.Minute),
		HistoricalTrendCacheTTL: p.duration("TREND_CACHE_HISTORICAL_TTL", 15*time.Minute),
		TrendCacheSize:          int64(p.int("TREND_CACHE_SIZE", 10000)),
		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""), // Empty = use AWS, set for MinIO/LocalStack
		},
		ArchiveURLExpiry:      p.duration("ARCHIVE_URL_EXPIRY", 15*time.Minute),
		AMQPURL:               getEnv("AMQP_URL", ""),
		AMQPExchange:          getEnv("AMQP_EXCHANGE", "salarytrack.events"),
		InsightsRatePerMinute: p.int("INSIGHTS_RATE_PER_MINUTE", 6),
		InsightsRateBurst:     p.int("INSIGHTS_RATE_BURST", 3),
		ReportCron:            getEnv("REPORT_CRON", "0 3 1 * *"),
	}

	if p.err != nil {
		return nil, p.err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.AdviceHealthFloor < 0 || c.AdviceHealthFloor > 100 {
		return fmt.Errorf("ADVICE_HEALTH_SCORE_FLOOR must be between 0 and 100")
	}
	if c.Advice.Timeout <= 0 {
		return fmt.Errorf("ADVICE_TIMEOUT must be positive")
	}
	for _, name := range c.Advice.Order {
		if name != advice.BackendOpenAI && name != advice.BackendGemini {
			return fmt.Errorf("ADVICE_BACKENDS contains unknown backend %q", name)
		}
	}
	if c.TrendCacheTTL <= 0 || c.HistoricalTrendCacheTTL <= 0 {
		return fmt.Errorf("trend cache TTLs must be positive")
	}
	if c.InsightsRatePerMinute <= 0 || c.InsightsRateBurst <= 0 {
		return fmt.Errorf("insights rate limit must be positive")
	}
	if _, err := cron.ParseStandard(c.ReportCron); err != nil {
		return fmt.Errorf("REPORT_CRON is invalid: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping empty items
func getEnvList(key, defaultValue string) []string {
	parts := strings.Split(getEnv(key, defaultValue), ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// envParser records the first malformed value
type envParser struct {
	err error
}

func (p *envParser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%s has invalid value %q: %w", key, value, err)
	}
}

func (p *envParser) int(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.fail(key, value, err)
		return defaultValue
	}
	return n
}

func (p *envParser) bool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		p.fail(key, value, err)
		return defaultValue
	}
	return b
}

func (p *envParser) duration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.fail(key, value, err)
		return defaultValue
	}
	return d
}

package advice

import "time"

// Backend names accepted in Config.Order
const (
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

const (
	DefaultTimeout     = 30 * time.Second
	DefaultOpenAIURL   = "https://api.openai.com/v1/chat/completions"
	DefaultOpenAIModel = "gpt-3.5-turbo"
	DefaultGeminiURL   = "https://generativelanguage.googleapis.com/v1beta/models/gemini-pro:generateContent"
)

// Config selects and configures the remote text-generation backends.
// A backend listed in Order is only used when its API key is set.
type Config struct {
	Order   []string
	Timeout time.Duration
	OpenAI  OpenAIConfig
	Gemini  GeminiConfig
}

type OpenAIConfig struct {
	APIKey       string
	Organization string
	Model        string
	URL          string
}

type GeminiConfig struct {
	APIKey string
	URL    string
}

// DefaultOrder is the backend priority used when none is configured
func DefaultOrder() []string {
	return []string{BackendOpenAI, BackendGemini}
}

package leadscout

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	provider  string // gemini, openai, ollama, custom
	apiKey    string
	baseURL   string
	generator Generator

	model          string
	temperature    *float32
	searchEnabled  *bool
	extended       bool
	batchSize      int
	country        string
	region         string
	language       string
	phonePrefix    string
	maxConcurrency int
	batchTimeout   time.Duration

	fallbackNumber   string
	fallbackGreeting string

	dailyTokens   int64
	monthlyTokens int64

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithGemini uses Google's Gemini API with Google Search grounding.
func WithGemini(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = "gemini"
		c.apiKey = apiKey
	})
}

// WithOpenAI uses an OpenAI-compatible chat completion API.
// baseURL may be empty for api.openai.com. No web search is available.
func WithOpenAI(apiKey, baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = "openai"
		c.apiKey = apiKey
		c.baseURL = baseURL
	})
}

// WithOllama uses a local Ollama server. serverURL may be empty for localhost.
func WithOllama(serverURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = "ollama"
		c.baseURL = serverURL
	})
}

// WithGenerator plugs in a custom model client.
func WithGenerator(g Generator) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = "custom"
		c.generator = g
	})
}

// WithBaseURL overrides the provider endpoint (e.g. a proxy in front of Gemini).
func WithBaseURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = url
	})
}

// WithModel sets the model name. Defaults depend on the provider.
func WithModel(model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.model = model
	})
}

// WithTemperature sets the sampling temperature. Default: 0.1.
func WithTemperature(t float32) Option {
	return optionFunc(func(c *clientConfig) {
		c.temperature = &t
	})
}

// WithSearchGrounding toggles the provider's web search tool. Default: on.
func WithSearchGrounding(enabled bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchEnabled = &enabled
	})
}

// WithExtendedMode runs five query variations per search instead of three.
func WithExtendedMode() Option {
	return optionFunc(func(c *clientConfig) {
		c.extended = true
	})
}

// WithBatchSize sets how many profiles each variation asks for. Default: 12.
func WithBatchSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.batchSize = n
	})
}

// WithRegion targets another market. Defaults to Brazil ("brasil", "BRAZIL", "Portuguese", "55").
func WithRegion(country, region, language, phonePrefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.country = country
		c.region = region
		c.language = language
		c.phonePrefix = phonePrefix
	})
}

// WithMaxConcurrency caps concurrent model calls per search. Default: unlimited.
func WithMaxConcurrency(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxConcurrency = n
	})
}

// WithBatchTimeout bounds each model call. Default: 60s.
func WithBatchTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.batchTimeout = d
	})
}

// WithContactFallback sets the wa.me number and greeting used on profiles
// where the model found no WhatsApp link.
func WithContactFallback(number, greeting string) Option {
	return optionFunc(func(c *clientConfig) {
		c.fallbackNumber = number
		c.fallbackGreeting = greeting
	})
}

// WithTokenBudget rejects searches once the client has spent the given
// number of model tokens in the current UTC day or month. Zero disables a limit.
// Rejections surface as ErrRateLimited.
func WithTokenBudget(daily, monthly int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.dailyTokens = daily
		c.monthlyTokens = monthly
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

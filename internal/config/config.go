package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/leadscout/internal/domain"
	"github.com/kailas-cloud/leadscout/internal/domain/profile"
	"github.com/kailas-cloud/leadscout/internal/domain/search/mode"
)

// Generator providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// defaultModels is the model used when generator.model is empty.
var defaultModels = map[string]string{
	ProviderGemini: "gemini-2.5-flash",
	ProviderOpenAI: "gpt-4o-mini",
	ProviderOllama: "llama3.1",
}

// builtinYAML is used when no config file exists for the environment,
// so the CLI works with nothing but GEMINI_API_KEY exported.
const builtinYAML = `
http:
  port: ${PORT:-8080}
generator:
  provider: ${GENERATOR_PROVIDER:-gemini}
  api_key: ${GEMINI_API_KEY}
search:
  profile: compact
`

// Config holds the leadscout configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Generator GeneratorConfig `yaml:"generator"`
	Search    SearchConfig    `yaml:"search"`
	Cards     CardsConfig     `yaml:"cards"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"` // must outlive a whole search
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// GeneratorConfig selects and configures the model provider.
type GeneratorConfig struct {
	Provider      string       `yaml:"provider"` // gemini, openai, ollama
	APIKey        string       `yaml:"api_key"`
	BaseURL       string       `yaml:"base_url"`
	Model         string       `yaml:"model"`
	Temperature   *float32     `yaml:"temperature"`
	SearchEnabled *bool        `yaml:"search_enabled"`
	Budget        BudgetConfig `yaml:"budget"`
}

// BudgetConfig caps generation tokens per UTC day and month. Zero means unlimited.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"`
	Action            string `yaml:"action"` // warn (default), reject
}

// SearchConfig tunes prompts and fan-out.
type SearchConfig struct {
	Profile         string `yaml:"profile"` // compact, extended
	BatchSize       int    `yaml:"batch_size"`
	Country         string `yaml:"country"`
	Region          string `yaml:"region"`
	Language        string `yaml:"language"`
	PhonePrefix     string `yaml:"phone_prefix"`
	MaxConcurrency  int    `yaml:"max_concurrency"` // 0 = all variations at once
	BatchTimeoutSec int    `yaml:"batch_timeout_sec"`
}

// CardsConfig holds lead card settings.
type CardsConfig struct {
	FallbackWhatsapp string `yaml:"fallback_whatsapp"`
	Greeting         string `yaml:"greeting"`
}

// Load reads configuration by environment name (local, dev, prod).
// A missing file falls back to the built-in defaults.
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if errors.Is(err, fs.ErrNotExist) {
		return parse([]byte(builtinYAML))
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return parse(data)
}

// LoadFile reads configuration from an explicit path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	def := domain.DefaultPromptConfig()

	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 90
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	if c.Generator.Provider == "" {
		c.Generator.Provider = ProviderGemini
	}
	if c.Generator.Model == "" {
		c.Generator.Model = defaultModels[c.Generator.Provider]
	}
	if c.Generator.Temperature == nil {
		t := def.Temperature
		c.Generator.Temperature = &t
	}
	if c.Generator.SearchEnabled == nil {
		on := def.SearchEnabled
		c.Generator.SearchEnabled = &on
	}

	if c.Generator.Budget.Action == "" {
		c.Generator.Budget.Action = "warn"
	}

	if c.Search.Profile == "" {
		c.Search.Profile = string(mode.Compact)
	}
	if c.Search.BatchSize == 0 {
		c.Search.BatchSize = def.BatchSize
	}
	if c.Search.Country == "" {
		c.Search.Country = def.Country
	}
	if c.Search.Region == "" {
		c.Search.Region = def.Region
	}
	if c.Search.Language == "" {
		c.Search.Language = def.Language
	}
	if c.Search.PhonePrefix == "" {
		c.Search.PhonePrefix = def.PhonePrefix
	}
	if c.Search.BatchTimeoutSec <= 0 {
		c.Search.BatchTimeoutSec = 60
	}

	if c.Cards.Greeting == "" {
		c.Cards.Greeting = "Olá! Encontrei seu perfil no Instagram e gostaria de saber mais sobre seus serviços."
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Generator.Provider {
	case ProviderGemini, ProviderOpenAI:
		if c.Generator.APIKey == "" {
			return fmt.Errorf("generator.api_key is required for provider %q", c.Generator.Provider)
		}
	case ProviderOllama:
	default:
		return fmt.Errorf("generator.provider %q: %w", c.Generator.Provider, domain.ErrUnknownProvider)
	}
	if t := c.Generator.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("generator.temperature must be between 0 and 2, got %g", *t)
	}

	if b := c.Generator.Budget; b.DailyTokenLimit < 0 || b.MonthlyTokenLimit < 0 {
		return fmt.Errorf("generator.budget limits must not be negative")
	}
	if a := c.Generator.Budget.Action; a != "warn" && a != "reject" {
		return fmt.Errorf("generator.budget.action must be warn or reject, got %q", a)
	}

	if !mode.Mode(c.Search.Profile).IsValid() {
		return fmt.Errorf("search.profile must be %q or %q, got %q", mode.Compact, mode.Extended, c.Search.Profile)
	}
	if c.Search.BatchSize < 1 || c.Search.BatchSize > 50 {
		return fmt.Errorf("search.batch_size must be between 1 and 50, got %d", c.Search.BatchSize)
	}
	if c.Search.MaxConcurrency < 0 {
		return fmt.Errorf("search.max_concurrency must not be negative, got %d", c.Search.MaxConcurrency)
	}
	return nil
}

// PromptConfig returns the prompt settings for the search service.
func (c *Config) PromptConfig() domain.PromptConfig {
	pc := domain.PromptConfig{
		Model:       c.Generator.Model,
		BatchSize:   c.Search.BatchSize,
		Country:     c.Search.Country,
		Region:      c.Search.Region,
		Language:    c.Search.Language,
		PhonePrefix: c.Search.PhonePrefix,
	}
	if c.Generator.Temperature != nil {
		pc.Temperature = *c.Generator.Temperature
	}
	if c.Generator.SearchEnabled != nil {
		pc.SearchEnabled = *c.Generator.SearchEnabled
	}
	return pc
}

// Mode returns the configured variation mode.
func (c *Config) Mode() mode.Mode { return mode.Mode(c.Search.Profile) }

// BatchTimeout returns the per-batch generator timeout.
func (c *Config) BatchTimeout() time.Duration {
	return time.Duration(c.Search.BatchTimeoutSec) * time.Second
}

// ContactFallback returns the wa.me fallback used on lead cards.
func (c *Config) ContactFallback() profile.ContactFallback {
	return profile.ContactFallback{Number: c.Cards.FallbackWhatsapp, Greeting: c.Cards.Greeting}
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// Relative to the source file, for tests and `go run` from subdirectories.
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b)))
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// envVarRegex matches ${VAR} and ${VAR:-default}.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/trapwire-labs/trapwire/pkg/logger"
)

// EnrichProvider defines the backend used for persona reply enrichment
type EnrichProvider string

const (
	ProviderNone       EnrichProvider = "none"       // No enrichment, template replies only
	ProviderOllama     EnrichProvider = "ollama"     // Local Ollama server
	ProviderOpenRouter EnrichProvider = "openrouter" // OpenRouter (default, has free tier)
	ProviderOpenAI     EnrichProvider = "openai"     // Direct OpenAI API
	ProviderCustom     EnrichProvider = "custom"     // Custom OpenAI-compatible endpoint
)

// Config holds global settings for the Trapwire engagement engine.
// All settings can be configured via environment variables, a YAML file,
// or programmatically.
type Config struct {
	// === Server ===
	ListenAddr string `yaml:"listen_addr"` // HTTP listen address (default: ":8080")
	APIKey     string `yaml:"api_key"`     // Required x-api-key for all endpoints except /health and /stats

	// === Classification ===
	ScamThreshold float64 `yaml:"scam_threshold"` // Ensemble probability above this = scam (default: 0.60)
	AccuracyGate  float64 `yaml:"accuracy_gate"`  // Minimum CV accuracy to trust the ensemble (default: 0.85)
	ModelPath     string  `yaml:"model_path"`     // Path to a trained model artifact (optional)

	// === Engagement ===
	MaxTurns        int           `yaml:"max_turns"`        // Scammer turns before forced termination (default: 12)
	IntelThreshold  int           `yaml:"intel_threshold"`  // Distinct values in one category that end a session (default: 2)
	SessionTTL      time.Duration `yaml:"session_ttl"`      // Idle session expiry (default: 30m)
	CleanupInterval time.Duration `yaml:"cleanup_interval"` // Expired-session sweep interval (default: 5m)

	// === Enrichment Provider ===
	EnrichProvider  EnrichProvider `yaml:"enrich_provider"` // "ollama", "openrouter", "openai", "custom", "none"
	EnrichAPIKey    string         `yaml:"enrich_api_key"`
	EnrichModel     string         `yaml:"enrich_model"`
	EnrichBaseURL   string         `yaml:"enrich_base_url"`
	EnrichTimeoutMs int            `yaml:"enrich_timeout_ms"` // Timeout for enrichment calls (default: 8000)

	// === Reporting ===
	ReportURL       string `yaml:"report_url"`        // Callback endpoint for final reports (optional)
	ReportAPIKey    string `yaml:"report_api_key"`    // Bearer token for the callback
	ReportTimeoutMs int    `yaml:"report_timeout_ms"` // Timeout for report POSTs (default: 10000)

	// === Storage ===
	RedisAddr     string `yaml:"redis_addr"` // Redis address for session state (optional, in-memory if empty)
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	PostgresDSN   string `yaml:"postgres_dsn"` // Postgres DSN for the session archive (optional)

	// === Feature Flags ===
	EnableSemantics bool `yaml:"enable_semantics"` // Embedding similarity scam detection (requires embedder)
	EnableNER       bool `yaml:"enable_ner"`       // ONNX named-entity augmentation for extraction

	// === Rate Limiting ===
	RateLimitPerMin int `yaml:"rate_limit_per_min"` // Requests per client per minute (default: 60, 0 disables)

	// === Logging ===
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // json or console
}

// NewDefaultConfig creates a Config with sensible defaults.
// All settings can be overridden via environment variables.
func NewDefaultConfig() *Config {
	cfg := &Config{
		ListenAddr: GetEnv("TRAPWIRE_LISTEN_ADDR", ":8080"),
		APIKey:     GetEnv("TRAPWIRE_API_KEY", ""),

		ScamThreshold: GetEnvFloat("TRAPWIRE_SCAM_THRESHOLD", 0.60),
		AccuracyGate:  GetEnvFloat("TRAPWIRE_ACCURACY_GATE", 0.85),
		ModelPath:     GetEnv("TRAPWIRE_MODEL_PATH", ""),

		MaxTurns:        clampInt(GetEnvInt("TRAPWIRE_MAX_TURNS", 12), 1, 1000),
		IntelThreshold:  clampInt(GetEnvInt("TRAPWIRE_INTEL_THRESHOLD", 2), 1, 100),
		SessionTTL:      time.Duration(GetEnvInt("TRAPWIRE_SESSION_TTL_SECONDS", 1800)) * time.Second,
		CleanupInterval: time.Duration(GetEnvInt("TRAPWIRE_CLEANUP_INTERVAL_SECONDS", 300)) * time.Second,

		EnrichProvider:  detectEnrichProvider(),
		EnrichAPIKey:    GetEnv("TRAPWIRE_ENRICH_API_KEY", os.Getenv("OPENROUTER_API_KEY")),
		EnrichModel:     GetEnv("TRAPWIRE_ENRICH_MODEL", "meta-llama/llama-3.1-8b-instruct:free"),
		EnrichBaseURL:   GetEnv("TRAPWIRE_ENRICH_BASE_URL", ""),
		EnrichTimeoutMs: GetEnvInt("TRAPWIRE_ENRICH_TIMEOUT_MS", 8000),

		ReportURL:       GetEnv("TRAPWIRE_REPORT_URL", ""),
		ReportAPIKey:    GetEnv("TRAPWIRE_REPORT_API_KEY", ""),
		ReportTimeoutMs: GetEnvInt("TRAPWIRE_REPORT_TIMEOUT_MS", 10000),

		RedisAddr:     GetEnv("TRAPWIRE_REDIS_ADDR", ""),
		RedisPassword: GetEnv("TRAPWIRE_REDIS_PASSWORD", ""),
		RedisDB:       GetEnvInt("TRAPWIRE_REDIS_DB", 0),
		PostgresDSN:   GetEnv("TRAPWIRE_POSTGRES_DSN", ""),

		EnableSemantics: GetEnvBool("TRAPWIRE_ENABLE_SEMANTICS", false),
		EnableNER:       GetEnvBool("TRAPWIRE_ENABLE_NER", false),

		RateLimitPerMin: GetEnvInt("TRAPWIRE_RATE_LIMIT_PER_MIN", 60),

		LogLevel:  GetEnv("TRAPWIRE_LOG_LEVEL", "info"),
		LogFormat: GetEnv("TRAPWIRE_LOG_FORMAT", "json"),
	}

	return cfg
}

// Load builds the config from defaults, an optional YAML file named by
// TRAPWIRE_CONFIG, and environment variables. File values override
// defaults; environment variables override both.
func Load() (*Config, error) {
	path := os.Getenv("TRAPWIRE_CONFIG")
	if path == "" {
		return NewDefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	// Environment variables win over file values.
	applyEnvOverrides(cfg)

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRAPWIRE_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("TRAPWIRE_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("TRAPWIRE_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("TRAPWIRE_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("TRAPWIRE_REPORT_URL"); v != "" {
		cfg.ReportURL = v
	}
	if v := os.Getenv("TRAPWIRE_MODEL_PATH"); v != "" {
		cfg.ModelPath = v
	}
}

func detectEnrichProvider() EnrichProvider {
	if p := os.Getenv("TRAPWIRE_ENRICH_PROVIDER"); p != "" {
		return EnrichProvider(p)
	}
	if os.Getenv("OPENROUTER_API_KEY") != "" || os.Getenv("TRAPWIRE_ENRICH_API_KEY") != "" {
		return ProviderOpenRouter
	}
	if os.Getenv("OPENAI_API_KEY") != "" {
		return ProviderOpenAI
	}
	return ProviderNone
}

// clampInt ensures a value is within bounds
func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Validate checks that configuration values are coherent.
// In production mode (TRAPWIRE_ENV=production) the API key is mandatory.
func (c *Config) Validate() error {
	isProduction := strings.ToLower(os.Getenv("TRAPWIRE_ENV")) == "production" ||
		strings.ToLower(os.Getenv("TRAPWIRE_ENV")) == "prod"

	var problems []string

	if isProduction && c.APIKey == "" {
		problems = append(problems, "TRAPWIRE_API_KEY (API key for endpoint authentication)")
	}
	if c.ScamThreshold < 0 || c.ScamThreshold > 1 {
		problems = append(problems, "TRAPWIRE_SCAM_THRESHOLD (must be in [0,1])")
	}
	if c.AccuracyGate < 0 || c.AccuracyGate > 1 {
		problems = append(problems, "TRAPWIRE_ACCURACY_GATE (must be in [0,1])")
	}
	if c.MaxTurns < 1 {
		problems = append(problems, "TRAPWIRE_MAX_TURNS (must be >= 1)")
	}
	if c.IntelThreshold < 1 {
		problems = append(problems, "TRAPWIRE_INTEL_THRESHOLD (must be >= 1)")
	}

	if !isProduction && c.APIKey == "" {
		logger.NewDefault().WithComponent("config").Warn().
			Msg("TRAPWIRE_API_KEY not set, endpoints are unauthenticated (dev mode only)")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, ", "))
	}

	return nil
}

// MustValidate calls Validate and fatally exits if validation fails.
// Call this at startup before starting the server.
func (c *Config) MustValidate() {
	log := logger.NewDefault().WithComponent("config")
	if err := c.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuration validation failed")
	}
	log.Info().Msg("configuration validated")
}

// Helper functions for environment variable parsing
// These are exported for use by other packages (e.g., pkg/ml)

// GetEnv returns the value of an environment variable or a default value.
func GetEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvBool returns the boolean value of an environment variable or a default value.
func GetEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

// GetEnvFloat returns the float64 value of an environment variable or a default value.
func GetEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return defaultValue
}

// GetEnvInt returns the integer value of an environment variable or a default value.
func GetEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

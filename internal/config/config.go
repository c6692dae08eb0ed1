package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider identifies the responder backend.
type Provider string

const (
	// ProviderMock uses the built-in rule-based concierge. Default.
	ProviderMock Provider = "mock"

	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderBedrock   Provider = "bedrock"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection (optional; empty URL disables persistence)
	SurrealDBURL       string `yaml:"surrealdb_url"`
	SurrealDBNamespace string `yaml:"surrealdb_namespace"`
	SurrealDBDatabase  string `yaml:"surrealdb_database"`
	SurrealDBUser      string `yaml:"surrealdb_user"`
	SurrealDBPass      string `yaml:"surrealdb_pass"`
	SurrealDBAuthLevel string `yaml:"surrealdb_auth_level"`

	// Responder
	Provider        Provider `yaml:"provider"`
	LLMModel        string   `yaml:"llm_model"`
	OllamaHost      string   `yaml:"ollama_host"`
	OpenAIAPIKey    string   `yaml:"-"`
	AnthropicAPIKey string   `yaml:"-"`
	BedrockModelID  string   `yaml:"bedrock_model_id"`

	// Simulated response latency bounds
	MinLatency time.Duration `yaml:"min_latency"`
	MaxLatency time.Duration `yaml:"max_latency"`

	// Server
	ServerAddr string `yaml:"server_addr"`

	// Logging
	LogFile      string `yaml:"log_file"`
	LogLevelName string `yaml:"log_level"`
	// LogLevel is parsed from LogLevelName; set that instead.
	LogLevel slog.Level `yaml:"-"`
}

// Load reads configuration from environment variables, applying an optional
// YAML overlay file (AURA_CONFIG_FILE) first. Environment always wins.
func Load() Config {
	cfg := Config{
		SurrealDBNamespace: "concierge",
		SurrealDBDatabase:  "aura",
		SurrealDBUser:      "root",
		SurrealDBPass:      "root",
		SurrealDBAuthLevel: "root",

		Provider:       ProviderMock,
		LLMModel:       "llama3.2",
		OllamaHost:     "http://localhost:11434",
		BedrockModelID: "anthropic.claude-3-haiku-20240307-v1:0",

		MinLatency: 500 * time.Millisecond,
		MaxLatency: 2 * time.Second,

		ServerAddr:   ":8585",
		LogFile:      "/tmp/aura.log",
		LogLevelName: "INFO",
	}

	if path := os.Getenv("AURA_CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			slog.Warn("failed to load config file, using defaults", "file", path, "error", err)
		}
	}

	cfg.SurrealDBURL = getEnv("SURREALDB_URL", cfg.SurrealDBURL)
	cfg.SurrealDBNamespace = getEnv("SURREALDB_NAMESPACE", cfg.SurrealDBNamespace)
	cfg.SurrealDBDatabase = getEnv("SURREALDB_DATABASE", cfg.SurrealDBDatabase)
	cfg.SurrealDBUser = getEnv("SURREALDB_USER", cfg.SurrealDBUser)
	cfg.SurrealDBPass = getEnv("SURREALDB_PASS", cfg.SurrealDBPass)
	cfg.SurrealDBAuthLevel = getEnv("SURREALDB_AUTH_LEVEL", cfg.SurrealDBAuthLevel)

	cfg.Provider = Provider(getEnv("AURA_PROVIDER", string(cfg.Provider)))
	cfg.LLMModel = getEnv("AURA_LLM_MODEL", cfg.LLMModel)
	cfg.OllamaHost = getEnv("OLLAMA_HOST", cfg.OllamaHost)
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.BedrockModelID = getEnv("AURA_BEDROCK_MODEL_ID", cfg.BedrockModelID)

	cfg.MinLatency = getEnvDuration("AURA_MIN_LATENCY_MS", cfg.MinLatency)
	cfg.MaxLatency = getEnvDuration("AURA_MAX_LATENCY_MS", cfg.MaxLatency)
	if cfg.MaxLatency < cfg.MinLatency {
		cfg.MaxLatency = cfg.MinLatency
	}

	cfg.ServerAddr = getEnv("AURA_SERVER_ADDR", cfg.ServerAddr)
	cfg.LogFile = getEnv("AURA_LOG_FILE", cfg.LogFile)
	cfg.LogLevelName = getEnv("AURA_LOG_LEVEL", cfg.LogLevelName)
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)

	return cfg
}

// applyFile overlays values from a YAML config file.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Persistent reports whether a SurrealDB backend is configured.
func (c *Config) Persistent() bool {
	return c.SurrealDBURL != ""
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	ms, err := strconv.Atoi(val)
	if err != nil || ms < 0 {
		return defaultVal
	}
	return time.Duration(ms) * time.Millisecond
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

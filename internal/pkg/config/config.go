package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

// Policies makes the per-call error posture explicit instead of implicit.
// Generation is always fail-closed; the destination assistance calls follow
// AssistFailOpen (failure treated as "valid" / "no suggestion").
type Policies struct {
	AssistFailOpen bool
}

type GenAIConfig struct {
	APIKey     string
	ImageModel string
}

type Config struct {
	Repositories  RepositoriesConfig
	GenAI         GenAIConfig
	Policies      Policies
	ServerPort    string
	MetricsPort   string
	PprofPort     string
	BaseURL       string
	SessionSecret string
	AssistDelay   time.Duration
	ShutdownGrace time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "voyago"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
		},
		GenAI: GenAIConfig{
			APIKey:     os.Getenv("GEMINI_API_KEY"),
			ImageModel: getEnvOrDefault("GEMINI_IMAGE_MODEL", "imagen-4.0-generate-001"),
		},
		Policies: Policies{
			AssistFailOpen: getEnvBoolOrDefault("ASSIST_FAIL_OPEN", true),
		},
		ServerPort:    getEnvOrDefault("SERVER_PORT", "8091"),
		MetricsPort:   getEnvOrDefault("METRICS_PORT", "9092"),
		PprofPort:     getEnvOrDefault("PPROF_PORT", "6060"),
		BaseURL:       getEnvOrDefault("BASE_URL", "http://localhost:8091"),
		SessionSecret: getEnvOrDefault("SESSION_SECRET", ""),
		AssistDelay:   getEnvDurationOrDefault("ASSIST_DEBOUNCE", time.Second),
		ShutdownGrace: getEnvDurationOrDefault("SHUTDOWN_GRACE", 5*time.Second),
	}

	if cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

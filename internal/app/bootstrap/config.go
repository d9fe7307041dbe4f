package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration.
// It merges file defaults and environment overrides to support both local and deployed runs.
type Config struct {
	ServiceID string

	HTTPPort int

	DatabaseURL string
	RedisURL    string
	MaxDBConns  int

	BcryptCost int

	MaxLoginAttempts int
	AttemptWindow    time.Duration

	SessionTTL    time.Duration
	IdleTimeout   time.Duration
	SecureCookies bool

	ResetTokenTTL time.Duration
	ResetBaseURL  string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	WorkerConcurrency int
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay internal.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL string `yaml:"postgres_url"`
		RedisURL    string `yaml:"redis_url"`
	} `yaml:"dependencies"`
	Auth struct {
		BcryptCost       int    `yaml:"bcrypt_cost"`
		MaxLoginAttempts int    `yaml:"max_login_attempts"`
		AttemptWindowMin int    `yaml:"attempt_window_minutes"`
		SessionTTLHours  int    `yaml:"session_ttl_hours"`
		IdleTimeoutMin   int    `yaml:"idle_timeout_minutes"`
		SecureCookies    bool   `yaml:"secure_cookies"`
		ResetTokenTTLMin int    `yaml:"reset_token_ttl_minutes"`
		ResetBaseURL     string `yaml:"reset_base_url"`
	} `yaml:"auth"`
	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		From     string `yaml:"from"`
	} `yaml:"smtp"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// A .env file, when present, is loaded first so its values participate in the
// env-override pass.
func LoadConfig(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ServiceID:         "mvc08-backoffice",
		HTTPPort:          8080,
		MaxDBConns:        20,
		BcryptCost:        12,
		MaxLoginAttempts:  5,
		AttemptWindow:     15 * time.Minute,
		SessionTTL:        12 * time.Hour,
		IdleTimeout:       30 * time.Minute,
		ResetTokenTTL:     time.Hour,
		SMTPPort:          587,
		WorkerConcurrency: 4,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if f.Auth.BcryptCost > 0 {
			cfg.BcryptCost = f.Auth.BcryptCost
		}
		if f.Auth.MaxLoginAttempts > 0 {
			cfg.MaxLoginAttempts = f.Auth.MaxLoginAttempts
		}
		if f.Auth.AttemptWindowMin > 0 {
			cfg.AttemptWindow = time.Duration(f.Auth.AttemptWindowMin) * time.Minute
		}
		if f.Auth.SessionTTLHours > 0 {
			cfg.SessionTTL = time.Duration(f.Auth.SessionTTLHours) * time.Hour
		}
		if f.Auth.IdleTimeoutMin > 0 {
			cfg.IdleTimeout = time.Duration(f.Auth.IdleTimeoutMin) * time.Minute
		}
		cfg.SecureCookies = f.Auth.SecureCookies
		if f.Auth.ResetTokenTTLMin > 0 {
			cfg.ResetTokenTTL = time.Duration(f.Auth.ResetTokenTTLMin) * time.Minute
		}
		if f.Auth.ResetBaseURL != "" {
			cfg.ResetBaseURL = f.Auth.ResetBaseURL
		}
		if f.SMTP.Host != "" {
			cfg.SMTPHost = f.SMTP.Host
		}
		if f.SMTP.Port > 0 {
			cfg.SMTPPort = f.SMTP.Port
		}
		if f.SMTP.Username != "" {
			cfg.SMTPUsername = f.SMTP.Username
		}
		if f.SMTP.From != "" {
			cfg.SMTPFrom = f.SMTP.From
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.MaxDBConns = envInt("DB_MAX_CONNS", cfg.MaxDBConns)
	cfg.BcryptCost = envInt("BCRYPT_ROUNDS", cfg.BcryptCost)
	cfg.MaxLoginAttempts = envInt("MAX_LOGIN_ATTEMPTS", cfg.MaxLoginAttempts)
	cfg.AttemptWindow = time.Duration(envInt("ATTEMPT_WINDOW_MINUTES", int(cfg.AttemptWindow.Minutes()))) * time.Minute
	cfg.SessionTTL = time.Duration(envInt("SESSION_TTL_HOURS", int(cfg.SessionTTL.Hours()))) * time.Hour
	cfg.IdleTimeout = time.Duration(envInt("IDLE_TIMEOUT_MINUTES", int(cfg.IdleTimeout.Minutes()))) * time.Minute
	cfg.SecureCookies = envBool("SECURE_COOKIES", cfg.SecureCookies)
	cfg.ResetTokenTTL = time.Duration(envInt("RESET_TOKEN_TTL_MINUTES", int(cfg.ResetTokenTTL.Minutes()))) * time.Minute
	cfg.ResetBaseURL = envOrDefault("RESET_BASE_URL", cfg.ResetBaseURL)
	cfg.SMTPHost = envOrDefault("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = envInt("SMTP_PORT", cfg.SMTPPort)
	cfg.SMTPUsername = envOrDefault("SMTP_USERNAME", cfg.SMTPUsername)
	cfg.SMTPPassword = envOrDefault("SMTP_PASSWORD", cfg.SMTPPassword)
	cfg.SMTPFrom = envOrDefault("SMTP_FROM", cfg.SMTPFrom)
	cfg.WorkerConcurrency = envInt("WORKER_CONCURRENCY", cfg.WorkerConcurrency)

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// envBool parses common boolean env forms while keeping a deterministic fallback.
func envBool(name string, fallback bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return fallback
	}
}

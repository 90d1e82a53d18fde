package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv        string
	Port          string
	DatabaseURL   string
	JWTSecret     string
	StoragePath   string
	GeoIPDBPath   string
	DefaultLocale string
	StylesPath    string

	GeminiAPIKey    string
	GeminiModel     string
	GeminiTextModel string
	GeminiBaseURL   string

	DashScopeAPIKey   string
	DashScopeModel    string
	DashScopeBaseURL  string
	DashScopePollWait time.Duration
	DashScopePollTick time.Duration

	ProviderTimeout time.Duration
	ProviderRetries int
	RetryBaseDelay  time.Duration
	RequestDeadline time.Duration

	RateLimitBurst  int
	RateLimitWindow time.Duration

	FreePlanLimit  int
	ProPlanLimit   int
	QuotaCycleDays int

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		StoragePath:   getEnv("STORAGE_PATH", "./storage"),
		GeoIPDBPath:   os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "pt"),
		StylesPath:    os.Getenv("STYLES_PATH"),

		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp-image-generation"),
		GeminiTextModel: getEnv("GEMINI_TEXT_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:   getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),

		DashScopeAPIKey:   os.Getenv("DASHSCOPE_API_KEY"),
		DashScopeModel:    getEnv("DASHSCOPE_MODEL", "wanx2.1-t2i-turbo"),
		DashScopeBaseURL:  getEnv("DASHSCOPE_BASE_URL", "https://dashscope-intl.aliyuncs.com/api/v1"),
		DashScopePollWait: time.Second * time.Duration(getEnvInt("DASHSCOPE_POLL_MAX_WAIT_SECONDS", 60)),
		DashScopePollTick: time.Second * time.Duration(getEnvInt("DASHSCOPE_POLL_INTERVAL_SECONDS", 2)),

		ProviderTimeout: time.Second * time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 90)),
		ProviderRetries: getEnvInt("PROVIDER_RETRIES", 2),
		RetryBaseDelay:  time.Millisecond * time.Duration(getEnvInt("RETRY_BASE_DELAY_MS", 500)),
		RequestDeadline: time.Second * time.Duration(getEnvInt("REQUEST_DEADLINE_SECONDS", 300)),

		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 5),
		RateLimitWindow: time.Second * time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)),

		FreePlanLimit:  getEnvInt("FREE_PLAN_LIMIT", 3),
		ProPlanLimit:   getEnvInt("PRO_PLAN_LIMIT", 50),
		QuotaCycleDays: getEnvInt("QUOTA_CYCLE_DAYS", 30),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 320)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if cfg.QuotaCycleDays <= 0 {
		return nil, fmt.Errorf("QUOTA_CYCLE_DAYS must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

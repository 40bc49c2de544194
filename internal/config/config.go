package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string

	DartAPIBaseURL string
	DartAPIKey     string
	DartTimeoutMs  int
	RangeWorkers   int

	GeminiAPIKey string
	GeminiModels []string

	HTTPAddr      string
	MaxRangeYears int

	DirectoryRefreshInterval time.Duration
	DirectoryMaxAge          time.Duration

	LogLevel string
}

// placeholders shipped in example .env files
var placeholderValues = map[string]struct{}{
	"your_dart_api_key_here":   {},
	"your_gemini_api_key_here": {},
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "corpcode.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		DartAPIBaseURL: getEnv("DART_API_BASE_URL", "https://opendart.fss.or.kr/api"),
		DartAPIKey:     getSecret("DART_API_KEY"),
		DartTimeoutMs:  getEnvInt("DART_TIMEOUT_MS", 30000),
		RangeWorkers:   getEnvInt("RANGE_WORKERS", 4),

		GeminiAPIKey: getSecret("GEMINI_API_KEY"),
		GeminiModels: getEnvList("GEMINI_MODELS", []string{"gemini-2.0-flash", "gemini-1.5-flash", "gemini-1.5-pro"}),

		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		MaxRangeYears: getEnvInt("MAX_RANGE_YEARS", 10),

		DirectoryRefreshInterval: getEnvDuration("DIRECTORY_REFRESH_INTERVAL", 24*time.Hour),
		DirectoryMaxAge:          getEnvDuration("DIRECTORY_MAX_AGE", 30*24*time.Hour),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if cfg.RangeWorkers <= 0 {
		cfg.RangeWorkers = 1
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func (c Config) DartTimeout() time.Duration {
	return time.Duration(c.DartTimeoutMs) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(key string) string {
	value := strings.TrimSpace(getEnv(key, ""))
	if _, ok := placeholderValues[value]; ok {
		return ""
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := getEnv(key, "")
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	out := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

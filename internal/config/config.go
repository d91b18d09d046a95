package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort int

	// Account store
	UsersFile      string
	BackupDir      string
	BackupSchedule string // cron expression for store snapshots
	BackupRetain   int    // number of snapshots to keep

	// Token issuance
	JWTSecret string
	TokenTTL  time.Duration

	// Vision model collaborator
	OpenAIAPIKey    string
	VisionModel     string
	VisionMaxTokens int
	UpstreamTimeout time.Duration

	CORSOrigins []string
}

// Load loads configuration from environment variables or sets defaults.
// JWT_SECRET and OPENAI_API_KEY have no defaults and must be present.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8001")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}

	ttlMin, err := strconv.Atoi(getEnv("ACCESS_TOKEN_EXPIRE_MINUTES", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_MINUTES: %w", err)
	}

	maxTokens, err := strconv.Atoi(getEnv("VISION_MAX_TOKENS", "2000"))
	if err != nil {
		return nil, fmt.Errorf("invalid VISION_MAX_TOKENS: %w", err)
	}

	timeoutSec, err := strconv.Atoi(getEnv("UPSTREAM_TIMEOUT_SECONDS", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT_SECONDS: %w", err)
	}

	retain, err := strconv.Atoi(getEnv("BACKUP_RETAIN", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid BACKUP_RETAIN: %w", err)
	}

	return &Config{
		ServerPort:      port,
		UsersFile:       getEnv("USERS_FILE", "./users.json"),
		BackupDir:       getEnv("BACKUP_DIR", "./store-backups"),
		BackupSchedule:  getEnv("BACKUP_SCHEDULE", "@hourly"),
		BackupRetain:    retain,
		JWTSecret:       secret,
		TokenTTL:        time.Duration(ttlMin) * time.Minute,
		OpenAIAPIKey:    apiKey,
		VisionModel:     getEnv("VISION_MODEL", "gpt-4o"),
		VisionMaxTokens: maxTokens,
		UpstreamTimeout: time.Duration(timeoutSec) * time.Second,
		CORSOrigins:     splitOrigins(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:8080")),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

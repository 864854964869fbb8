package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port          string
	CORSOrigins   []string
	UploadsDir    string
	PublicBaseURL string
	Placeholder   string
	AdminEmail    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	SMTP SMTPConfig
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
}

func (s SMTPConfig) Configured() bool {
	return s.Host != "" && s.Port != "" && s.Username != "" && s.Password != ""
}

// Load reads the process environment. Call godotenv.Load first to pick up a .env file.
func Load() Config {
	port := envOrDefault("PORT", "8080")
	return Config{
		Port:          port,
		CORSOrigins:   splitList(os.Getenv("CORS_ORIGINS"), []string{"*"}),
		UploadsDir:    envOrDefault("UPLOADS_DIR", "./uploads"),
		PublicBaseURL: strings.TrimRight(envOrDefault("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),
		Placeholder:   envOrDefault("PLACEHOLDER_IMAGE_URL", "/placeholder.png"),
		AdminEmail:    strings.ToLower(envOrDefault("ADMIN_EMAIL", "")),

		RedisAddr:     envOrDefault("REDIS_ADDR", ""),
		RedisPassword: envOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),
		CacheTTL:      envDuration("CACHE_TTL", 5*time.Minute),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS"), nil),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "booking-events"),

		SMTP: SMTPConfig{
			Host:     envOrDefault("SMTP_HOST", ""),
			Port:     envOrDefault("SMTP_PORT", ""),
			Username: envOrDefault("SMTP_USERNAME", ""),
			Password: envOrDefault("SMTP_PASSWORD", ""),
			FromName: envOrDefault("SMTP_FROM_NAME", "Boarding Sky"),
		},
	}
}

// UploadsURL is where files written to UploadsDir are served from.
func (c Config) UploadsURL() string {
	return c.PublicBaseURL + "/uploads"
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(raw string, def []string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

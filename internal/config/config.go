package config

import (
	"fmt"
	"os"
)

// Config holds everything read from the environment at boot.
type Config struct {
	ListenAddr string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisAddr     string
	RedisPassword string

	JWTSecret string

	// TriageURL points at the external content-evaluation service.
	// Empty means triage runs in fail-open mode.
	TriageURL string

	// TelegramBotToken enables the Telegram notifier when set.
	TelegramBotToken  string
	TelegramStaffChat string

	// EvidenceDir is where the local evidence store keeps uploaded images.
	EvidenceDir string
}

// Load reads the configuration from environment variables.
func Load() *Config {
	return &Config{
		ListenAddr:        getEnv("LISTEN_ADDR", ":8080"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBUser:            getEnv("DB_USER", "user"),
		DBPassword:        getEnv("DB_PASSWORD", "password"),
		DBName:            getEnv("DB_NAME", "civicfixdb"),
		DBPort:            getEnv("DB_PORT", "5432"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		JWTSecret:         getEnv("JWT_SECRET", "dev-secret-change-me"),
		TriageURL:         os.Getenv("TRIAGE_URL"),
		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramStaffChat: os.Getenv("TELEGRAM_STAFF_CHAT"),
		EvidenceDir:       getEnv("EVIDENCE_DIR", "./media"),
	}
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

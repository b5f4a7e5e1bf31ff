package config

import (
	"os"
	"time"
)

// Config holds application configuration. Everything that used to be a
// module-level constant (file paths, the static admin login) is resolved
// here once and passed to collaborators at construction time.
type Config struct {
	Port           string
	UseMemoryStore bool

	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	AdminUsername string
	AdminPassword string
	JWTSecret     string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	ReminderInterval time.Duration
}

// Load reads configuration from the environment with local defaults
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		UseMemoryStore: os.Getenv("USE_MEMORY_STORE") == "true",

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBUser: getEnv("DB_USER", "postgres"),
		DBPass: os.Getenv("DB_PASS"),
		DBName: getEnv("DB_NAME", "medibook"),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "pass123"),
		JWTSecret:     getEnv("JWT_SECRET", "medibook-dev-secret"),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber: os.Getenv("TWILIO_PHONE_NUMBER"),

		ReminderInterval: getEnvDuration("REMINDER_INTERVAL", time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

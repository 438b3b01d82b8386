package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port            string
	JWTKey          string
	SessionTTLHours int

	DBDriver   string // postgres, mysql or sqlite
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	BackendURL            string // Base URL of the microfinance REST API
	BackendTimeoutSeconds int
	OwnerRole             string // Role passed to /users/get-all-users

	SearchDebounceMs    int
	PresenceConcurrency int
	ReconcileSchedule   string // cron spec, empty disables reconciliation

	Timezone string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:            getEnv("PORT", "3000"),
		JWTKey:          getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SessionTTLHours: getEnvInt("SESSION_TTL_HOURS", 12),

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "console.db"),
		DBPort:     getEnv("DB_PORT", "5432"),

		BackendURL:            getEnv("BACKEND_URL", "http://localhost:8080/api"),
		BackendTimeoutSeconds: getEnvInt("BACKEND_TIMEOUT_SECONDS", 15),
		OwnerRole:             getEnv("OWNER_ROLE", "USER"),

		SearchDebounceMs:    getEnvInt("SEARCH_DEBOUNCE_MS", 300),
		PresenceConcurrency: getEnvInt("PRESENCE_CONCURRENCY", 8),
		ReconcileSchedule:   getEnv("RECONCILE_SCHEDULE", "*/5 * * * *"),

		Timezone: getEnv("TIMEZONE", "Asia/Kolkata"),
	}

	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.BackendTimeoutSeconds <= 0 {
		log.Println("Warning: BACKEND_TIMEOUT_SECONDS must be positive. Falling back to 15.")
		AppConfig.BackendTimeoutSeconds = 15
	}
}

// BackendTimeout is the per-request timeout applied to every backend call.
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.BackendTimeoutSeconds) * time.Second
}

// SearchDebounce is the quiet period applied to search input.
func (c *Config) SearchDebounce() time.Duration {
	return time.Duration(c.SearchDebounceMs) * time.Millisecond
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// Location resolves Timezone, falling back to the process local zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Error loading timezone %s: %v", c.Timezone, err)
		return time.Local
	}
	return loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                string
	DBPath              string
	LogLevel            string
	CORSOrigins         []string
	SessionTTLHours     int
	CookieSecure        bool
	BcryptCost          int
	MaintenanceWorkers  int
	MaintenanceQueue    int
	MaintenanceInterval int // minutes between maintenance sweeps
	StaleSessionMinutes int // incomplete study sessions older than this get closed
	RecentSearchesPath  string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                envOr("ADDR", ":8080"),
		DBPath:              envOr("DB_PATH", "file:flashdeck.db"),
		LogLevel:            envOr("LOG_LEVEL", "INFO"),
		CORSOrigins:         envListOr("CORS_ORIGINS", []string{"http://localhost:3000"}),
		SessionTTLHours:     envIntOr("SESSION_TTL_HOURS", 24*7),
		CookieSecure:        envBoolOr("COOKIE_SECURE", false),
		BcryptCost:          envIntOr("BCRYPT_COST", 10),
		MaintenanceWorkers:  envIntOr("MAINTENANCE_WORKER_COUNT", 1),
		MaintenanceQueue:    envIntOr("MAINTENANCE_QUEUE_SIZE", 16),
		MaintenanceInterval: envIntOr("MAINTENANCE_INTERVAL_MINUTES", 30),
		StaleSessionMinutes: envIntOr("STALE_SESSION_MINUTES", 24*60),
		RecentSearchesPath:  envOr("RECENT_SEARCHES_PATH", ""),
	}
}

// Validate checks the loaded configuration and reports every problem at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		problems = append(problems, "LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR")
	}
	if c.SessionTTLHours <= 0 {
		problems = append(problems, "SESSION_TTL_HOURS must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		problems = append(problems, "BCRYPT_COST must be between 4 and 31")
	}
	if c.MaintenanceWorkers <= 0 {
		problems = append(problems, "MAINTENANCE_WORKER_COUNT must be positive")
	}
	if c.MaintenanceQueue <= 0 {
		problems = append(problems, "MAINTENANCE_QUEUE_SIZE must be positive")
	}
	if c.MaintenanceInterval <= 0 {
		problems = append(problems, "MAINTENANCE_INTERVAL_MINUTES must be positive")
	}
	if c.StaleSessionMinutes <= 0 {
		problems = append(problems, "STALE_SESSION_MINUTES must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

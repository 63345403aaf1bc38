package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	MigrateAuto = "auto"
	MigrateSQL  = "sql"
)

// Config holds application configuration.
type Config struct {
	Port        string
	GinMode     string
	Environment string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string
	DBMigrate  string

	LogLevel  string
	LogFormat string

	CORSOrigins  []string
	AuthDisabled bool
}

// Load reads configs/.env (when present) and the process environment.
func Load() Config {
	_ = godotenv.Load("configs/.env")

	return Config{
		Port:         getenv("PORT", "8080"),
		GinMode:      getenv("GIN_MODE", "debug"),
		Environment:  getenv("ENVIRONMENT", "development"),
		DBDriver:     strings.ToLower(getenv("DB_DRIVER", DriverPostgres)),
		DBHost:       getenv("DB_HOST", "localhost"),
		DBPort:       getenv("DB_PORT", "5432"),
		DBUser:       getenv("DB_USER", "postgres"),
		DBPassword:   getenv("DB_PASSWORD", "postgres"),
		DBName:       getenv("DB_NAME", "postgres"),
		DBSSLMode:    getenv("DB_SSLMODE", "disable"),
		DBPath:       getenv("DB_PATH", "order17vat.db"),
		DBMigrate:    strings.ToLower(getenv("DB_MIGRATE", MigrateAuto)),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFormat:    getenv("LOG_FORMAT", "json"),
		CORSOrigins:  splitList(getenv("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
		AuthDisabled: getenvBool("AUTH_DISABLED", false),
	}
}

// DSN returns the connection string for the configured driver
func (c Config) DSN() string {
	if c.DBDriver == DriverSQLite {
		return c.DBPath
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func (c Config) IsRelease() bool {
	return c.GinMode == "release"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

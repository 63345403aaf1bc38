package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "DB_MIGRATE", "CORS_ORIGINS", "AUTH_DISABLED"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, MigrateAuto, cfg.DBMigrate)
	assert.False(t, cfg.AuthDisabled)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.CORSOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_PATH", "/tmp/vat.db")
	t.Setenv("CORS_ORIGINS", " https://admin.example.com , ,https://shop.example.com")
	t.Setenv("AUTH_DISABLED", "true")
	t.Setenv("GIN_MODE", "release")

	cfg := Load()
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "/tmp/vat.db", cfg.DSN())
	assert.Equal(t, []string{"https://admin.example.com", "https://shop.example.com"}, cfg.CORSOrigins)
	assert.True(t, cfg.AuthDisabled)
	assert.True(t, cfg.IsRelease())
}

func TestPostgresDSN(t *testing.T) {
	cfg := Config{
		DBDriver:   DriverPostgres,
		DBUser:     "u",
		DBPassword: "p",
		DBHost:     "db",
		DBPort:     "5432",
		DBName:     "shop",
		DBSSLMode:  "disable",
	}
	assert.Equal(t, "postgres://u:p@db:5432/shop?sslmode=disable", cfg.DSN())
}

func TestGetenvBoolFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_FLAG", "perhaps")
	assert.True(t, getenvBool("SOME_FLAG", true))
}

// Package config loads engine settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// SourceFolder is the primary (synced/cloud) workbook root.
	// FallbackFolder is a known-good local copy used when the primary is
	// missing or unreadable.
	SourceFolder   string
	FallbackFolder string

	DBDriver string // sqlite | postgres
	DBPath   string // sqlite file path

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ImportTimeoutSec int
	ReplaceEnabled   bool // gate for destructive replace-mode imports
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getBool(k string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(k)))
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func Load() *Config {
	return &Config{
		SourceFolder:   get("TASTERIST_SOURCE_FOLDER", "Taster Sheets"),
		FallbackFolder: get("TASTERIST_FALLBACK_FOLDER", ""),

		DBDriver: get("TASTERIST_DB_DRIVER", "sqlite"),
		DBPath:   get("TASTERIST_DB_PATH", "tasterist.db"),

		DBHost:     get("DB_HOST", "localhost"),
		DBPort:     get("DB_PORT", "5432"),
		DBUser:     get("DB_USER", "postgres"),
		DBPassword: get("DB_PASSWORD", ""),
		DBName:     get("DB_NAME", "tasterist"),
		DBSSLMode:  get("DB_SSLMODE", "disable"),

		ImportTimeoutSec: getInt("TASTERIST_IMPORT_TIMEOUT_SEC", 120),
		ReplaceEnabled:   getBool("TASTERIST_REPLACE_ENABLED", false),
	}
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the two entry points read from the environment.
// Non-secret fields carry documented defaults; secrets (DB_PASSWORD,
// RAPIDAPI_KEY) default to empty and are validated where required.
type Config struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	RapidAPIHost string
	RapidAPIKey  string

	FetchLimit   int
	FetchTimeout time.Duration

	TransformLogPath string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found, using process environment")
	}

	c := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "real_estate"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RapidAPIHost: getEnv("RAPIDAPI_HOST", "realty-in-us.p.rapidapi.com"),
		RapidAPIKey:  os.Getenv("RAPIDAPI_KEY"),

		FetchLimit:   getInt("FETCH_LIMIT", 15),
		FetchTimeout: time.Duration(getInt("FETCH_TIMEOUT_SEC", 30)) * time.Second,

		TransformLogPath: getEnv("TRANSFORM_LOG_PATH", "pipeline.log"),
	}

	if c.FetchLimit <= 0 {
		return nil, fmt.Errorf("FETCH_LIMIT must be positive")
	}
	if c.FetchTimeout <= 0 {
		return nil, fmt.Errorf("FETCH_TIMEOUT_SEC must be positive")
	}

	return c, nil
}

// DSN returns the Postgres connection string for pgx.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// SearchURL is the upstream search endpoint derived from the RapidAPI host.
func (c *Config) SearchURL() string {
	return fmt.Sprintf("https://%s/properties/v3/list", c.RapidAPIHost)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

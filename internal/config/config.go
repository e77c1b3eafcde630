package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port            int
	DBDriver        string
	DatabaseURL     string
	LogLevel        string
	LogPretty       bool
	MaxUploadBytes  int
	SeedSampleData  bool
	SeedUsers       int
	SeedTxPerUser   int
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment, after loading a .env
// file if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	p := &parser{}
	cfg := &Config{
		Port:            p.envInt("PORT", 8080),
		DBDriver:        strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogPretty:       p.envBool("LOG_PRETTY", false),
		MaxUploadBytes:  p.envInt("MAX_UPLOAD_BYTES", 5<<20),
		SeedSampleData:  p.envBool("SEED_SAMPLE_DATA", true),
		SeedUsers:       p.envInt("SEED_USERS", 100),
		SeedTxPerUser:   p.envInt("SEED_TX_PER_USER", 100),
		CORSOrigins:     splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ShutdownTimeout: time.Duration(p.envInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
	if p.err != nil {
		return nil, p.err
	}

	if cfg.DatabaseURL == "" {
		switch cfg.DBDriver {
		case "postgres":
			cfg.DatabaseURL = postgresURL()
		default:
			cfg.DatabaseURL = "reports.db"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges Load cannot express as defaults.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.SeedUsers < 0 || c.SeedTxPerUser < 0 {
		return fmt.Errorf("SEED_USERS and SEED_TX_PER_USER must not be negative")
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// postgresURL composes a DSN from the POSTGRES_* variables used by the
// compose deployment.
func postgresURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(getEnv("POSTGRES_USER", "postgres"), getEnv("POSTGRES_PASSWORD", "postgres")),
		Host:   net.JoinHostPort(getEnv("POSTGRES_HOST", "localhost"), getEnv("POSTGRES_PORT", "5432")),
		Path:   "/" + getEnv("POSTGRES_DB", "reports"),
	}
	q := url.Values{}
	q.Set("sslmode", getEnv("POSTGRES_SSLMODE", "disable"))
	u.RawQuery = q.Encode()
	return u.String()
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parser keeps the first malformed value so Load reports it instead of
// silently falling back to a default.
type parser struct {
	err error
}

func (p *parser) envInt(key string, defaultValue int) int {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.fail(fmt.Errorf("%s: invalid integer %q", key, value))
		return defaultValue
	}
	return n
}

func (p *parser) envBool(key string, defaultValue bool) bool {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		p.fail(fmt.Errorf("%s: invalid boolean %q", key, value))
		return defaultValue
	}
	return b
}

func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

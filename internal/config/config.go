package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration settings for the address fix job.
// It includes the environment, the monitoring server port, provider settings
// (proxy, timeout, pacing), the optional daemon interval, and the database
// configuration.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - HealthPort: The port for the monitoring server in daemon mode.
// - Proxy: Optional HTTPS proxy (host:port or URL) for provider requests.
// - Timeout: The HTTP timeout for provider requests.
// - ResolveDelay: The pause between consecutive provider requests.
// - Interval: The duration between passes in daemon mode; zero means one-shot.
// - DryRun: When set, resolve and log but write nothing.
// - Database: Configuration settings for the TeslaMate PostgreSQL database.
type Config struct {
	Env          string
	HealthPort   int
	Proxy        string
	Timeout      time.Duration
	ResolveDelay time.Duration
	Interval     time.Duration
	DryRun       bool
	Database     PostgresConfig
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// MustLoad loads the configuration from the environment, with TeslaMate's
// defaults for the database settings. It panics on malformed values.
func MustLoad() *Config {
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(setDefaultEnv("ADDRFIX_TIMEOUT", "10s"))
	if err != nil {
		panic("failed to parse provider timeout from configuration")
	}

	resolveDelay, err := time.ParseDuration(setDefaultEnv("ADDRFIX_RESOLVE_DELAY", "1s"))
	if err != nil {
		panic("failed to parse resolve delay from configuration")
	}

	interval, err := time.ParseDuration(setDefaultEnv("ADDRFIX_INTERVAL", "0s"))
	if err != nil {
		panic("failed to parse interval from configuration")
	}

	healthPort, err := strconv.Atoi(setDefaultEnv("ADDRFIX_HEALTH_PORT", "8080"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	dryRun, err := strconv.ParseBool(setDefaultEnv("ADDRFIX_DRY_RUN", "false"))
	if err != nil {
		panic("failed to parse dry run flag from configuration")
	}

	return &Config{
		Env:          setDefaultEnv("ADDRFIX_ENV", "production"),
		HealthPort:   healthPort,
		Proxy:        os.Getenv("ADDRFIX_PROXY"),
		Timeout:      timeout,
		ResolveDelay: resolveDelay,
		Interval:     interval,
		DryRun:       dryRun,
		Database: PostgresConfig{
			Host:     setDefaultEnv("DB_HOST", "127.0.0.1"),
			Port:     setDefaultEnv("DB_PORT", "5432"),
			User:     setDefaultEnv("DB_USERNAME", "teslamate"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     setDefaultEnv("DB_NAME", "teslamate"),
		},
	}
}

func setDefaultEnv(key, override string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = override
	}

	return value
}

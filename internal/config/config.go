package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/transaction-server/internal/breaker"
)

type Config struct {
	Port string

	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	AccountServiceURL      string
	NotificationServiceURL string

	BreakerConsecutiveFailures string
	BreakerCooldownSeconds     string
	BreakerHalfOpenMaxRequests string
}

func ProcessEnvironmentVariables() (*Config, error) {
	// A .env file is optional; docker compose injects real env vars.
	if err := godotenv.Load(); err != nil {
		logrus.Debug("config.no .env file, using environment")
	}

	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		Port:                   "9447",
		PostgresAddress:        "localhost",
		PostgresPort:           "5433",
		PostgresDB:             "postgres",
		PostgresUsername:       "postgres",
		PostgresPassword:       "testpassword",
		AccountServiceURL:      "http://localhost:9448",
		NotificationServiceURL: "http://localhost:9449",

		BreakerConsecutiveFailures: "5",
		BreakerCooldownSeconds:     "30",
		BreakerHalfOpenMaxRequests: "1",
	}

	envPort := os.Getenv("PORT")
	envPostgresAddress := os.Getenv("POSTGRES_ADDRESS")
	envPostgresPort := os.Getenv("POSTGRES_PORT")
	envPostgresDB := os.Getenv("POSTGRES_DB")
	envPostgresUsername := os.Getenv("POSTGRES_USERNAME")
	envPostgresPassword := os.Getenv("POSTGRES_PASSWORD")
	envAccountServiceURL := os.Getenv("ACCOUNT_SERVICE_URL")
	envNotificationServiceURL := os.Getenv("NOTIFICATION_SERVICE_URL")
	envBreakerConsecutiveFailures := os.Getenv("BREAKER_CONSECUTIVE_FAILURES")
	envBreakerCooldownSeconds := os.Getenv("BREAKER_COOLDOWN_SECONDS")
	envBreakerHalfOpenMaxRequests := os.Getenv("BREAKER_HALF_OPEN_MAX_REQUESTS")

	if len(envPort) != 0 {
		env.Port = envPort
	}

	if len(envPostgresAddress) != 0 {
		env.PostgresAddress = envPostgresAddress
	}

	if len(envPostgresPort) != 0 {
		env.PostgresPort = envPostgresPort
	}

	if len(envPostgresDB) != 0 {
		env.PostgresDB = envPostgresDB
	}

	if len(envPostgresUsername) != 0 {
		env.PostgresUsername = envPostgresUsername
	}

	if len(envPostgresPassword) != 0 {
		env.PostgresPassword = envPostgresPassword
	}

	if len(envAccountServiceURL) != 0 {
		env.AccountServiceURL = envAccountServiceURL
	}

	if len(envNotificationServiceURL) != 0 {
		env.NotificationServiceURL = envNotificationServiceURL
	}

	if len(envBreakerConsecutiveFailures) != 0 {
		env.BreakerConsecutiveFailures = envBreakerConsecutiveFailures
	}

	if len(envBreakerCooldownSeconds) != 0 {
		env.BreakerCooldownSeconds = envBreakerCooldownSeconds
	}

	if len(envBreakerHalfOpenMaxRequests) != 0 {
		env.BreakerHalfOpenMaxRequests = envBreakerHalfOpenMaxRequests
	}

	return &env, nil
}

// BreakerConfig parses the breaker tuning knobs, keeping the defaults for
// values that do not parse.
func (c *Config) BreakerConfig() breaker.Config {
	cfg := breaker.DefaultConfig()

	if v, err := strconv.ParseUint(c.BreakerConsecutiveFailures, 10, 32); err == nil {
		cfg.ConsecutiveFailures = uint32(v)
	} else {
		logrus.WithField("value", c.BreakerConsecutiveFailures).Warn("config.BreakerConsecutiveFailures not a number, using default")
	}

	if v, err := strconv.Atoi(c.BreakerCooldownSeconds); err == nil {
		cfg.Timeout = time.Duration(v) * time.Second
	} else {
		logrus.WithField("value", c.BreakerCooldownSeconds).Warn("config.BreakerCooldownSeconds not a number, using default")
	}

	if v, err := strconv.ParseUint(c.BreakerHalfOpenMaxRequests, 10, 32); err == nil {
		cfg.MaxRequests = uint32(v)
	} else {
		logrus.WithField("value", c.BreakerHalfOpenMaxRequests).Warn("config.BreakerHalfOpenMaxRequests not a number, using default")
	}

	return cfg
}

// PostgresURL builds the connection string used by both the pgx pool and
// the migration runner.
func (c *Config) PostgresURL() string {
	return "postgres://" + c.PostgresUsername + ":" +
		c.PostgresPassword + "@" + c.PostgresAddress + ":" +
		c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}

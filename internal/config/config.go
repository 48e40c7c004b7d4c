package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port                     string        `env:"PORT" envDefault:"8080"`
	DatabaseURL              string        `env:"DATABASE_URL,required"`
	DatabaseMaxOpenConns     int           `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"10"`
	DatabaseMaxIdleConns     int           `env:"DATABASE_MAX_IDLE_CONNS" envDefault:"5"`
	DatabaseConnMaxLifetime  time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"30m"`
	MigrateOnStart           bool          `env:"MIGRATE_ON_START" envDefault:"true"`
	OTelEnabled              bool          `env:"OTEL_ENABLED" envDefault:"true"`
	OTelServiceName          string        `env:"OTEL_SERVICE_NAME" envDefault:"formkit-api"`
	MetricsPrometheusEnabled bool          `env:"METRICS_PROMETHEUS_ENABLED" envDefault:"false"`
	JWTSecret                string        `env:"JWT_SECRET,required"`
	JWTIssuer                string        `env:"JWT_ISSUER" envDefault:"formkit-api"`
	JWTAccessTokenTTL        time.Duration `env:"JWT_ACCESS_TOKEN_TTL" envDefault:"15m"`
	PasswordResetTTL         time.Duration `env:"PASSWORD_RESET_TTL" envDefault:"1h"`
	RateLimitRPS             float64       `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst           int           `env:"RATE_LIMIT_BURST" envDefault:"10"`
	BirthDatePivotYear       bool          `env:"BIRTHDATE_PIVOT_YEAR" envDefault:"false"`
	BootstrapUserEmail       string        `env:"AUTH_BOOTSTRAP_EMAIL"`
	BootstrapUserPassword    string        `env:"AUTH_BOOTSTRAP_PASSWORD"`
}

// Load reads the environment, after filling it from the nearest .env file
// when one exists. Variables already set win over the file.
func Load() (Config, error) {
	loadDotEnv()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs error
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		errs = errors.Join(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative"))
	}
	email := strings.TrimSpace(c.BootstrapUserEmail)
	password := strings.TrimSpace(c.BootstrapUserPassword)
	if (email == "") != (password == "") {
		errs = errors.Join(errs, errors.New("bootstrap user requires both AUTH_BOOTSTRAP_EMAIL and AUTH_BOOTSTRAP_PASSWORD"))
	}
	return errs
}

func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}

	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

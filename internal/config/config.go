package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App struct {
		Name      string `envconfig:"APP_NAME" default:"Voice POS"`
		Port      int    `envconfig:"PORT" default:"8080"`
		Timezone  string `envconfig:"APP_TIMEZONE" default:"UTC"`
		Currency  string `envconfig:"APP_CURRENCY" default:"GHS"`
		LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
		LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

		// TaxRate is the percentage applied when a checkout names none.
		TaxRate decimal.Decimal `envconfig:"APP_TAX_RATE" default:"0"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"voicepos"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	Auth struct {
		JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
		TokenTTL  time.Duration `envconfig:"JWT_TTL" default:"24h"`
	}

	Kafka struct {
		// Empty disables event publishing.
		Brokers []string `envconfig:"KAFKA_BROKERS"`
	}

	Redis struct {
		// Empty disables the dashboard cache.
		Addr     string        `envconfig:"REDIS_ADDR"`
		Password string        `envconfig:"REDIS_PASSWORD"`
		DB       int           `envconfig:"REDIS_DB" default:"0"`
		TTL      time.Duration `envconfig:"DASHBOARD_CACHE_TTL" default:"1m"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

// Location resolves APP_TIMEZONE. Day, week and month boundaries and invoice
// dates are computed in this location. The name is also handed to Postgres,
// so "Local" is refused.
func (c *Config) Location() (*time.Location, error) {
	if strings.EqualFold(c.App.Timezone, "Local") {
		return nil, fmt.Errorf("loading timezone %q: use an IANA name such as Africa/Accra", c.App.Timezone)
	}

	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.App.Timezone, err)
	}

	return loc, nil
}

// Logger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) Logger() *slog.Logger {
	return c.LoggerTo(os.Stderr)
}

func (c *Config) LoggerTo(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.App.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

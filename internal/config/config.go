// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultReceiptSecret signs demo receipts; production must override it.
const DefaultReceiptSecret = "neogaming-demo-receipts"

// Config is the server configuration.
type Config struct {
	Env  string
	Port string

	DB struct {
		Driver   string
		Host     string
		Port     string
		User     string
		Password string
		Name     string
	}

	Log struct {
		Level string
		File  string
	}

	RabbitMQURL   string
	ReceiptSecret string

	Places struct {
		NominatimURL      string
		OverpassURL       string
		UserAgent         string
		RequestsPerSecond float64
	}

	Weather struct {
		APIURL string
		APIKey string
	}

	UpstreamTimeout time.Duration
	CORSOrigins     string
}

// Production reports whether the server runs in production mode.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// ListenAddr is the address passed to fiber.App.Listen.
func (c *Config) ListenAddr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// DSN builds the connection string for the configured driver.
func (c *Config) DSN() string {
	switch c.DB.Driver {
	case "sqlite":
		if c.DB.Name == "" {
			return "neogaming.db"
		}
		return c.DB.Name
	default:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			c.DB.Host, c.DB.User, c.DB.Password, c.DB.Name, c.DB.Port)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "neogaming")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RECEIPT_SECRET", DefaultReceiptSecret)
	v.SetDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("OVERPASS_URL", "https://overpass-api.de/api/interpreter")
	v.SetDefault("PLACES_USER_AGENT", "NeoGaming/1.0")
	v.SetDefault("PLACES_RPS", 1.0)
	v.SetDefault("WEATHER_API_URL", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("WEATHER_API_KEY", "")
	v.SetDefault("UPSTREAM_TIMEOUT", "10s")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")
}

// Load reads a .env file when present, then the environment, into a Config.
func Load(v *viper.Viper) (*Config, error) {
	// Missing .env is fine outside local development.
	_ = godotenv.Load()

	if v == nil {
		v = viper.New()
	}
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port:            v.GetString("PORT"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		ReceiptSecret:   v.GetString("RECEIPT_SECRET"),
		UpstreamTimeout: v.GetDuration("UPSTREAM_TIMEOUT"),
		CORSOrigins:     v.GetString("CORS_ORIGINS"),
	}
	// NODE_ENV is honoured for deployments that still set it.
	for _, key := range []string{"APP_ENV", "NODE_ENV"} {
		if env := v.GetString(key); env != "" {
			cfg.Env = env
			break
		}
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}

	cfg.DB.Driver = strings.ToLower(v.GetString("DB_DRIVER"))
	cfg.DB.Host = v.GetString("DB_HOST")
	cfg.DB.Port = v.GetString("DB_PORT")
	cfg.DB.User = v.GetString("DB_USER")
	cfg.DB.Password = v.GetString("DB_PASSWORD")
	cfg.DB.Name = v.GetString("DB_NAME")

	cfg.Log.Level = v.GetString("LOG_LEVEL")
	cfg.Log.File = v.GetString("LOG_FILE")

	cfg.Places.NominatimURL = v.GetString("NOMINATIM_URL")
	cfg.Places.OverpassURL = v.GetString("OVERPASS_URL")
	cfg.Places.UserAgent = v.GetString("PLACES_USER_AGENT")
	cfg.Places.RequestsPerSecond = v.GetFloat64("PLACES_RPS")

	cfg.Weather.APIURL = v.GetString("WEATHER_API_URL")
	cfg.Weather.APIKey = v.GetString("WEATHER_API_KEY")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DB.Driver))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must be set"))
	}
	if c.UpstreamTimeout <= 0 {
		errs = append(errs, errors.New("UPSTREAM_TIMEOUT must be positive"))
	}
	if c.Production() && c.ReceiptSecret == DefaultReceiptSecret {
		errs = append(errs, errors.New("RECEIPT_SECRET must be changed in production"))
	}
	return errors.Join(errs...)
}

package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"
)

// Config is loaded once at boot from the environment (a .env file is read
// beforehand in main). Zero values fall back to sane development defaults.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   string `env:"PORT" envDefault:"8080"`

	DBDSN      string `env:"DB_DSN"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"stylemarket"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// BaseURL is the public origin used for image links and OAuth callbacks.
	BaseURL    string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	StorageDir string `env:"STORAGE_DIR" envDefault:"uploads"`

	JWTSecret  string `env:"JWT_ADMIN_SECRET" envDefault:"dev-admin-secret"`
	SessionKey string `env:"SESSION_KEY" envDefault:"dev-insecure"`

	// RegisterKey gates POST /api/auth/register once an admin exists.
	RegisterKey string `env:"ADMIN_REGISTER_KEY"`

	// WhatsAppPhone is the shop's number in international digits-only form,
	// e.g. 6281389090654.
	WhatsAppPhone string `env:"WHATSAPP_PHONE" envDefault:"6281389090654"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsProd() bool {
	e := strings.ToLower(c.AppEnv)
	return e == "production" || e == "prod"
}

// DSN assembles the postgres connection string when DB_DSN is not given.
func (c *Config) DSN() string {
	if strings.TrimSpace(c.DBDSN) != "" {
		return c.DBDSN
	}
	return "host=" + c.DBHost + " user=" + c.DBUser + " password=" + c.DBPassword +
		" dbname=" + c.DBName + " port=" + c.DBPort + " sslmode=" + c.DBSSLMode
}

// Package config carga la configuración del BFF.
//
// Fuentes (por prioridad):
//  1. ruta explícita --config;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. solo ENV.
//
// En los casos 1-3 el ENV se aplica encima del YAML.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env       string          `yaml:"env" env:"ENV" env-default:"local"`
	AppName   string          `yaml:"app_name" env:"APP_NAME" env-default:"shire-of-paws"`
	HTTP      HTTPConfig      `yaml:"http"`
	Backend   BackendConfig   `yaml:"backend"`
	Uploads   UploadsConfig   `yaml:"uploads"`
	Session   SessionConfig   `yaml:"session"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Forms     FormsConfig     `yaml:"forms"`
}

// HTTPConfig es el servidor público del BFF.
type HTTPConfig struct {
	Host         string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port         string        `yaml:"port" env:"PORT" env-default:"8081"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// BackendConfig apunta a la API REST del refugio.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url" env:"API_BASE_URL" env-default:"http://localhost:8080"`
	Timeout time.Duration `yaml:"timeout" env:"BACKEND_TIMEOUT" env-default:"10s"`
}

// UploadsConfig limita las fotos que se aceptan antes de subirlas.
type UploadsConfig struct {
	MaxImageBytes int64 `yaml:"max_image_bytes" env:"MAX_IMAGE_BYTES" env-default:"10485760"`
}

type SessionConfig struct {
	CookieName string        `yaml:"cookie_name" env:"SESSION_COOKIE" env-default:"sop_session"`
	TTL        time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"12h"`
	Secure     bool          `yaml:"secure" env:"SESSION_COOKIE_SECURE" env-default:"false"`
	// DSN opcional: si viene, las sesiones se guardan en Postgres.
	DSN string `yaml:"dsn" env:"DB_DSN"`
}

// RateLimitConfig aplica a login y envíos de solicitudes de adopción.
type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute" env:"RATE_LIMIT_PER_MINUTE" env-default:"10"`
	Burst     int `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"5"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

type TracingConfig struct {
	// Endpoint vacío => tracer noop.
	Endpoint string `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Insecure bool   `yaml:"insecure" env:"OTEL_EXPORTER_OTLP_INSECURE" env-default:"true"`
}

// FormsConfig controla cuánto vive un borrador sin actividad.
type FormsConfig struct {
	DraftTTL time.Duration `yaml:"draft_ttl" env:"FORM_DRAFT_TTL" env-default:"1h"`
}

// MustLoad entra en pánico si la configuración no se puede cargar.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}
		return &cfg, nil
	}

	if path != "" {
		return tryRead(path)
	}
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}
	if _, err := os.Stat("local.yaml"); err == nil {
		return tryRead("local.yaml")
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config from env: %w", err)
	}
	return &cfg, nil
}

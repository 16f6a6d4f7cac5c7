package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/interiorhaus/catalog-admin/pkg/enums"
	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App       AppConfig
	API       APIConfig
	Media     MediaConfig
	DevServer DevServerConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.API.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Media.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CATALOG_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"CATALOG_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CATALOG_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// APIConfig addresses the remote catalog service. The origin is fixed at
// process start; every component that needs it receives it at construction.
type APIConfig struct {
	Origin         string        `envconfig:"CATALOG_API_ORIGIN" default:"http://localhost:5000"`
	RequestTimeout time.Duration `envconfig:"CATALOG_API_REQUEST_TIMEOUT" default:"10s"`
}

func (a APIConfig) Validate() error {
	parsed, err := url.Parse(a.Origin)
	if err != nil {
		return fmt.Errorf("invalid API origin %q: %w", a.Origin, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("API origin %q must be an http(s) URL", a.Origin)
	}
	if parsed.Host == "" {
		return fmt.Errorf("API origin %q is missing a host", a.Origin)
	}
	if a.RequestTimeout <= 0 {
		return fmt.Errorf("API request timeout must be positive")
	}
	return nil
}

// MediaConfig governs uploads and reference resolution.
type MediaConfig struct {
	AddressMode    enums.AddressMode `envconfig:"CATALOG_MEDIA_ADDRESS_MODE" default:"relative"`
	MaxUploadBytes int64             `envconfig:"CATALOG_MEDIA_MAX_UPLOAD_BYTES" default:"52428800"`
	UploadTimeout  time.Duration     `envconfig:"CATALOG_MEDIA_UPLOAD_TIMEOUT" default:"5m"`
}

func (m MediaConfig) Validate() error {
	if !m.AddressMode.IsValid() {
		return fmt.Errorf("invalid media address mode %q", m.AddressMode)
	}
	if m.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive")
	}
	if m.UploadTimeout <= 0 {
		return fmt.Errorf("upload timeout must be positive")
	}
	return nil
}

// DevServerConfig configures the local stand-in catalog service.
type DevServerConfig struct {
	Port      string `envconfig:"CATALOG_DEVSERVER_PORT" default:"5000"`
	DBPath    string `envconfig:"CATALOG_DEVSERVER_DB_PATH" default:"catalog.db"`
	UploadDir string `envconfig:"CATALOG_DEVSERVER_UPLOAD_DIR" default:"uploads"`
}

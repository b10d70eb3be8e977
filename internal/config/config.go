package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"shiftbook/internal/models"
)

const (
	DefaultPath = "configs/config.yaml"

	// EnvConfigPath overrides DefaultPath when no explicit path is given.
	EnvConfigPath     = "SHIFTBOOK_CONFIG"
	EnvEnvironment    = "SHIFTBOOK_ENV"
	EnvAllowedOrigins = "ALLOWED_ORIGINS"

	EnvironmentProduction  = "production"
	EnvironmentDevelopment = "development"
)

// developmentOrigins are always allowed outside production.
var developmentOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:3001",
}

type Config struct {
	Environment string `yaml:"environment" validate:"oneof=development production"`
	LogLevel    string `yaml:"log_level" validate:"omitempty,oneof=trace debug info warn error"`

	API struct {
		BaseURL           string            `yaml:"base_url" validate:"required,url"`
		TimeoutSeconds    int               `yaml:"timeout_seconds" validate:"gte=0"`
		Headers           map[string]string `yaml:"headers"`
		RequestsPerSecond float64           `yaml:"requests_per_second" validate:"gte=0"`
		Burst             int               `yaml:"burst" validate:"gte=0"`
		CacheTTLSeconds   int               `yaml:"cache_ttl_seconds" validate:"gte=0"`
	} `yaml:"api"`

	Redis struct {
		Address  string `yaml:"address" validate:"omitempty,hostname_port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db" validate:"gte=0"`
	} `yaml:"redis"`

	Store struct {
		DefaultTab             string `yaml:"default_tab" validate:"omitempty,oneof=my-shifts available-shifts"`
		DefaultArea            string `yaml:"default_area" validate:"omitempty,oneof=all Helsinki Tampere Turku"`
		RefreshIntervalSeconds int    `yaml:"refresh_interval_seconds" validate:"gte=0"`
	} `yaml:"store"`

	Gateway struct {
		Port           int      `yaml:"port" validate:"min=1,max=65535"`
		AllowedOrigins []string `yaml:"allowed_origins" validate:"dive,url"`
	} `yaml:"gateway"`

	Monitoring struct {
		// PrometheusEnabled mounts /metrics on the gateway.
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
	} `yaml:"monitoring"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load reads the YAML config at path. An empty path falls back to
// SHIFTBOOK_CONFIG and then DefaultPath; a missing default file yields the
// built-in defaults. Variables from a .env file in the working directory are
// loaded first and ${VAR} placeholders are expanded.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	explicit := true
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = DefaultPath
		explicit = false
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Support ${ENV_VAR} placeholders in YAML config.
		data = []byte(os.ExpandEnv(string(data)))
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Validate validates the configuration struct.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if env := strings.TrimSpace(os.Getenv(EnvEnvironment)); env != "" {
		c.Environment = env
	}
	c.Gateway.AllowedOrigins = mergeOrigins(c.Gateway.AllowedOrigins, splitOrigins(os.Getenv(EnvAllowedOrigins)))
}

func (c *Config) applyDefaults() {
	if c.Environment == "" {
		c.Environment = EnvironmentDevelopment
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://127.0.0.1:8080"
	}
	if c.Store.DefaultTab == "" {
		c.Store.DefaultTab = string(models.TabMyShifts)
	}
	if c.Store.DefaultArea == "" {
		c.Store.DefaultArea = string(models.AreaHelsinki)
	}
	if c.Gateway.Port == 0 {
		c.Gateway.Port = 8090
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

func (c *Config) APITimeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// CacheTTL is zero when caching is disabled.
func (c *Config) CacheTTL() time.Duration {
	if c.Redis.Address == "" || c.API.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.API.CacheTTLSeconds) * time.Second
}

// RefreshInterval is zero when periodic refresh is disabled.
func (c *Config) RefreshInterval() time.Duration {
	if c.Store.RefreshIntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Store.RefreshIntervalSeconds) * time.Second
}

// AllowedOrigins returns the cross-origin allowlist. In production it is
// exactly the configured list, which may be empty. Elsewhere the localhost
// development origins are added.
func (c *Config) AllowedOrigins() []string {
	if c.IsProduction() {
		return slices.Clone(c.Gateway.AllowedOrigins)
	}
	return mergeOrigins(developmentOrigins, c.Gateway.AllowedOrigins)
}

func (c *Config) DefaultTab() models.TabType {
	return models.TabType(c.Store.DefaultTab)
}

func (c *Config) DefaultArea() models.Area {
	return models.Area(c.Store.DefaultArea)
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// mergeOrigins concatenates lists, dropping duplicates and keeping order.
func mergeOrigins(lists ...[]string) []string {
	var out []string
	for _, list := range lists {
		for _, o := range list {
			if !slices.Contains(out, o) {
				out = append(out, o)
			}
		}
	}
	return out
}

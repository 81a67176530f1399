// Package config loads the web portal and CLI configuration.
//
// Sources, lowest priority first: built-in defaults, an optional YAML file
// named by CHAOS_CONFIG, then CHAOS_* environment variables. The result is
// validated before use.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

const (
	DefaultHTTPPort   = 7002
	DefaultAPIBaseURL = "https://app.chaosmind.dev"
	DefaultViewTTL    = 30 * time.Minute
	DefaultMaxViews   = 10000
)

type Config struct {
	Env           Environment   `yaml:"env" validate:"oneof=development staging production"`
	HTTPPort      int           `yaml:"http_port" validate:"min=1,max=65535"`
	APIBaseURL    string        `yaml:"api_base_url" validate:"required,url"`
	APITimeout    time.Duration `yaml:"api_timeout" validate:"min=0"`
	ViewTTL       time.Duration `yaml:"view_ttl" validate:"min=1s"`
	MaxViews      int           `yaml:"max_views" validate:"min=1"`
	LogLevel      string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	SecureCookies bool          `yaml:"secure_cookies"`
	TLSSelfSigned bool          `yaml:"tls_self_signed"`

	// CLI only.
	SessionFile string `yaml:"session_file" validate:"required"`
	SessionKey  string `yaml:"session_key"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		Env:         Development,
		HTTPPort:    DefaultHTTPPort,
		APIBaseURL:  DefaultAPIBaseURL,
		ViewTTL:     DefaultViewTTL,
		MaxViews:    DefaultMaxViews,
		LogLevel:    "info",
		SessionFile: filepath.Join(home, ".chaos", "session"),
	}
}

// Load builds the configuration from defaults, the CHAOS_CONFIG file if set,
// and the environment.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CHAOS_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.loadEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

func (c *Config) loadEnv(lookup lookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("CHAOS_ENV"); ok {
		c.Env = Environment(strings.ToLower(v))
	}
	if v, ok := get("CHAOS_HTTP_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CHAOS_HTTP_PORT: %w", err)
		}
		c.HTTPPort = port
	}
	if v, ok := get("CHAOS_API_BASE_URL"); ok {
		c.APIBaseURL = v
	}
	if v, ok := get("CHAOS_API_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CHAOS_API_TIMEOUT: %w", err)
		}
		c.APITimeout = d
	}
	if v, ok := get("CHAOS_VIEW_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CHAOS_VIEW_TTL: %w", err)
		}
		c.ViewTTL = d
	}
	if v, ok := get("CHAOS_MAX_VIEWS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CHAOS_MAX_VIEWS: %w", err)
		}
		c.MaxViews = n
	}
	if v, ok := get("CHAOS_LOG_LEVEL"); ok {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := get("CHAOS_SECURE_COOKIES"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CHAOS_SECURE_COOKIES: %w", err)
		}
		c.SecureCookies = b
	}
	if v, ok := get("CHAOS_TLS_SELF_SIGNED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CHAOS_TLS_SELF_SIGNED: %w", err)
		}
		c.TLSSelfSigned = b
	}
	if v, ok := get("CHAOS_SESSION_FILE"); ok {
		c.SessionFile = v
	}
	if v, ok := get("CHAOS_SESSION_KEY"); ok {
		c.SessionKey = v
	}
	return nil
}

var validate = validator.New()

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fieldError(e))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func fieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "url":
		return field + " must be a valid URL"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "min", "max":
		return fmt.Sprintf("%s is out of range (%s %s)", field, e.Tag(), e.Param())
	default:
		return field + " is invalid"
	}
}

// Addr is the listen address for the web server.
func (c *Config) Addr() string { return ":" + strconv.Itoa(c.HTTPPort) }

// IsProduction reports whether the portal runs in production.
func (c *Config) IsProduction() bool { return c.Env == Production }

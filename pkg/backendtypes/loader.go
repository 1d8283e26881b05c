package backendtypes

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cecil-the-coder/book-cover-gateway/pkg/hostresolver"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/providers/openai"
	"gopkg.in/yaml.v3"
)

// Environment variables read by LoadConfig. The backend URL variables are
// consulted in order; the first non-empty one wins.
var backendURLEnv = []string{"BACKEND_BASE_URL", "BACKEND_URL", "NEXT_PUBLIC_BACKEND_URL"}

const (
	envPort      = "PORT"
	envImagesURL = "OPENAI_IMAGES_URL"
)

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *BackendConfig {
	return &BackendConfig{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3000,
			Version:         "1.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    150 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Auth: AuthConfig{
			PublicPaths: []string{"/health", "/status", "/version"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		CORS: CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
			MaxAge:         600,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 10,
			Burst:             3,
		},
		Catalog: CatalogConfig{
			BaseURL: hostresolver.DefaultBaseURL,
			Timeout: 10 * time.Second,
		},
		Images: ImagesConfig{
			URL:     openai.DefaultImagesURL,
			Timeout: 120 * time.Second,
		},
	}
}

// LoadConfig reads the yaml file at path (skipped when empty) over the
// defaults, then applies environment overrides
func LoadConfig(path string) (*BackendConfig, error) {
	return LoadConfigWithEnv(path, os.Getenv)
}

// LoadConfigWithEnv is LoadConfig with an explicit environment lookup
func LoadConfigWithEnv(path string, getenv func(string) string) (*BackendConfig, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *BackendConfig) applyEnv(getenv func(string) string) error {
	for _, key := range backendURLEnv {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			c.Catalog.BaseURL = v
			break
		}
	}

	if v := strings.TrimSpace(getenv(envPort)); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", envPort, v, err)
		}
		c.Server.Port = port
	}

	if v := strings.TrimSpace(getenv(envImagesURL)); v != "" {
		c.Images.URL = v
	}

	if c.Auth.APIKeyEnv != "" {
		if v := getenv(c.Auth.APIKeyEnv); v != "" {
			c.Auth.APIPassword = v
		}
	}
	return nil
}

// applyDefaults fills zero values a partial config file left behind
func (c *BackendConfig) applyDefaults() {
	d := DefaultConfig()

	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = d.Server.ReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = d.Server.WriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = d.Catalog.BaseURL
	}
	if c.Catalog.Timeout == 0 {
		c.Catalog.Timeout = d.Catalog.Timeout
	}
	if c.Images.URL == "" {
		c.Images.URL = d.Images.URL
	}
	if c.Images.Timeout == 0 {
		c.Images.Timeout = d.Images.Timeout
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = d.RateLimit.Burst
	}
}

// Validate checks the config for values the server cannot start with
func (c *BackendConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if _, err := hostresolver.ParseBaseURL(c.Catalog.BaseURL); err != nil {
		return fmt.Errorf("catalog.base_url: %w", err)
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must be positive when enabled")
	}
	if c.Auth.Enabled && c.Auth.APIPassword == "" {
		return fmt.Errorf("auth is enabled but no api_password is set")
	}
	return nil
}

// WriteConfig encodes cfg as yaml with two-space indentation
func WriteConfig(w io.Writer, cfg *BackendConfig) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}

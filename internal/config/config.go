package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Global singleton for call sites that run outside the injection graph,
// such as scheduled jobs.
var globalConfig *Config

// Config holds all environment backed configuration for chat-api.
type Config struct {
	// HTTP Server
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`
	// Optional read replica; when set, reads route there.
	DatabaseReplicaURL string `env:"DATABASE_REPLICA_URL"`

	// Identity provider (GoTrue-compatible) / Auth
	AuthBaseURL         string        `env:"AUTH_BASE_URL,notEmpty"`
	AuthServiceKey      string        `env:"AUTH_SERVICE_KEY"`
	JWKSURL             string        `env:"JWKS_URL"`
	OIDCDiscoveryURL    string        `env:"OIDC_DISCOVERY_URL"`
	Issuer              string        `env:"ISSUER,notEmpty"`
	Audience            string        `env:"AUDIENCE,notEmpty"`
	RefreshJWKSInterval time.Duration `env:"JWKS_REFRESH_INTERVAL" envDefault:"5m"`
	AuthClockSkew       time.Duration `env:"AUTH_CLOCK_SKEW" envDefault:"30s"`

	// Completion provider
	CompletionBaseURL      string        `env:"COMPLETION_BASE_URL,notEmpty"`
	CompletionAPIKey       string        `env:"COMPLETION_API_KEY,notEmpty"`
	CompletionProviderName string        `env:"COMPLETION_PROVIDER_NAME" envDefault:"openrouter"`
	CompletionDefaultModel string        `env:"COMPLETION_DEFAULT_MODEL" envDefault:"openai/gpt-4o-mini"`
	CompletionTimeout      time.Duration `env:"COMPLETION_TIMEOUT" envDefault:"120s"`

	// Prompt enhancer (best effort, own short timeout)
	EnhancerTimeout time.Duration `env:"ENHANCER_TIMEOUT" envDefault:"10s"`
	EnhancerModel   string        `env:"ENHANCER_MODEL"`

	// Image renderer
	ImageBaseURL      string        `env:"IMAGE_BASE_URL,notEmpty"`
	ImageWidth        int           `env:"IMAGE_WIDTH" envDefault:"1024"`
	ImageHeight       int           `env:"IMAGE_HEIGHT" envDefault:"1024"`
	ImageModel        string        `env:"IMAGE_MODEL"`
	ImageExtraParams  string        `env:"IMAGE_EXTRA_PARAMS" envDefault:"nologo=true"`
	ImageProbeTimeout time.Duration `env:"IMAGE_PROBE_TIMEOUT" envDefault:"10s"`

	// Model catalog seed
	ModelSeedEnabled bool   `env:"MODEL_SEED_ENABLED" envDefault:"true"`
	ModelSeedFile    string `env:"MODEL_SEED_FILE"`

	// Maintenance jobs (opt in)
	MaintenanceEnabled  bool          `env:"MAINTENANCE_ENABLED" envDefault:"false"`
	MaintenanceSchedule string        `env:"MAINTENANCE_SCHEDULE" envDefault:"0 * * * *"`
	MaintenanceStaleAge time.Duration `env:"MAINTENANCE_STALE_AGE" envDefault:"24h"`

	// Observability / Logging
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	OTLPEndpoint     string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPHeaders      string        `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	ServiceName      string        `env:"SERVICE_NAME" envDefault:"chat-api"`
	ServiceNamespace string        `env:"SERVICE_NAMESPACE" envDefault:"chat"`
	Environment      string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string        `env:"LOG_FORMAT" envDefault:"console"`

	// Features
	AutoMigrate        bool     `env:"AUTO_MIGRATE" envDefault:"true"`
	EnablePprof        bool     `env:"ENABLE_PPROF" envDefault:"false"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Internal
	ModelSeeds    []ModelSeedEntry `env:"-"`
	EnvReloadedAt time.Time
}

// Load parses environment variables into Config and fails closed on
// anything the process cannot run without.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.JWKSURL == "" && cfg.OIDCDiscoveryURL == "" {
		return nil, errors.New("either JWKS_URL or OIDC_DISCOVERY_URL must be provided")
	}

	if cfg.JWKSURL != "" {
		if _, err := url.ParseRequestURI(cfg.JWKSURL); err != nil {
			return nil, fmt.Errorf("invalid JWKS_URL: %w", err)
		}
	}

	if cfg.OIDCDiscoveryURL != "" {
		if _, err := url.ParseRequestURI(cfg.OIDCDiscoveryURL); err != nil {
			return nil, fmt.Errorf("invalid OIDC_DISCOVERY_URL: %w", err)
		}
	}

	if _, err := url.ParseRequestURI(cfg.AuthBaseURL); err != nil {
		return nil, fmt.Errorf("invalid AUTH_BASE_URL: %w", err)
	}

	if _, err := url.ParseRequestURI(cfg.CompletionBaseURL); err != nil {
		return nil, fmt.Errorf("invalid COMPLETION_BASE_URL: %w", err)
	}

	if _, err := url.ParseRequestURI(cfg.ImageBaseURL); err != nil {
		return nil, fmt.Errorf("invalid IMAGE_BASE_URL: %w", err)
	}

	if cfg.ImageWidth <= 0 || cfg.ImageHeight <= 0 {
		return nil, fmt.Errorf("image dimensions must be positive, got %dx%d", cfg.ImageWidth, cfg.ImageHeight)
	}

	if cfg.ModelSeedEnabled {
		seedFile := strings.TrimSpace(cfg.ModelSeedFile)
		if seedFile == "" {
			seedFile = DefaultModelSeedFile
		}
		seeds, err := LoadModelSeeds(seedFile)
		if err != nil {
			return nil, fmt.Errorf("load model seeds: %w", err)
		}
		cfg.ModelSeeds = seeds
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.EnvReloadedAt = time.Now()

	// Update global singleton for backwards compatibility
	globalConfig = cfg

	return cfg, nil
}

// ResolveJWKSURL returns the JWKS endpoint using either the explicit
// JWKS_URL or the OIDC discovery document.
func (c *Config) ResolveJWKSURL(ctx context.Context) (string, error) {
	if c.JWKSURL != "" {
		return c.JWKSURL, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.OIDCDiscoveryURL, nil)
	if err != nil {
		return "", fmt.Errorf("oidc discovery request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch oidc discovery: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oidc discovery unexpected status: %s", resp.Status)
	}

	var doc struct {
		JWKSURL string `json:"jwks_uri"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", fmt.Errorf("decode oidc discovery: %w", err)
	}

	if doc.JWKSURL == "" {
		return "", errors.New("jwks_uri not found in discovery document")
	}

	return doc.JWKSURL, nil
}

// GetGlobal returns the config loaded by Load. Prefer injecting *Config;
// this exists for call sites with no access to the injection graph.
func GetGlobal() *Config {
	return globalConfig
}

var Version = "dev"

func IsDev() bool {
	return strings.HasPrefix(Version, "dev")
}

// GetEnvReloadedAt returns when the environment was last parsed into the
// global config.
func GetEnvReloadedAt() time.Time {
	if globalConfig == nil {
		return time.Time{}
	}
	return globalConfig.EnvReloadedAt
}

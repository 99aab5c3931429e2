package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alim08/exchange/pkg/validation"
)

const (
	defaultAuthServiceURL  = "http://auth:8080"
	defaultRateURLTemplate = "https://v6.exchangerate-api.com/v6/{apiKey}/latest/{base}"
)

type Config struct {
	HTTPPort    int    `validate:"gt=0,max=65535"`
	MetricsPort int    `validate:"gt=0,max=65535"`
	Environment string `validate:"required"`

	APIKey                 string `validate:"required"`
	AuthServiceURL         string `validate:"required,url"`
	RateServiceURLTemplate string `validate:"required,urltemplate"`

	AuthTimeout     time.Duration `validate:"gt=0"`
	RateTimeout     time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`

	CORSOrigins []string `validate:"min=1"`
}

// Load reads environment variables and application flags (via a local FlagSet),
// strips out any -test.* flags, and validates required fields.
func Load() (*Config, error) {
	// 1. Build a fresh FlagSet so we don't collide with `go test` flags
	fs := flag.NewFlagSet("config", flag.ContinueOnError)

	// 2. Define only the flags this package cares about
	var (
		httpPort     int
		metricsPort  int
		apiKey       string
		authURL      string
		rateTemplate string
	)
	fs.IntVar(&httpPort, "port", 8080, "HTTP listen port")
	fs.IntVar(&metricsPort, "metrics-port", 8082, "Metrics server port")
	fs.StringVar(&apiKey, "api-key", os.Getenv("EXCHANGE_API_KEY"), "Rate provider API key")
	fs.StringVar(&authURL, "auth-url", getEnvOrDefault("AUTH_SERVICE_URL", defaultAuthServiceURL), "Auth service base URL")
	fs.StringVar(&rateTemplate, "rate-url-template", getEnvOrDefault("RATE_SERVICE_URL_TEMPLATE", defaultRateURLTemplate),
		"Rate provider URL template with {apiKey} and {base} placeholders")

	// 3. Filter out any -test.* args before parsing
	var appArgs []string
	for _, arg := range os.Args[1:] {
		if strings.HasPrefix(arg, "-test.") {
			continue
		}
		appArgs = append(appArgs, arg)
	}
	if err := fs.Parse(appArgs); err != nil {
		return nil, err
	}

	// 4. Populate our Config struct
	cfg := &Config{
		HTTPPort:               httpPort,
		MetricsPort:            metricsPort,
		Environment:            getEnvOrDefault("ENVIRONMENT", "development"),
		APIKey:                 strings.TrimSpace(apiKey),
		AuthServiceURL:         strings.TrimRight(authURL, "/"),
		RateServiceURLTemplate: rateTemplate,
		AuthTimeout:            getDurationEnvOrDefault("AUTH_TIMEOUT", 5*time.Second),
		RateTimeout:            getDurationEnvOrDefault("RATE_TIMEOUT", 6*time.Second),
		ShutdownTimeout:        getDurationEnvOrDefault("SHUTDOWN_TIMEOUT", 30*time.Second),
		CORSOrigins:            splitAndTrim(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"), ","),
	}

	// PORT and METRICS_PORT override flag/default if set
	if err := intFromEnv("PORT", &cfg.HTTPPort); err != nil {
		return nil, err
	}
	if err := intFromEnv("METRICS_PORT", &cfg.MetricsPort); err != nil {
		return nil, err
	}

	// 5. Validate
	if err := validation.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func intFromEnv(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s env var: %v", key, err)
	}
	*dst = n
	return nil
}

// splitAndTrim splits s on sep, trims spaces, and drops empty entries.
func splitAndTrim(s, sep string) []string {
	parts := []string{}
	for _, p := range strings.Split(s, sep) {
		if t := strings.TrimSpace(p); t != "" {
			parts = append(parts, t)
		}
	}
	return parts
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnvOrDefault returns environment variable as duration or default
func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Package config provides configuration management for the multitool.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"

	GroqAPIKeyName      = "GROQ_API_KEY"
	AnthropicAPIKeyName = "ANTHROPIC_API_KEY"

	DefaultGroqModel      = "llama-3.3-70b-versatile"
	DefaultAnthropicModel = "claude-sonnet-4-0"
	DefaultGroqBaseURL    = "https://api.groq.com/openai/v1"
	DefaultSecretsFile    = ".streamlit/secrets.toml"
)

// Config is constructed once at process start and passed to whichever component needs it
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	SecretsFile string

	RequestsPerMinute int
	RequestTimeout    time.Duration

	LogLevel  string
	LogFormat string

	TelemetryEnabled  bool
	OTLPEndpoint      string
	TelemetryInsecure bool // Export traces over plain HTTP, for a collector on localhost
}

// Default returns the configuration used when nothing is overridden. Model is left empty and filled in per
// provider by Finalize.
func Default() Config {
	return Config{
		Provider:          ProviderGroq,
		BaseURL:           DefaultGroqBaseURL,
		SecretsFile:       DefaultSecretsFile,
		RequestsPerMinute: 30,
		RequestTimeout:    60 * time.Second,
		LogLevel:          "info",
		LogFormat:         "console",
	}
}

// LoadFromEnv overrides fields with any optional environment variables that are set
func (c *Config) LoadFromEnv(getenv func(string) string) error {
	loadOptional(getenv, &c.Provider, "MULTITOOL_PROVIDER")
	loadOptional(getenv, &c.Model, "MULTITOOL_MODEL")
	loadOptional(getenv, &c.BaseURL, "GROQ_BASE_URL")
	loadOptional(getenv, &c.SecretsFile, "MULTITOOL_SECRETS_FILE")
	loadOptional(getenv, &c.LogLevel, "LOG_LEVEL")
	loadOptional(getenv, &c.LogFormat, "LOG_FORMAT")
	loadOptional(getenv, &c.OTLPEndpoint, "OTLP_ENDPOINT")

	if err := parseOptional(getenv, &c.RequestsPerMinute, "MULTITOOL_RPM", strconv.Atoi); err != nil {
		return err
	}
	if err := parseOptional(getenv, &c.RequestTimeout, "MULTITOOL_TIMEOUT", time.ParseDuration); err != nil {
		return err
	}
	if err := parseOptional(getenv, &c.TelemetryEnabled, "TELEMETRY_ENABLED", strconv.ParseBool); err != nil {
		return err
	}
	if err := parseOptional(getenv, &c.TelemetryInsecure, "TELEMETRY_INSECURE", strconv.ParseBool); err != nil {
		return err
	}
	return nil
}

// Finalize fills in provider-dependent defaults
func (c *Config) Finalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Model == "" {
		switch c.Provider {
		case ProviderAnthropic:
			c.Model = DefaultAnthropicModel
		default:
			c.Model = DefaultGroqModel
		}
	}
}

// CredentialKey returns the secret store key and environment variable name holding the provider's API key
func (c Config) CredentialKey() string {
	if c.Provider == ProviderAnthropic {
		return AnthropicAPIKeyName
	}
	return GroqAPIKeyName
}

// Validate checks that the configuration is usable. It does not check the credential, which Resolver handles.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGroq, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown provider %q: must be %q or %q", c.Provider, ProviderGroq, ProviderAnthropic)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("model id must not be empty")
	}
	if c.RequestsPerMinute <= 0 {
		return fmt.Errorf("requests per minute must be positive, got %d", c.RequestsPerMinute)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

func loadOptional(getenv func(string) string, dest *string, key string) {
	_ = parseOptional(getenv, dest, key, func(v string) (string, error) { return v, nil })
}

func parseOptional[T any](getenv func(string) string, dest *T, key string, parseFn func(string) (T, error)) error {
	str := getenv(key)
	if str == "" {
		return nil // Leave default value
	}
	v, err := parseFn(str)
	if err != nil {
		return fmt.Errorf("failed to parse environment variable '%s' value '%s' as '%T': %w", key, str, *dest, err)
	}
	*dest = v
	return nil
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cchalm/groq-multitool/internal/config"
)

// cfg is the effective configuration: defaults, then environment, then flags the user set explicitly
var cfg = config.Default()

// flagValues receives flag values; only flags the user changed are copied over cfg
var flagValues = config.Default()

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagValues.Provider, "provider", flagValues.Provider, "Completion provider: groq or anthropic")
	pf.StringVar(&flagValues.Model, "model", "", "Model id (default depends on the provider)")
	pf.StringVar(&flagValues.BaseURL, "base-url", flagValues.BaseURL, "Base URL of the OpenAI-compatible endpoint")
	pf.StringVar(&flagValues.SecretsFile, "secrets-file", flagValues.SecretsFile, "TOML secret store consulted before the environment")
	pf.IntVar(&flagValues.RequestsPerMinute, "rpm", flagValues.RequestsPerMinute, "Maximum completion requests started per minute")
	pf.DurationVar(&flagValues.RequestTimeout, "timeout", flagValues.RequestTimeout, "Timeout of a single completion request")
	pf.StringVar(&flagValues.LogLevel, "log-level", flagValues.LogLevel, "Log level: debug, info, warn or error")
	pf.StringVar(&flagValues.LogFormat, "log-format", flagValues.LogFormat, "Log format: console or json")
	pf.BoolVar(&flagValues.TelemetryEnabled, "telemetry", flagValues.TelemetryEnabled, "Export OpenTelemetry traces")
	pf.StringVar(&flagValues.OTLPEndpoint, "otlp-endpoint", flagValues.OTLPEndpoint, "OTLP/HTTP collector host:port")
	pf.BoolVar(&flagValues.TelemetryInsecure, "otlp-insecure", flagValues.TelemetryInsecure, "Send traces to the collector without TLS")
}

func applyChangedFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	apply := map[string]func(){
		"provider":      func() { cfg.Provider = flagValues.Provider },
		"model":         func() { cfg.Model = flagValues.Model },
		"base-url":      func() { cfg.BaseURL = flagValues.BaseURL },
		"secrets-file":  func() { cfg.SecretsFile = flagValues.SecretsFile },
		"rpm":           func() { cfg.RequestsPerMinute = flagValues.RequestsPerMinute },
		"timeout":       func() { cfg.RequestTimeout = flagValues.RequestTimeout },
		"log-level":     func() { cfg.LogLevel = flagValues.LogLevel },
		"log-format":    func() { cfg.LogFormat = flagValues.LogFormat },
		"telemetry":     func() { cfg.TelemetryEnabled = flagValues.TelemetryEnabled },
		"otlp-endpoint": func() { cfg.OTLPEndpoint = flagValues.OTLPEndpoint },
		"otlp-insecure": func() { cfg.TelemetryInsecure = flagValues.TelemetryInsecure },
	}
	for name, fn := range apply {
		if fs.Changed(name) {
			fn()
		}
	}
}

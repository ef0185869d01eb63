package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cchalm/groq-multitool/internal/ai"
	"github.com/cchalm/groq-multitool/internal/config"
	"github.com/cchalm/groq-multitool/internal/logging"
	"github.com/cchalm/groq-multitool/internal/metrics"
	"github.com/cchalm/groq-multitool/internal/telemetry"
)

var rootCmd = &cobra.Command{
	Use:   "multitool",
	Short: "Chatbot, summarizer and structured-data extractor on top of a hosted LLM",
	Long: `Groq Multi-Tool offers three small tools backed by a hosted language model:
a chatbot with configurable persona and mood, a text summarizer with length,
tone and format controls, and an extractor that pulls named fields out of text
as JSON. Use the subcommands from a terminal, or "serve" to expose them over HTTP.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

func Execute() error {
	return rootCmd.Execute()
}

// runtime is everything built once at startup from the configuration
type runtime struct {
	logger    *zap.Logger
	telemetry *telemetry.Provider
	registry  *prometheus.Registry
	metrics   *metrics.ToolMetrics
	completer *ai.Client
}

var rt runtime

// setup loads the configuration, resolves the credential and builds the completion client. A missing credential
// stops the process here, before any remote call.
func setup(cmd *cobra.Command, _ []string) error {
	// Load .env file
	dotenvErr := godotenv.Load()

	if err := cfg.LoadFromEnv(os.Getenv); err != nil {
		return err
	}
	applyChangedFlags(cmd)
	cfg.Finalize()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	rt.logger = logger
	if dotenvErr != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	resolver := config.NewResolver(cfg.CredentialKey(), config.NewFileSecretStore(cfg.SecretsFile), os.Getenv)
	apiKey, err := resolver.Resolve()
	if err != nil {
		return err
	}
	cfg.APIKey = apiKey

	rt.telemetry, err = createTelemetryProvider(cmd.Context(), logger)
	if err != nil {
		return err
	}

	rt.registry = prometheus.NewRegistry()
	rt.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rt.metrics = metrics.NewToolMetrics(rt.registry)

	rt.completer = createCompleter(logger, rt.telemetry)
	logger.Debug("Configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
		zap.Int("requests_per_minute", cfg.RequestsPerMinute),
		zap.Duration("request_timeout", cfg.RequestTimeout),
	)
	return nil
}

func teardown(_ *cobra.Command, _ []string) {
	if rt.telemetry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rt.telemetry.Shutdown(ctx); err != nil {
			rt.logger.Warn("Failed to flush telemetry", zap.Error(err))
		}
	}
	if rt.logger != nil {
		_ = rt.logger.Sync()
	}
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/cchalm/groq-multitool/internal/ai"
	"github.com/cchalm/groq-multitool/internal/config"
	"github.com/cchalm/groq-multitool/internal/document"
	"github.com/cchalm/groq-multitool/internal/export"
	"github.com/cchalm/groq-multitool/internal/telemetry"
	"github.com/cchalm/groq-multitool/internal/transport"
)

func setupContext(logger *zap.Logger) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	// Setup graceful shutdown
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		logger.Info("Interrupt signal detected, shutting down gracefully...")
		cancel()
		<-interrupt
		logger.Fatal("Forcing shutdown")
	}()

	return ctx
}

// createCompleter builds the completion client for the configured provider. Every backend shares one paced HTTP
// client whose timeout bounds a single completion call.
func createCompleter(logger *zap.Logger, tp *telemetry.Provider) *ai.Client {
	httpClient := &http.Client{
		Transport: transport.WithPacing(nil, cfg.RequestsPerMinute, logger),
		Timeout:   cfg.RequestTimeout,
	}

	var backend ai.Backend
	switch cfg.Provider {
	case config.ProviderAnthropic:
		backend = ai.NewAnthropicBackend(cfg.APIKey, httpClient, logger)
	default:
		backend = ai.NewOpenAIBackend(cfg.Provider, cfg.APIKey, cfg.BaseURL, httpClient)
	}
	return ai.NewClient(backend, ai.WithTracer(tp.Tracer()), ai.WithLogger(logger))
}

func createTelemetryProvider(ctx context.Context, logger *zap.Logger) (*telemetry.Provider, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return telemetry.NewProvider(ctx, telemetryConfigFrom(cfg), logger)
}

func telemetryConfigFrom(c config.Config) telemetry.TelemetryConfig {
	return telemetry.TelemetryConfig{
		Enabled:        c.TelemetryEnabled,
		OTLPEndpoint:   c.OTLPEndpoint,
		Insecure:       c.TelemetryInsecure,
		ServiceVersion: version,
	}
}

// readInputText returns the text to process: the named file if one was given, otherwise the --text flag, otherwise
// standard input
func readInputText(args []string, text string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return document.Load(filepath.Base(path), "", data)
	}
	if text != "" {
		return text, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read standard input: %w", err)
	}
	return string(data), nil
}

// saveArtifact writes a to the store and reports where it went
func saveArtifact(w io.Writer, store export.FileStore, a export.Artifact) error {
	path, err := store.Save(a)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, dimStyle.Render("Saved "+path))
	return nil
}

// describeError turns tool errors into a one-line message for the terminal
func describeError(err error) string {
	switch {
	case errors.Is(err, ai.ErrEmptyInput):
		return strings.TrimPrefix(err.Error(), ai.ErrEmptyInput.Error()+": ")
	case ai.IsAuthenticationError(err):
		return "The API key was rejected: " + err.Error()
	case ai.IsRateLimitError(err):
		return "Rate limited by the provider, try again shortly: " + err.Error()
	case ai.IsTimeoutError(err):
		return "The request timed out: " + err.Error()
	default:
		return err.Error()
	}
}

//go:build e2e

package testutil

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cchalm/groq-multitool/internal/ai"
	"github.com/cchalm/groq-multitool/internal/config"
	"github.com/cchalm/groq-multitool/internal/transport"
)

// TestConfig holds configuration for end-to-end tests
type TestConfig struct {
	Model      string
	BaseURL    string
	Iterations int
	Timeout    time.Duration
	APIKey     string
}

// LoadTestConfig loads test configuration from environment variables
func LoadTestConfig() TestConfig {
	cfg := TestConfig{
		Model:      config.DefaultGroqModel,
		BaseURL:    config.DefaultGroqBaseURL,
		Iterations: 3,
		Timeout:    60 * time.Second,
	}

	if model := os.Getenv("E2E_MODEL"); model != "" {
		cfg.Model = model
	}

	if baseURL := os.Getenv("GROQ_BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}

	if iterations := os.Getenv("E2E_ITERATIONS"); iterations != "" {
		if val, err := strconv.Atoi(iterations); err == nil {
			cfg.Iterations = val
		}
	}

	if timeout := os.Getenv("E2E_TIMEOUT"); timeout != "" {
		if val, err := strconv.Atoi(timeout); err == nil {
			cfg.Timeout = time.Duration(val) * time.Second
		}
	}

	cfg.APIKey = os.Getenv(config.GroqAPIKeyName)

	return cfg
}

// TestHarness provides utilities for end-to-end testing against the live endpoint
type TestHarness struct {
	t         *testing.T
	config    TestConfig
	completer *ai.Client
}

// NewTestHarness creates a new test harness
func NewTestHarness(t *testing.T) *TestHarness {
	cfg := LoadTestConfig()

	require.NotEmpty(t, cfg.APIKey, "GROQ_API_KEY environment variable is required for e2e tests")

	httpClient := &http.Client{
		// Stay well under the free tier's request quota
		Transport: transport.WithPacing(nil, 20, nil),
		Timeout:   cfg.Timeout,
	}
	backend := ai.NewOpenAIBackend(config.ProviderGroq, cfg.APIKey, cfg.BaseURL, httpClient)

	return &TestHarness{
		t:         t,
		config:    cfg,
		completer: ai.NewClient(backend),
	}
}

// Config returns the test configuration
func (h *TestHarness) Config() TestConfig {
	return h.config
}

// Completer returns the live completion client
func (h *TestHarness) Completer() *ai.Client {
	return h.completer
}

// RunIterations runs a test function multiple times and reports results
func (h *TestHarness) RunIterations(testName string, testFunc func(iteration int) error) {
	h.t.Helper()

	successCount := 0
	var lastError error

	for i := 0; i < h.config.Iterations; i++ {
		h.t.Logf("Running iteration %d/%d of %s", i+1, h.config.Iterations, testName)

		err := testFunc(i)
		if err != nil {
			h.t.Logf("Iteration %d failed: %v", i+1, err)
			lastError = err
		} else {
			successCount++
			h.t.Logf("Iteration %d succeeded", i+1)
		}
	}

	h.t.Logf("Test %s: %d/%d iterations succeeded", testName, successCount, h.config.Iterations)

	// Require at least 2/3 success rate for tests to pass
	minSuccessCount := (h.config.Iterations*2 + 2) / 3
	if successCount < minSuccessCount {
		require.NoErrorf(h.t, lastError, "Test %s failed with %d/%d successes (minimum %d required)",
			testName, successCount, h.config.Iterations, minSuccessCount)
	}
}

// WithTimeout runs a function with the configured timeout
func (h *TestHarness) WithTimeout(fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	return fn(ctx)
}

// Package server is the HTTP host: one handler per user action of the chat, summarizer and extractor tools.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/cchalm/groq-multitool/internal/ai"
	"github.com/cchalm/groq-multitool/internal/chat"
	"github.com/cchalm/groq-multitool/internal/extract"
	"github.com/cchalm/groq-multitool/internal/metrics"
	"github.com/cchalm/groq-multitool/internal/summarize"
)

// DefaultMaxUploadBytes bounds multipart uploads
const DefaultMaxUploadBytes = 20 << 20

// Config holds what the handlers need. Completer and Model are required; everything else is optional.
type Config struct {
	Completer ai.Completer
	Model     string

	Logger         *zap.Logger
	Metrics        *metrics.ToolMetrics
	MetricsHandler http.Handler
	MaxUploadBytes int64

	SessionIdleTimeout time.Duration
	MaxSessions        int
}

type Server struct {
	summarizer *summarize.Summarizer
	extractor  *extract.Extractor
	sessions   *sessionStore

	metricsHandler http.Handler
	maxUploadBytes int64
	logger         *zap.Logger
}

func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	return &Server{
		summarizer: summarize.NewSummarizer(cfg.Completer, cfg.Model, logger, cfg.Metrics),
		extractor:  extract.NewExtractor(cfg.Completer, cfg.Model, logger, cfg.Metrics),
		sessions: newSessionStore(func() *chat.Session {
			return chat.NewSession(cfg.Completer, cfg.Model, logger, cfg.Metrics)
		}, cfg.SessionIdleTimeout, cfg.MaxSessions),
		metricsHandler: cfg.MetricsHandler,
		maxUploadBytes: maxUpload,
		logger:         logger,
	}
}

// Routes returns the router with every route mounted
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	if s.metricsHandler != nil {
		r.Handle("/metrics", s.metricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		api.Route("/chat", func(r chi.Router) {
			r.Post("/", s.handleChat)
			r.Post("/clear", s.handleChatClear)
			r.Get("/export", s.handleChatExport)
		})
		api.Post("/summarize", s.handleSummarize)
		api.Post("/extract", s.handleExtract)
	})
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully. writeTimeout must cover the slowest
// completion call.
func (s *Server) Run(ctx context.Context, addr string, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// requestLogger emits one structured log line per request
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("Request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

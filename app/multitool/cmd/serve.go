package cmd

import (
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/cchalm/groq-multitool/internal/server"
)

// httpWriteSlack is added to the completion timeout to get the server's write timeout
const httpWriteSlack = 15 * time.Second

var serveOpts struct {
	addr               string
	maxUploadBytes     int64
	sessionIdleTimeout time.Duration
	maxSessions        int
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the three tools over HTTP",
	Long: `Starts an HTTP server with one endpoint per tool action. Each browser gets
its own chat session, identified by a cookie and kept in memory.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveOpts.addr, "addr", ":8080", "Address to listen on")
	serveCmd.Flags().Int64Var(&serveOpts.maxUploadBytes, "max-upload-bytes", server.DefaultMaxUploadBytes, "Largest accepted file upload")
	serveCmd.Flags().DurationVar(&serveOpts.sessionIdleTimeout, "session-idle-timeout", server.DefaultSessionIdleTimeout, "Drop chat sessions idle for longer than this")
	serveCmd.Flags().IntVar(&serveOpts.maxSessions, "max-sessions", server.DefaultMaxSessions, "Maximum chat sessions kept in memory")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := setupContext(rt.logger)

	s := server.New(server.Config{
		Completer:      rt.completer,
		Model:          cfg.Model,
		Logger:         rt.logger,
		Metrics:        rt.metrics,
		MetricsHandler: promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{}),
		MaxUploadBytes: serveOpts.maxUploadBytes,

		SessionIdleTimeout: serveOpts.sessionIdleTimeout,
		MaxSessions:        serveOpts.maxSessions,
	})
	return s.Run(ctx, serveOpts.addr, cfg.RequestTimeout+httpWriteSlack)
}

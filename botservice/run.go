// Package botservice wires the archival engine to its collaborators and runs
// the operational HTTP surface.
package botservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/chatvault/chatvault/internal/api"
	"github.com/chatvault/chatvault/internal/api/recovery"
	"github.com/chatvault/chatvault/internal/archive"
	"github.com/chatvault/chatvault/internal/chat"
	"github.com/chatvault/chatvault/internal/commands"
	"github.com/chatvault/chatvault/internal/components"
	"github.com/chatvault/chatvault/internal/config"
	"github.com/chatvault/chatvault/internal/fetch"
	"github.com/chatvault/chatvault/internal/logger"
	"github.com/chatvault/chatvault/internal/registry"
)

// Run starts the archival service and blocks until shutdown or error.
func Run() error {
	log := logger.New("chatvault")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("chat_api_base_url", cfg.ChatAPIBaseURL).
		Int("http_port", cfg.HTTPPort).
		Str("output_root", cfg.OutputRoot).
		Int("batch_size", cfg.BatchSize).
		Msg("Archival service starting")

	// Cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	fetchTimeout := time.Duration(cfg.FetchTimeoutSeconds) * time.Second
	chatClient := chat.NewClient(cfg.ChatAPIBaseURL, cfg.ChatAPIToken, cfg.AppID, fetchTimeout)

	// Health reports unhealthy until the startup probe has passed and again
	// once shutdown begins.
	var healthy atomic.Bool
	api.BindServiceHealth(healthy.Load)

	// Block startup until the chat API is reachable; fail fast otherwise.
	if err := waitForChatAPI(ctx, cfg, chatClient); err != nil {
		log.Error().Stack().Err(err).Msg("startup probe failed")
		return err
	}
	healthy.Store(true)

	reg := registry.New()
	controls := components.NewRegistry()
	cmds := commands.NewRegistry()

	archiver := archive.NewArchiver(
		archive.Deps{
			Registry:    reg,
			History:     chatClient,
			Channels:    chatClient,
			Permissions: chatClient,
			Fetcher:     fetch.New(fetchTimeout),
			Controls:    controls,
		},
		archive.Config{
			OutputRoot:        cfg.OutputRoot,
			BatchSize:         cfg.BatchSize,
			ReportingInterval: cfg.ReportingInterval,
		},
		log,
	)

	cmds.Register("archive", func(ctx context.Context, inter commands.Interaction) {
		_ = archiver.Run(ctx, archive.Request{
			ChannelID:   inter.ChannelID,
			RequesterID: inter.UserID,
			Status:      inter.Status,
		})
	})

	router := buildRouter(reg, cmds, controls, chatClient, log)

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	select {
	case <-ctx.Done():
		healthy.Store(false)
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// waitForChatAPI probes the chat API with exponential backoff until it
// responds or the startup window expires. History and asset fetches are never
// retried; the backoff applies to startup only.
func waitForChatAPI(ctx context.Context, cfg *config.Config, client *chat.Client) error {
	exp := backoff.NewExponentialBackOff()
	exp.MaxElapsedTime = time.Duration(cfg.StartupProbeTimeoutSeconds) * time.Second

	return backoff.Retry(func() error {
		return client.Ping(ctx)
	}, backoff.WithContext(exp, ctx))
}

// buildRouter wires HTTP routes to handlers.
func buildRouter(reg *registry.Registry, cmds *commands.Registry, controls *components.Registry, chatClient *chat.Client, log zerolog.Logger) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware)

	interactions := api.NewInteractionsHandler(
		cmds,
		controls,
		func(token string) chat.Status { return chatClient.StatusFor(token) },
		func(ctx context.Context, token string) (chat.Ack, error) { return chatClient.AckFor(ctx, token) },
		log,
	)
	root.HandleFunc("/api/interactions", interactions.HandleInteraction).Methods("POST")

	jobs := api.NewJobsHandler(reg)
	root.HandleFunc("/api/jobs", jobs.ListJobs).Methods("GET")

	healthHandler := api.NewHealthHandler()
	root.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	root.Handle("/metrics", promhttp.Handler()).Methods("GET")
	return root
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// ABOUTME: serve command runs the HTTP server with graceful shutdown
// ABOUTME: Registers the info, search and protocol handlers on the Huma API

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Lucasff16/arxiv-api-backend/api"
	"github.com/Lucasff16/arxiv-api-backend/api/handlers"
	"github.com/Lucasff16/arxiv-api-backend/core/domain"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, port)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")

	return cmd
}

func metadata() domain.Metadata {
	return domain.Metadata{
		Name:         "arxiv-search",
		Description:  "Searches arXiv and answers with formatted article summaries",
		Version:      version,
		Author:       "Lucasff16",
		Capabilities: domain.CapabilitySet{Search: true, Streaming: true},
	}
}

func runServe(cmd *cobra.Command, opts *rootOptions, port string) error {
	cfg, err := loadConfig(opts, port)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, cmd)
	if err != nil {
		return err
	}
	logger.Info("Starting arXiv search API", map[string]interface{}{
		"port":       cfg.Server.Port,
		"cache_type": cfg.Cache.Type,
		"upstream":   cfg.Upstream.BaseURL,
		"version":    version,
	})

	application, err := buildApp(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("Failed to close cache", map[string]interface{}{"error": err.Error()})
		}
	}()

	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
		Logger:    logger,
		RateLimit: cfg.Server.RateLimit,
		RateBurst: cfg.Server.RateBurst,
	})

	handlers.NewInfoHandler().RegisterRoutes(humaAPI)
	handlers.NewSearchHandler(application.service).RegisterRoutes(humaAPI)
	handlers.NewProtocolHandler(application.dispatcher, logger, metadata()).
		WithHeartbeatInterval(cfg.Protocol.HeartbeatInterval).
		RegisterRoutes(humaAPI)

	// Event streams extend their own write deadline per event; this one bounds synchronous answers.
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Protocol.FetchTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			logger.Error("HTTP server error", map[string]interface{}{"error": err.Error()})
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	logger.Info("Server stopped", nil)
	return nil
}

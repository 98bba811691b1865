// ABOUTME: Main entry point for the newsdesk API server
// ABOUTME: Loads configuration, wires components, and serves HTTP until interrupted

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsdesk-api/infrastructure/logger/logrus"
	"newsdesk-api/pkg/config"
	"newsdesk-api/pkg/featureflags"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logrus.NewLogrusLogger(logrus.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   true,
	})
	defer logger.Close()

	flags := featureflags.NewEnvManager("FEATURE_")
	logger.Info("Starting newsdesk API", map[string]interface{}{
		"port":       cfg.Server.Port,
		"cache_type": cfg.Cache.Type,
		"channel":    cfg.Channel.Type,
		"flags":      flagFields(flags),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := newApp(ctx, cfg, flags, logger)
	if err != nil {
		logger.Error("Failed to wire application", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer application.Close()

	// Script requests may wait through several channel attempts before the direct fallback
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      http.TimeoutHandler(application.handler, cfg.Server.RequestTimeout, `{"title":"Gateway Timeout","status":504}`),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{"address": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("HTTP server error", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{"error": err.Error()})
	}

	if application.agenda != nil && len(application.agenda.Items()) > 0 {
		if err := application.agenda.Persist(shutdownCtx); err != nil {
			logger.Warn("Agenda not persisted on shutdown", map[string]interface{}{"error": err.Error()})
		}
	}

	logger.Info("Server stopped", nil)
}

func flagFields(flags featureflags.Manager) map[string]string {
	out := make(map[string]string)
	for flag, enabled := range flags.GetAllFlags() {
		out[string(flag)] = fmt.Sprintf("%t", enabled)
	}
	return out
}

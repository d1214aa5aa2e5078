package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alfredjeanlab/ideaforge/internal/breakdown"
	"github.com/alfredjeanlab/ideaforge/internal/clarifier"
	"github.com/alfredjeanlab/ideaforge/internal/confidence"
	"github.com/alfredjeanlab/ideaforge/internal/config"
	"github.com/alfredjeanlab/ideaforge/internal/events"
	"github.com/alfredjeanlab/ideaforge/internal/export"
	"github.com/alfredjeanlab/ideaforge/internal/generator"
	"github.com/alfredjeanlab/ideaforge/internal/server"
	"github.com/alfredjeanlab/ideaforge/internal/store/postgres"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the forge HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				store.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (FORGE_NATS_URL not set)")
		}

		var gen generator.Generator
		if cfg.AnthropicAPIKey != "" {
			gen = generator.NewAnthropicGenerator(generator.AnthropicConfig{
				APIKey:         cfg.AnthropicAPIKey,
				Model:          cfg.AnthropicModel,
				TimeoutSeconds: int(cfg.GenerateTimeout.Seconds()),
				RetryCount:     cfg.GenerateRetries,
			})
			logger.Info("generator: anthropic", "model", cfg.AnthropicModel)
		} else {
			gen = &generator.Heuristic{}
			logger.Info("generator: heuristic (FORGE_ANTHROPIC_API_KEY not set)")
		}

		calc := confidence.New(confidence.Params{
			Default:   cfg.ConfidenceDefault,
			Base:      cfg.ConfidenceBase,
			Increment: cfg.ConfidenceIncrement,
			Max:       cfg.ConfidenceMax,
		})
		agent := clarifier.New(gen, store, publisher, calc,
			clarifier.WithCompleteThreshold(cfg.CompleteThreshold))
		engine := breakdown.New(gen, store, publisher,
			breakdown.WithHoursPerWeek(cfg.HoursPerWeek))
		engine.Initialize()

		forge := server.New(agent, engine, store)
		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: forge.NewHTTPHandler(cfg.AuthToken),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		var scheduler *export.Scheduler
		if cfg.ExportInterval > 0 && cfg.ExportS3Bucket != "" {
			dest, err := export.NewS3Destination(
				context.Background(),
				cfg.ExportS3Bucket,
				cfg.ExportS3Key,
				cfg.ExportS3Region,
				cfg.ExportS3Endpoint,
			)
			if err != nil {
				logger.Error("failed to create S3 export destination", "err", err)
			} else {
				scheduler = export.NewScheduler(store, []export.Destination{dest}, cfg.ExportInterval, logger)
				scheduler.Start()
				logger.Info("periodic export enabled",
					"bucket", cfg.ExportS3Bucket, "key", cfg.ExportS3Key, "interval", cfg.ExportInterval)
			}
		}

		// Block until interrupted, then drain.
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP shutdown error", "err", err)
		}
		if scheduler != nil {
			scheduler.Stop()
		}
		publisher.Close()
		store.Close()
		return nil
	},
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/forensix/log-inspector/internal/config"
	"github.com/forensix/log-inspector/internal/domain"
	"github.com/forensix/log-inspector/internal/export"
	"github.com/forensix/log-inspector/internal/geo"
	"github.com/forensix/log-inspector/internal/observability"
	"github.com/forensix/log-inspector/internal/profile"
	"github.com/forensix/log-inspector/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	observability.InitLogger(cfg.LogLevel)

	log.Info().
		Str("version", "0.1.0").
		Msg("Starting Log Inspector")

	// Per-investigation overrides
	if cfg.ProfilePath != "" {
		p, err := profile.Load(cfg.ProfilePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.ProfilePath).Msg("Failed to load analysis profile")
		}
		cfg.ApplyProfile(p)
		if err := cfg.Validate(); err != nil {
			log.Fatal().Err(err).Msg("Profile produced an invalid configuration")
		}
		log.Info().Str("path", cfg.ProfilePath).Msg("Analysis profile applied")
	}

	// Initialize tracer (no-op when disabled)
	shutdown, err := observability.InitTracer(observability.TracerConfig{
		ServiceName:    "log-inspector",
		ServiceVersion: "0.1.0",
		Endpoint:       cfg.TracingEndpoint,
		Protocol:       cfg.TracingProtocol,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer shutdown(context.Background())
	}

	// Geolocation collaborator
	var geoClient *geo.Client
	if cfg.GeoEnabled {
		cache, err := geo.NewBoltCache(cfg.GeoCachePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open geolocation cache")
		}
		defer cache.Close()
		geoClient = geo.NewClient(cache)
	}

	analyzer, err := service.NewAnalyzer(cfg, geoClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create analyzer")
	}

	// Cancellation is all-or-nothing at the run boundary
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	result, err := analyzer.AnalyzeFiles(ctx, cfg.InputPaths)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyInput) {
			// No timeline, but the parse failures still get exported.
			log.Error().
				Int("failures", len(result.Failures)).
				Msg("No valid log entries parsed, check the input format")
		} else {
			log.Fatal().Err(err).Msg("Analysis failed")
		}
	}

	if err := writeResult(cfg, result); err != nil {
		log.Fatal().Err(err).Msg("Failed to export results")
	}

	log.Info().Str("run_id", result.RunID).Msg("Log Inspector finished")
}

// writeResult serializes the run to the configured destination.
func writeResult(cfg *config.Config, result *service.Result) error {
	exporter, err := export.New(export.Format(cfg.ExportFormat))
	if err != nil {
		return err
	}
	if cfg.ExportGzip {
		exporter = export.Gzipped(exporter)
	}

	var w io.Writer = os.Stdout
	if cfg.ExportPath != "" {
		f, err := os.Create(cfg.ExportPath)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	return exporter.Export(w, result.Bundle())
}

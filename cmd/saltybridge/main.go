// Package main implements the SaltyChat bridge entry point.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/radio-control/saltybridge/internal/api"
	"github.com/radio-control/saltybridge/internal/audit"
	"github.com/radio-control/saltybridge/internal/auth"
	"github.com/radio-control/saltybridge/internal/bridge"
	"github.com/radio-control/saltybridge/internal/config"
	"github.com/radio-control/saltybridge/internal/exports"
	"github.com/radio-control/saltybridge/internal/host"
	"github.com/radio-control/saltybridge/internal/keybind"
	"github.com/radio-control/saltybridge/internal/locale"
	"github.com/radio-control/saltybridge/internal/metrics"
	"github.com/radio-control/saltybridge/internal/radio"
	"github.com/radio-control/saltybridge/internal/telemetry"
	"github.com/radio-control/saltybridge/internal/tracing"
	"github.com/radio-control/saltybridge/internal/voice"
)

// Version is the bridge release.
const Version = "1.0.0"

var _ bridge.Metrics = (*metrics.Metrics)(nil)
var _ bridge.Auditor = (*audit.Logger)(nil)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("SaltyChat bridge failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	logger.Info("Starting SaltyChat bridge", "version", Version)

	// Step 1: Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info("Configuration loaded", "resource", cfg.ResourceName, "locale", cfg.Locale)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Step 2: Initialize tracing
	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}

	// Step 3: Initialize audit logger
	auditLogger, err := audit.NewLogger(cfg.Audit.Dir, audit.Options{
		MaxSizeMB:  cfg.Audit.MaxSizeMB,
		MaxBackups: cfg.Audit.MaxBackups,
		MaxAgeDays: cfg.Audit.MaxAgeDays,
		Compress:   cfg.Audit.Compress,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize audit logger: %w", err)
	}
	logger.Info("Audit logger initialized", "path", auditLogger.FilePath())

	// Step 4: Initialize metrics
	m := metrics.New()

	// Step 5: Initialize radio manager and client module
	radioManager := radio.NewManager(cfg.Voice.MaxRadioChannels)
	client := voice.NewClient(cfg.Voice.DefaultRange(), logger)

	// Step 6: Initialize event hub and host runtime
	var b *bridge.Bridge
	hub := telemetry.NewHub(telemetry.Options{
		BufferSize:        cfg.Events.BufferSize,
		HeartbeatInterval: cfg.Events.HeartbeatInterval,
		Snapshot: func() map[string]any {
			snapshot := map[string]any{"radio": radioManager.Snapshot()}
			if b != nil {
				if state, ok := b.PluginState(); ok {
					snapshot["pluginState"] = state
				}
				snapshot["radioEnabled"] = b.RadioEnabled()
			}
			return snapshot
		},
	})
	hostRuntime := host.NewRuntime(cfg.ExportTag, hub, logger)

	// Step 7: Load labels
	catalog, err := locale.LoadEmbedded()
	if err != nil {
		return fmt.Errorf("failed to load locales: %w", err)
	}
	labels := catalog.Localizer(cfg.Locale)
	logger.Info("Locale selected", "requested", cfg.Locale, "locale", labels.Locale())

	// Step 8: Wire the SaltyChat bridge
	ports := api.Ports{
		Client:    client,
		Host:      hostRuntime,
		Radio:     radioManager,
		Telemetry: hub,
		Metrics:   m,
	}
	if cfg.Bridge.Enabled {
		b, err = bridge.New(bridge.Options{
			ResourceName: cfg.ResourceName,
			ExportTag:    cfg.ExportTag,
			KeyBinds: keybind.Keys{
				PrimaryRadio:   cfg.Bridge.KeyBinds.PrimaryRadio,
				SecondaryRadio: cfg.Bridge.KeyBinds.SecondaryRadio,
			},
			ReadinessInterval: cfg.Bridge.ReadinessInterval,
		}, bridge.Deps{
			Host:    hostRuntime,
			Radio:   radioManager,
			Client:  client,
			Labels:  labels,
			Metrics: m,
			Audit:   auditLogger,
			Logger:  logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create bridge: %w", err)
		}
		client.SetListener(b)
		b.Start(ctx)
		ports.Bridge = b
	} else {
		logger.Warn("SaltyChat bridge disabled by configuration")
	}

	// Step 9: Run the startup script
	if cfg.ScriptPath != "" {
		if err := exports.RunScript(ctx, hostRuntime.Exports(), cfg.ScriptPath); err != nil {
			logger.Error("Startup script failed", "path", cfg.ScriptPath, "error", err)
		} else {
			logger.Info("Startup script finished", "path", cfg.ScriptPath)
		}
	}

	// Step 10: Start HTTP server
	var middleware *auth.Middleware
	if cfg.HTTP.AuthSecret != "" {
		verifier, err := auth.NewVerifier(cfg.HTTP.AuthSecret)
		if err != nil {
			return fmt.Errorf("failed to create token verifier: %w", err)
		}
		middleware = auth.NewMiddleware(verifier)
	} else {
		logger.Warn("HTTP authentication disabled")
	}

	server := api.NewServer(ports, middleware, api.Timeouts{
		Read:  cfg.HTTP.ReadTimeout,
		Write: cfg.HTTP.WriteTimeout,
		Idle:  cfg.HTTP.IdleTimeout,
	}, logger)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(cfg.HTTP.Addr); err != nil {
			serverErr <- err
		}
	}()
	logger.Info("SaltyChat bridge started",
		"addr", cfg.HTTP.Addr,
		"health", "/api/v1/health/ready",
		"api", "/api/v1")

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-serverErr:
		logger.Error("HTTP server failed", "error", runErr)
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hostRuntime.StopResource(cfg.ResourceName)
	if b != nil {
		b.Stop()
		logger.Info("SaltyChat bridge stopped")
	}

	hub.Stop()
	logger.Info("Event hub stopped")

	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("Error stopping HTTP server", "error", err)
	} else {
		logger.Info("HTTP server stopped gracefully")
	}

	if err := auditLogger.Close(); err != nil {
		logger.Error("Error closing audit logger", "error", err)
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("Error shutting down tracing", "error", err)
	}

	logger.Info("SaltyChat bridge shutdown complete")
	return runErr
}

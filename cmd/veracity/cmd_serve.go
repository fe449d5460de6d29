// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/veracityai/veracity/pkg/telemetry"
	"github.com/veracityai/veracity/services/report"
)

var serveAddr string

// serveCmd runs the compliance report HTTP service.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the compliance report HTTP service",
	Long: `Serves stats and compliance reports over HTTP. The service replays the
audit log on each request so reports always reflect the latest entries.

Routes:
  GET /v1/compliance/health
  GET /v1/compliance/stats
  GET /v1/compliance/report
  GET /v1/compliance/report.txt
  GET /metrics`,
	RunE: runServeCommand,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"Bind address, overrides listen_addr from the config file")
	rootCmd.AddCommand(serveCmd)
}

func runServeCommand(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetryShutdown, err := telemetry.Init(ctx, telemetry.DefaultConfig())
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetryShutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown", "error", err.Error())
		}
	}()

	service, err := report.NewService(report.ServiceConfig{
		AuditLogPath: config.AuditLogPath,
		Preset:       config.Preset,
		System:       config.System,
	}, logger)
	if err != nil {
		return err
	}

	addr := config.ListenAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           report.NewRouter(report.NewHandlers(service)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("compliance service listening", "addr", addr, "preset", config.Preset)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

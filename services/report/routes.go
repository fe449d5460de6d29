// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package report

import (
	"github.com/gin-gonic/gin"

	"github.com/veracityai/veracity/pkg/telemetry"
)

// RegisterRoutes registers the compliance endpoints with the router group.
//
// Endpoints:
//
//	GET /v1/compliance/health     - Liveness check
//	GET /v1/compliance/stats      - Raw audit aggregate
//	GET /v1/compliance/report     - Compliance report (JSON)
//	GET /v1/compliance/report.txt - Compliance report (plain text)
//
// Example:
//
//	service, _ := report.NewService(config, logger)
//	v1 := router.Group("/v1")
//	report.RegisterRoutes(v1, report.NewHandlers(service))
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	comp := rg.Group("/compliance")
	{
		comp.GET("/health", handlers.HandleHealth)
		comp.GET("/stats", handlers.HandleStats)
		comp.GET("/report", handlers.HandleReport)
		comp.GET("/report.txt", handlers.HandleReportText)
	}
}

// NewRouter builds the service router with the /metrics endpoint attached
// when the Prometheus exporter is configured.
func NewRouter(handlers *Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/v1")
	RegisterRoutes(v1, handlers)

	if mh := telemetry.MetricsHandler(); mh != nil {
		router.GET("/metrics", gin.WrapH(mh))
	}

	return router
}

// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package report

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers binds the report service to HTTP endpoints.
type Handlers struct {
	service *Service
}

// NewHandlers creates handlers over the given service.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleHealth reports liveness.
//
// GET /v1/compliance/health
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleStats returns the raw audit aggregate.
//
// GET /v1/compliance/stats
func (h *Handlers) HandleStats(c *gin.Context) {
	stats, err := h.service.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// HandleReport returns the compliance report as JSON.
//
// GET /v1/compliance/report
func (h *Handlers) HandleReport(c *gin.Context) {
	report, err := h.service.BuildReport()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// HandleReportText returns the human-readable report.
//
// GET /v1/compliance/report.txt
func (h *Handlers) HandleReportText(c *gin.Context) {
	report, err := h.service.BuildReport()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.String(http.StatusOK, report.Text())
}

/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"chainguard.dev/depreview/review"
	"github.com/chainguard-dev/clog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	analysisCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "depreview_analyses_total",
		Help: "Pull request analyses by outcome.",
	}, []string{"outcome"})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "depreview_analysis_duration_seconds",
		Help:    "End to end analysis latency.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
)

// Analyzer is the slice of review.Analyzer the handler needs.
type Analyzer interface {
	Analyze(ctx context.Context, res *review.Resource) (*review.Analysis, error)
}

// Handler serves analysis requests.
type Handler struct {
	analyzer Analyzer
}

// NewHandler wraps an analyzer.
func NewHandler(analyzer Analyzer) *Handler {
	return &Handler{analyzer: analyzer}
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// AnalyzePR handles GET /api/analyze-pr?prUrl=... by running the full
// analysis and returning it, including per-step status, as JSON.
func (h *Handler) AnalyzePR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := clog.FromContext(ctx)

	prURL := r.URL.Query().Get("prUrl")
	if prURL == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing prUrl query parameter"})
		return
	}

	res, err := review.ParseURL(prURL)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	start := time.Now()
	analysis, err := h.analyzer.Analyze(ctx, res)
	analysisDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		log.Errorf("Analysis of %s failed: %v", res, err)
		analysisCount.WithLabelValues("error").Inc()
		status := http.StatusUnprocessableEntity
		body := map[string]any{"error": err.Error()}
		if analysis != nil {
			body["steps"] = analysis.Steps
		}
		writeJSON(w, status, body)
		return
	}

	analysisCount.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, analysis)
}

// Healthz reports liveness.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

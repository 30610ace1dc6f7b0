// Package handlers implements the HTTP surface over the translation pipeline.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"querybridge/internal/report"
	"querybridge/internal/service"
	"querybridge/internal/translator"
	"querybridge/pkg/logging"
)

// Pipeline is the service surface the handlers depend on.
type Pipeline interface {
	ProcessQuery(ctx context.Context, text, sourceLang, targetLang string) *service.QueryResult
	Statistics(ctx context.Context) service.Statistics
	Report(windowHours int) *report.Report
	HealthCheck(ctx context.Context) translator.Health
	SupportedLanguages() map[string]string
}

// QueryHandler holds dependencies for the /v1 endpoints.
type QueryHandler struct {
	pipeline Pipeline
}

func NewQueryHandler(pipeline Pipeline) *QueryHandler {
	return &QueryHandler{pipeline: pipeline}
}

type translateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Translate handles POST /v1/translate. Pipeline failures come back in the
// result payload; the status code reflects the failure kind.
func (h *QueryHandler) Translate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.L(ctx)
	start := time.Now()

	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid request", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
		return
	}

	result := h.pipeline.ProcessQuery(ctx, req.Text, req.SourceLang, req.TargetLang)

	logger.Info("translate_request",
		zap.Bool("success", result.Success),
		zap.Bool("from_cache", result.FromCache),
		zap.String("source_lang", result.SourceLang),
		zap.String("query_type", string(result.QueryType)),
		zap.Duration("total_latency_ms", time.Since(start)),
	)

	writeJSON(w, statusFor(result.Result), result)
}

// Stats handles GET /v1/stats.
func (h *QueryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.pipeline.Statistics(r.Context()))
}

// Report handles GET /v1/report?hours=24&format=json|text.
func (h *QueryHandler) Report(w http.ResponseWriter, r *http.Request) {
	hours := 24
	if raw := r.URL.Query().Get("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "hours must be a positive integer"})
			return
		}
		hours = parsed
	}

	rep := h.pipeline.Report(hours)

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(report.ExportText(rep)))
		return
	}

	if rep == nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "No evaluations found in the specified time range",
		})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// Languages handles GET /v1/languages.
func (h *QueryHandler) Languages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"languages": h.pipeline.SupportedLanguages(),
	})
}

// Ready handles GET /readyz with a live canary translation.
func (h *QueryHandler) Ready(w http.ResponseWriter, r *http.Request) {
	health := h.pipeline.HealthCheck(r.Context())

	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

func statusFor(result *translator.Result) int {
	if result.Success {
		return http.StatusOK
	}
	if result.Error == nil {
		return http.StatusInternalServerError
	}
	switch result.Error.Kind {
	case translator.KindValidation:
		return http.StatusBadRequest
	case translator.KindExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

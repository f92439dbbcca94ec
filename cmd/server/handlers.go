package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/baditaflorin/l"
	"github.com/valyala/fasthttp"

	"github.com/baditaflorin/go_sign_similarity/pkg/similarity"
)

// ScoreRequest is the body of /score.
type ScoreRequest struct {
	Hypothesis string `json:"hypothesis"`
	Reference  string `json:"reference"`
}

// ScoreAllRequest is the body of /score_all.
type ScoreAllRequest struct {
	Hypotheses []string `json:"hypotheses"`
	References []string `json:"references"`
}

// ScoreMaxRequest is the body of /score_max.
type ScoreMaxRequest struct {
	Hypothesis string   `json:"hypothesis"`
	References []string `json:"references"`
}

// CorpusRequest is the body of /corpus_score. Each reference list holds one
// reference per hypothesis.
type CorpusRequest struct {
	Hypotheses []string   `json:"hypotheses"`
	References [][]string `json:"references"`
}

// SelfRequest is the body of /score_self.
type SelfRequest struct {
	Items []string `json:"items"`
}

// ScoreResponse answers /score.
type ScoreResponse struct {
	Metric          string                 `json:"metric"`
	Score           float64                `json:"score"`
	Passed          bool                   `json:"passed"`
	Threshold       float64                `json:"threshold"`
	HypothesisSigns int                    `json:"hypothesis_signs"`
	ReferenceSigns  int                    `json:"reference_signs"`
	ProcessingTime  string                 `json:"processing_time,omitempty"`
	Details         map[string]interface{} `json:"details,omitempty"`
}

// MatrixResponse answers /score_all and /score_self.
type MatrixResponse struct {
	Metric string      `json:"metric"`
	Scores [][]float64 `json:"scores"`
}

// ValueResponse answers /score_max and /corpus_score.
type ValueResponse struct {
	Metric string  `json:"metric"`
	Score  float64 `json:"score"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	metric  *similarity.SignSimilarity
	logger  l.Logger
	timeout time.Duration
}

func newHandlers(metric *similarity.SignSimilarity, logger l.Logger, timeout time.Duration) *handlers {
	return &handlers{metric: metric, logger: logger, timeout: timeout}
}

// requestHandler is the main fasthttp request handler
func (h *handlers) requestHandler(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()

	ctx.Response.Header.Set("Content-Type", "application/json")

	switch string(ctx.Path()) {
	case "/health":
		h.handleHealthCheck(ctx)
	case "/score":
		h.handleScore(ctx)
	case "/score_all":
		h.handleScoreAll(ctx)
	case "/score_max":
		h.handleScoreMax(ctx)
	case "/corpus_score":
		h.handleCorpusScore(ctx)
	case "/score_self":
		h.handleScoreSelf(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		h.writeJSONError(ctx, "Not found")
	}

	h.logger.Info("Request processed",
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"duration", time.Since(startTime),
	)
}

// handleHealthCheck responds to health check requests
func (h *handlers) handleHealthCheck(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, map[string]interface{}{
		"status": "ok",
		"metric": h.metric.Name(),
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *handlers) handleScore(ctx *fasthttp.RequestCtx) {
	var req ScoreRequest
	if !h.decode(ctx, &req) {
		return
	}

	c, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	start := time.Now()
	result := h.metric.Compute(c, req.Hypothesis, req.Reference)

	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, ScoreResponse{
		Metric:          result.Name,
		Score:           result.Score,
		Passed:          result.Passed,
		Threshold:       result.Threshold,
		HypothesisSigns: result.HypothesisSigns,
		ReferenceSigns:  result.ReferenceSigns,
		ProcessingTime:  time.Since(start).String(),
		Details:         result.Details,
	})
}

func (h *handlers) handleScoreAll(ctx *fasthttp.RequestCtx) {
	var req ScoreAllRequest
	if !h.decode(ctx, &req) {
		return
	}

	c, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	scores, err := h.metric.ScoreAll(c, req.Hypotheses, req.References)
	if err != nil {
		h.writeScoringError(ctx, err)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, MatrixResponse{Metric: h.metric.Name(), Scores: scores})
}

func (h *handlers) handleScoreMax(ctx *fasthttp.RequestCtx) {
	var req ScoreMaxRequest
	if !h.decode(ctx, &req) {
		return
	}

	c, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	score, err := h.metric.ScoreMax(c, req.Hypothesis, req.References)
	if err != nil {
		h.writeScoringError(ctx, err)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, ValueResponse{Metric: h.metric.Name(), Score: score})
}

func (h *handlers) handleCorpusScore(ctx *fasthttp.RequestCtx) {
	var req CorpusRequest
	if !h.decode(ctx, &req) {
		return
	}

	c, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	score, err := h.metric.CorpusScore(c, req.Hypotheses, req.References)
	if err != nil {
		h.writeScoringError(ctx, err)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, ValueResponse{Metric: h.metric.Name(), Score: score})
}

func (h *handlers) handleScoreSelf(ctx *fasthttp.RequestCtx) {
	var req SelfRequest
	if !h.decode(ctx, &req) {
		return
	}

	c, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	scores, err := h.metric.ScoreSelf(c, req.Items)
	if err != nil {
		h.writeScoringError(ctx, err)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, MatrixResponse{Metric: h.metric.Name(), Scores: scores})
}

// decode accepts POST requests only and parses the JSON body into v.
func (h *handlers) decode(ctx *fasthttp.RequestCtx, v interface{}) bool {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		h.writeJSONError(ctx, "Method not allowed")
		return false
	}
	if err := json.Unmarshal(ctx.PostBody(), v); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		h.writeJSONError(ctx, "Invalid request: "+err.Error())
		return false
	}
	return true
}

// writeScoringError maps input shape errors to 400 and everything else to 500.
func (h *handlers) writeScoringError(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, similarity.ErrReferenceLength), errors.Is(err, similarity.ErrNoReferences):
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
	case errors.Is(err, context.DeadlineExceeded):
		ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
	default:
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		h.logger.Error("Scoring failed", "error", err)
	}
	h.writeJSONError(ctx, err.Error())
}

// writeJSONResponse writes a JSON response to the context
func (h *handlers) writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		h.logger.Error("Error marshaling JSON response", "error", err)
		h.writeJSONError(ctx, "Internal server error")
		return
	}

	ctx.SetBody(response)
}

// writeJSONError writes a JSON error response to the context
func (h *handlers) writeJSONError(ctx *fasthttp.RequestCtx, message string) {
	response, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		h.logger.Error("Error marshaling JSON error response", "error", err)
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}

	ctx.SetBody(response)
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"resolution-diagnostic/internal/common/database"
	"resolution-diagnostic/internal/common/errors"
	"resolution-diagnostic/internal/common/metrics"
	"resolution-diagnostic/internal/common/validation"
	"resolution-diagnostic/internal/diagnostic"
	"resolution-diagnostic/internal/dispatch"

	"github.com/gin-gonic/gin"
)

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"cache":   h.cache != nil,
	})
}

// ==========================
// Evaluate
// ==========================

func (h *handlers) evaluate(c *gin.Context) {
	ctx := c.Request.Context()

	in, stdErr := h.decodeInput(c)
	if stdErr != nil {
		h.reject(c, stdErr)
		return
	}

	canonical, _ := json.Marshal(in)
	key := database.EvaluationKey(canonical)
	if body, ok := h.cachedEvaluation(ctx, key); ok {
		c.Header("X-Cache", "HIT")
		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
		return
	}

	res, stdErr := h.run(ctx, in)
	if stdErr != nil {
		h.reject(c, stdErr)
		return
	}

	body, err := json.Marshal(res)
	if err != nil {
		h.reject(c, errors.AsStandardError(err))
		return
	}
	h.storeEvaluation(ctx, key, body)

	c.Header("X-Cache", "MISS")
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// decodeInput checks the body against the questionnaire schema before
// decoding it, so type errors are reported by field.
func (h *handlers) decodeInput(c *gin.Context) (diagnostic.Input, *errors.StandardError) {
	var in diagnostic.Input

	raw, err := c.GetRawData()
	if err != nil {
		return in, errors.NewInputParsingError(err)
	}

	result, err := h.inputSchema.ValidateJSON(raw)
	if err != nil {
		return in, errors.NewInputParsingError(err)
	}
	if !result.Valid {
		first := result.Errors[0]
		return in, errors.NewInvalidInputError(first.Field, first.Message)
	}

	if err := json.Unmarshal(raw, &in); err != nil {
		return in, errors.NewInputParsingError(err)
	}
	return in, nil
}

// run evaluates the input and records the outcome.
func (h *handlers) run(ctx context.Context, in diagnostic.Input) (*diagnostic.Result, *errors.StandardError) {
	_, span := h.obs.StartSpan(ctx, "diagnostic.evaluate")
	defer span.End()

	res, err := diagnostic.Evaluate(in)
	if err != nil {
		span.RecordError(err)
		ve, ok := diagnostic.AsValidationError(err)
		if !ok {
			return nil, errors.AsStandardError(err)
		}
		return nil, errors.NewDiagnosticInputError(ve.Field, ve.Value, ve.Reason, ve.Allowed)
	}

	metrics.DiagnosticEvaluations.WithLabelValues(string(res.State.Key), string(res.ResolvedTier)).Inc()
	h.obs.RecordEvaluation(ctx, string(res.State.Key), string(res.ResolvedTier), res.LeakRatio)
	return res, nil
}

func (h *handlers) cachedEvaluation(ctx context.Context, key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	body, ok, err := h.cache.CachedEvaluation(ctx, key)
	if err != nil {
		h.logger.WithError(errors.NewCacheUnavailableError(err)).Warn("evaluation cache read failed", nil)
		metrics.DiagnosticCacheLookups.WithLabelValues("error").Inc()
		return nil, false
	}
	if ok {
		metrics.DiagnosticCacheLookups.WithLabelValues("hit").Inc()
		return body, true
	}
	metrics.DiagnosticCacheLookups.WithLabelValues("miss").Inc()
	return nil, false
}

func (h *handlers) storeEvaluation(ctx context.Context, key string, body []byte) {
	if h.cache == nil {
		return
	}
	if err := h.cache.StoreEvaluation(ctx, key, body); err != nil {
		h.logger.WithError(errors.NewCacheUnavailableError(err)).Warn("evaluation cache write failed", nil)
	}
}

// ==========================
// Live insight
// ==========================

type insightRequest struct {
	Step      diagnostic.Step         `json:"step"`
	Partial   diagnostic.PartialInput `json:"partial"`
	SessionID string                  `json:"sessionId"`
}

type insightResponse struct {
	Insight       string  `json:"insight"`
	BurnIntensity float64 `json:"burnIntensity"`
	Sequence      int64   `json:"sequence"`
}

func (h *handlers) insight(c *gin.Context) {
	var req insightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.reject(c, errors.NewInputParsingError(err))
		return
	}

	var seq int64
	if h.cache != nil {
		n, err := h.cache.NextInsightSequence(c.Request.Context(), req.SessionID)
		if err != nil {
			h.logger.WithError(err).Warn("insight sequence unavailable", map[string]interface{}{"sessionId": req.SessionID})
		} else {
			seq = n
		}
	}

	c.JSON(http.StatusOK, insightResponse{
		Insight:       diagnostic.LiveInsight(req.Step, req.Partial, uint64(seq)),
		BurnIntensity: diagnostic.BurnIntensity(req.Partial),
		Sequence:      seq,
	})
}

// ==========================
// Report
// ==========================

func (h *handlers) report(c *gin.Context) {
	ctx := c.Request.Context()

	in, stdErr := h.decodeInput(c)
	if stdErr != nil {
		h.reject(c, stdErr)
		return
	}
	res, stdErr := h.run(ctx, in)
	if stdErr != nil {
		h.reject(c, stdErr)
		return
	}

	format := c.DefaultQuery("format", "pdf")
	start := time.Now()
	defer func() {
		metrics.ReportRenderDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())
	}()

	if format == "md" {
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(h.renderer.Markdown(res)))
		return
	}

	pdf, err := h.renderer.Render(ctx, res)
	if err != nil {
		h.reject(c, errors.AsStandardError(err))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="diagnostic-record.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ==========================
// Dispatch
// ==========================

// dispatch always acknowledges with {received:true} unless verdict or tier is
// missing or a field has the wrong type. Unparseable bodies and sink failures
// are logged and acknowledged.
func (h *handlers) dispatch(c *gin.Context) {
	received := gin.H{"received": true}

	raw, err := c.GetRawData()
	if err != nil {
		h.logger.WithError(err).Error("dispatch body unreadable", nil)
		c.JSON(http.StatusOK, received)
		return
	}

	result, err := h.dispatchSchema.ValidateJSON(raw)
	if err != nil {
		h.logger.WithError(err).Error("dispatch body is not JSON", nil)
		c.JSON(http.StatusOK, received)
		return
	}
	if !result.Valid {
		h.rejectFields(c, result)
		return
	}

	var req dispatch.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		h.logger.WithError(err).Error("dispatch body could not be decoded", nil)
		c.JSON(http.StatusOK, received)
		return
	}

	if _, err := h.dispatcher.Dispatch(c.Request.Context(), req); err != nil {
		stdErr := errors.AsStandardError(err)
		if stdErr.Code == errors.ErrCodeMissingDispatchData {
			c.JSON(http.StatusBadRequest, gin.H{"error": stdErr.Message})
			return
		}
		h.logger.WithError(err).Error("dispatch failed", nil)
	}
	c.JSON(http.StatusOK, received)
}

func (h *handlers) rejectFields(c *gin.Context, result *validation.ValidationResult) {
	for _, f := range result.Fields() {
		metrics.DiagnosticRejections.WithLabelValues(f).Inc()
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":  "Invalid fields: " + strings.Join(result.Fields(), ", "),
		"fields": result.GetErrorMessages(),
	})
}

// ==========================
// Errors
// ==========================

func (h *handlers) reject(c *gin.Context, stdErr *errors.StandardError) {
	status := statusFor(stdErr.Code)
	if f := stdErr.Field(); f != "" {
		metrics.DiagnosticRejections.WithLabelValues(f).Inc()
	}
	if status >= http.StatusInternalServerError {
		h.logger.WithError(stdErr).Error("request failed", map[string]interface{}{"details": stdErr.Details})
	}

	body := gin.H{"error": stdErr.Message, "code": stdErr.Code}
	if f := stdErr.Field(); f != "" {
		body["field"] = f
	}
	if stdErr.Details != "" {
		body["details"] = stdErr.Details
	}
	c.AbortWithStatusJSON(status, body)
}

func statusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeInvalidEnumValue, errors.ErrCodeInvalidInput:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInputParsingFailed, errors.ErrCodeMissingDispatchData:
		return http.StatusBadRequest
	case errors.ErrCodeReportTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

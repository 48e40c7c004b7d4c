package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const meterName = "formkit/http"

type httpMetrics struct {
	requests       metric.Int64Counter
	duration       metric.Float64Histogram
	internalErrors metric.Int64Counter
	rejected       metric.Int64Counter
}

// newHTTPMetrics logs and skips any instrument the meter fails to create.
func newHTTPMetrics(logger *slog.Logger) httpMetrics {
	meter := otel.Meter(meterName)
	var m httpMetrics
	var err error

	m.requests, err = meter.Int64Counter(
		"formkit.http.server.request.count",
		metric.WithDescription("Total de requests HTTP processadas pela API"),
	)
	if err != nil {
		logger.Error("create request counter", "error", err)
	}
	m.duration, err = meter.Float64Histogram(
		"formkit.http.server.request.duration",
		metric.WithUnit("ms"),
		metric.WithDescription("Duracao de requests HTTP em milissegundos"),
	)
	if err != nil {
		logger.Error("create request duration histogram", "error", err)
	}
	m.internalErrors, err = meter.Int64Counter(
		"formkit.http.server.internal_error.count",
		metric.WithDescription("Total de erros internos HTTP (5xx)"),
	)
	if err != nil {
		logger.Error("create internal error counter", "error", err)
	}
	m.rejected, err = meter.Int64Counter(
		"formkit.http.server.rejected.count",
		metric.WithDescription("Total de requests rejeitadas por validacao ou limite de taxa"),
	)
	if err != nil {
		logger.Error("create rejected counter", "error", err)
	}
	return m
}

func traceLogAttrs(ctx context.Context, attrs []any) []any {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return attrs
	}
	return append(attrs,
		"trace_id", spanContext.TraceID().String(),
		"span_id", spanContext.SpanID().String(),
	)
}

func lastErrorType(c *gin.Context) string {
	if len(c.Errors) == 0 {
		return "unknown"
	}
	return classifyErrorType(c.Errors.Last().Err)
}

func requestObservabilityMiddleware(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	metrics := newHTTPMetrics(logger)

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()
		durationMs := float64(time.Since(start)) / float64(time.Millisecond)

		attrs := []attribute.KeyValue{
			attribute.String("http.request.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.response.status_code", status),
		}
		if metrics.requests != nil {
			metrics.requests.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
		if metrics.duration != nil {
			metrics.duration.Record(ctx, durationMs, metric.WithAttributes(attrs...))
		}
		switch {
		case status >= http.StatusInternalServerError && metrics.internalErrors != nil:
			internalAttrs := append(attrs, attribute.String("error.type", lastErrorType(c)))
			metrics.internalErrors.Add(ctx, 1, metric.WithAttributes(internalAttrs...))
		case (status == http.StatusBadRequest || status == http.StatusTooManyRequests) && metrics.rejected != nil:
			metrics.rejected.Add(ctx, 1, metric.WithAttributes(attrs...))
		}

		logAttrs := traceLogAttrs(ctx, []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", route,
			"status", status,
			"duration_ms", durationMs,
			"request_id", c.Writer.Header().Get(headerRequestID),
			"client_ip", c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			lastErr := c.Errors.Last().Err
			logAttrs = append(logAttrs, "error", lastErr.Error(), "error_type", classifyErrorType(lastErr))
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.ErrorContext(ctx, "http request", logAttrs...)
		case status >= http.StatusBadRequest:
			logger.WarnContext(ctx, "http request", logAttrs...)
		default:
			logger.InfoContext(ctx, "http request", logAttrs...)
		}
	}
}

func markSpanError(ctx context.Context, err error, status string, errorType string) {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, status)
	span.SetAttributes(
		attribute.Bool("error", true),
		attribute.String("error.type", errorType),
	)
}

func panicRecoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			err := fmt.Errorf("panic recovered: %v", recovered)
			_ = c.Error(err)
			markSpanError(c.Request.Context(), err, "panic recovered", "panic")

			logger.ErrorContext(c.Request.Context(), "panic recovered", traceLogAttrs(c.Request.Context(), []any{
				"panic", recovered,
				"stack_trace", string(debug.Stack()),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"request_id", requestid.Get(c),
				"client_ip", c.ClientIP(),
			})...)

			writeProblemResponse(c, http.StatusInternalServerError, problemTypeInternal, "Internal Server Error", "internal server error")
		}()

		c.Next()
	}
}

func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawAuthorization := strings.TrimSpace(c.GetHeader("Authorization"))
		if rawAuthorization == "" {
			h.writeProblem(c, http.StatusUnauthorized, problemTypeUnauthorized, "Unauthorized", "missing bearer token")
			return
		}

		prefix := "Bearer "
		if !strings.HasPrefix(rawAuthorization, prefix) {
			h.writeProblem(c, http.StatusUnauthorized, problemTypeUnauthorized, "Unauthorized", "invalid authorization header")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(rawAuthorization, prefix))
		if err := h.service.ValidateAccessToken(token); err != nil {
			h.writeProblem(c, http.StatusUnauthorized, problemTypeUnauthorized, "Unauthorized", "invalid token")
			return
		}

		c.Next()
	}
}

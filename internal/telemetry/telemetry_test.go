package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestMultiHandlerFansOutToEnabledHandlers(t *testing.T) {
	var info, warn bytes.Buffer
	logger := slog.New(multiHandler{handlers: []slog.Handler{
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}})

	logger.With("component", "forms").WithGroup("field").Info("evaluated", "name", "cpf")
	logger.Warn("rejected")

	assert.Contains(t, info.String(), `"component":"forms"`)
	assert.Contains(t, info.String(), `"field":{"name":"cpf"}`)
	assert.Contains(t, info.String(), "rejected")
	assert.NotContains(t, warn.String(), "evaluated")
	assert.Contains(t, warn.String(), "rejected")
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestSetupDisabledWritesJSONToOutput(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var out bytes.Buffer
	tel, err := Setup(context.Background(), Config{ServiceName: "formkit-test", Output: &out})
	require.NoError(t, err)
	assert.Nil(t, tel.MetricsHandler)

	tel.Logger.Info("ready", "port", "8080")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, "ready", entry["msg"])
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetupPrometheusServesMeterInstruments(t *testing.T) {
	previousLogger := slog.Default()
	previousMeter := otel.GetMeterProvider()
	t.Cleanup(func() {
		slog.SetDefault(previousLogger)
		otel.SetMeterProvider(previousMeter)
	})

	tel, err := Setup(context.Background(), Config{ServiceName: "formkit-test", Prometheus: true, Output: io.Discard})
	require.NoError(t, err)
	require.NotNil(t, tel.MetricsHandler)
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })

	counter, err := otel.Meter("formkit/test").Int64Counter("formkit_test_evaluations")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	w := httptest.NewRecorder()
	tel.MetricsHandler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "formkit_test_evaluations"), w.Body.String())
}

package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/helpdesk-service/internal/config"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/requests", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/requests", "GET", 200, 30*time.Millisecond)
	m.RecordRequest("/auth/login", "POST", 401, time.Millisecond)
	m.RecordError("/auth/login", "POST", apperrors.CodeUnauthorized)

	snap := m.Snapshot()
	require.Len(t, snap.Requests, 2)
	assert.Equal(t, RouteStat{Path: "/auth/login", Method: "POST", Result: "401", Count: 1, AvgMS: 1}, snap.Requests[0])
	assert.Equal(t, int64(2), snap.Requests[1].Count)
	assert.InDelta(t, 20.0, snap.Requests[1].AvgMS, 0.001)
	require.Len(t, snap.Errors, 1)
	assert.Equal(t, apperrors.CodeUnauthorized, snap.Errors[0].Result)
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, 0)
	m.RecordError("/", "GET", "X")
	assert.Empty(t, m.Snapshot().Requests)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	metrics := NewMetrics()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	app.Use(RequestLogger(zap.New(core), metrics))
	app.Get("/requests/:id", func(c *fiber.Ctx) error {
		if c.Params("id") == "404" {
			return apperrors.NewNotFound("request", nil)
		}
		return c.SendString(RequestID(c))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/requests/1", nil))
	require.NoError(t, err)
	generated := resp.Header.Get(RequestIDHeader)
	assert.Len(t, generated, 36)

	req := httptest.NewRequest(http.MethodGet, "/requests/404", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	warned := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warned, 1)
	assert.Equal(t, "abc-123", warned[0].ContextMap()["request_id"])

	snap := metrics.Snapshot()
	require.Len(t, snap.Requests, 2)
	assert.Equal(t, "/requests/:id", snap.Requests[0].Path)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "debug"}, false)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger(config.LoggerConfig{Level: "nonsense"}, true)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

package telemetry

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexanderramin/taskhelper/internal/answer"
	"github.com/alexanderramin/taskhelper/internal/llm"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("answer resolved", "source", "keyword_rule")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "answer resolved", line["msg"])
	assert.Equal(t, "keyword_rule", line["source"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "debug", "").Debug("stage", "kind", "timeout")
	assert.Contains(t, buf.String(), "kind=timeout")
}

func TestMetrics_OnResolved(t *testing.T) {
	m := NewMetrics()

	m.OnResolved(answer.ResolutionEvent{
		Source: answer.SourceKeywordRule,
		Attempts: []answer.StageAttempt{
			{Stage: answer.StageTryPrimary, Kind: answer.KindTimeout},
			{Stage: answer.StageTryBackup, Kind: answer.KindNotConfigured},
		},
	})
	m.OnResolved(answer.ResolutionEvent{Abandoned: true})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.answers.WithLabelValues("keyword_rule")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.answers.WithLabelValues(sourceAbandoned)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stageFailures.WithLabelValues("try_primary", "timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stageFailures.WithLabelValues("try_backup", "not_configured")))
}

func TestMetrics_OnCallComplete(t *testing.T) {
	m := NewMetrics()

	m.OnCallComplete(llm.CallEvent{Endpoint: "primary", LatencyMs: 120, Success: true})
	m.OnCallComplete(llm.CallEvent{Endpoint: "primary", LatencyMs: 10000, ErrorCode: "TIMEOUT"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.modelCalls.WithLabelValues("primary", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.modelCalls.WithLabelValues("primary", "timeout")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.modelLatency))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.OnResolved(answer.ResolutionEvent{Source: answer.SourcePrimaryModel})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `taskhelper_answers_total{source="primary_model"} 1`)
}

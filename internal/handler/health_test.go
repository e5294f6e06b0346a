package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"minimarket/internal/infra"
	"minimarket/internal/worker"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func serveHealth(t *testing.T, d HealthDeps) (int, map[string]any) {
	t.Helper()
	r := gin.New()
	r.GET("/health", Health(d))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealth_Disabled(t *testing.T) {
	code, body := serveHealth(t, HealthDeps{})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "disabled", body["db"])
	assert.Equal(t, "disabled", body["redis"])
}

func TestHealth_RedisAndDLQ(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	worker.SendToDLQ(context.Background(), rdb, worker.QueueEmail, "send_email", []byte(`{}`), "smtp rechazado", 3)

	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	code, body := serveHealth(t, HealthDeps{Redis: rdb, Mailer: cb})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "connected", body["redis"])
	assert.Equal(t, "closed", body["smtp_circuit"])
	dlq, ok := body["dlq"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), dlq[worker.QueueEmail])
	assert.Equal(t, float64(0), dlq[worker.QueueReceipts])
}

func TestHealth_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	code, body := serveHealth(t, HealthDeps{Redis: rdb})
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "error", body["redis"])
	assert.Equal(t, false, body["ok"])
}

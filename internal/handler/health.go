package handler

import (
	"context"
	"net/http"
	"time"

	"minimarket/internal/infra"
	"minimarket/internal/state"
	"minimarket/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthDeps lists what the health check probes. Nil members are reported
// as "disabled" (demo mode runs without a database or Redis).
type HealthDeps struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Mailer *infra.CircuitBreaker
	State  *state.Container
}

// Health returns a JSON health check response.
// Checks DB and Redis connectivity; never exposes credentials or internals.
func Health(d HealthDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "disabled"
		if d.DB != nil {
			dbStatus = "connected"
			sqlDB, err := d.DB.DB()
			if err != nil || sqlDB.PingContext(ctx) != nil {
				dbStatus = "error"
			}
		}

		redisStatus := "disabled"
		body := gin.H{}
		if d.Redis != nil {
			redisStatus = "connected"
			if d.Redis.Ping(ctx).Err() != nil {
				redisStatus = "error"
			} else {
				dlq := gin.H{}
				for _, q := range []string{worker.QueueReceipts, worker.QueueEmail} {
					if n, err := worker.DLQLength(ctx, d.Redis, q); err == nil {
						dlq[q] = n
					}
				}
				body["dlq"] = dlq
			}
		}

		if d.Mailer != nil {
			body["smtp_circuit"] = d.Mailer.State().String()
		}
		if d.State != nil {
			snap := d.State.Snapshot()
			body["products"] = len(snap.Products)
			body["session_active"] = snap.CurrentCashSession != nil
		}

		status := http.StatusOK
		if dbStatus == "error" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}
		body["ok"] = status == http.StatusOK
		body["db"] = dbStatus
		body["redis"] = redisStatus
		c.JSON(status, body)
	}
}

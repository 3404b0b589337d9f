package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	infraredis "github.com/PabloValdazoDEV/NotApp-Servidor/internal/infra/redis"
)

const readinessTimeout = 2 * time.Second

// HealthResponse reports liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports per-dependency readiness.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthHandler exposes liveness and readiness endpoints.
type HealthHandler struct {
	pool      *pgxpool.Pool
	redis     *infraredis.Client
	startedAt time.Time
}

// NewHealthHandler builds a new health handler instance.
func NewHealthHandler(pool *pgxpool.Pool, redis *infraredis.Client) *HealthHandler {
	return &HealthHandler{
		pool:      pool,
		redis:     redis,
		startedAt: time.Now().UTC(),
	}
}

// RegisterRoutes binds the health routes at the engine root.
func (h *HealthHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.Status)
	r.GET("/readyz", h.Readiness)
}

// Status reports that the process is up.
func (h *HealthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		StartedAt: h.startedAt,
	})
}

// Readiness pings the database and Redis with a bounded timeout.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	checks := map[string]string{
		"postgres": "ok",
		"redis":    "ok",
	}
	ready := true

	if h.pool == nil {
		checks["postgres"] = "not configured"
		ready = false
	} else if err := h.pool.Ping(ctx); err != nil {
		checks["postgres"] = err.Error()
		ready = false
	}

	if h.redis == nil {
		checks["redis"] = "not configured"
		ready = false
	} else if err := h.redis.HealthCheck(ctx); err != nil {
		checks["redis"] = err.Error()
		ready = false
	}

	status := http.StatusOK
	resp := ReadinessResponse{Status: "ready", Checks: checks}
	if !ready {
		status = http.StatusServiceUnavailable
		resp.Status = "degraded"
	}

	c.JSON(status, resp)
}

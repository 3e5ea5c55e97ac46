package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/ucao-academy/web-academy-api/internal/service"
	"github.com/ucao-academy/web-academy-api/pkg/response"
)

// HealthHandler serves liveness, readiness and metrics snapshot endpoints.
type HealthHandler struct {
	db      *sqlx.DB
	redis   *redis.Client
	metrics *service.MetricsService
	version string
}

func NewHealthHandler(db *sqlx.DB, redisClient *redis.Client, metrics *service.MetricsService, version string) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient, metrics: metrics, version: version}
}

// Health godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"status": "ok", "version": h.version}, nil)
}

// Ready godoc
// @Summary Readiness probe
// @Description Checks database and cache connectivity. The cache is optional and reported, not required.
// @Tags Health
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()

	checks := gin.H{}
	healthy := true

	if err := h.db.PingContext(ctx); err != nil {
		checks["database"] = "down"
		healthy = false
	} else {
		checks["database"] = "up"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			checks["cache"] = "down"
		} else {
			checks["cache"] = "up"
		}
	} else {
		checks["cache"] = "disabled"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	response.JSON(c, status, checks, nil)
}

// MetricsSnapshot godoc
// @Summary System metrics snapshot
// @Description Aggregated request and cache metrics for the admin dashboard.
// @Tags Health
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/metrics [get]
func (h *HealthHandler) MetricsSnapshot(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil)
}

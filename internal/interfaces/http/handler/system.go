package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/moviecatalog/backend/internal/infrastructure/logger"
)

// healthCheckTimeout bounds each dependency ping
const healthCheckTimeout = 2 * time.Second

// Dependency states reported by the health check
const (
	StateUp       = "up"
	StateDown     = "down"
	StateDisabled = "disabled"
)

// PingFunc checks one dependency
type PingFunc func(ctx context.Context) error

// HealthHandler reports whether the service and its dependencies respond
type HealthHandler struct {
	BaseHandler
	database PingFunc
	redis    PingFunc // nil when Redis is not configured
}

// NewHealthHandler creates a new health handler. redis may be nil.
func NewHealthHandler(database, redis PingFunc) *HealthHandler {
	return &HealthHandler{database: database, redis: redis}
}

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// Health answers 200 while the database is reachable. Redis only degrades
// the status since every Redis consumer has an in-memory fallback.
//
// @ID           getHealth
// @Summary      Health check
// @Description  Report whether the database and Redis respond. 503 when the database is down.
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:   "ok",
		Database: h.checkDependency(c, "database", h.database),
		Redis:    StateDisabled,
	}
	if h.redis != nil {
		resp.Redis = h.checkDependency(c, "redis", h.redis)
	}

	status := http.StatusOK
	switch {
	case resp.Database != StateUp:
		resp.Status = "unavailable"
		status = http.StatusServiceUnavailable
	case resp.Redis == StateDown:
		resp.Status = "degraded"
	}
	c.JSON(status, resp)
}

func (h *HealthHandler) checkDependency(c *gin.Context, name string, ping PingFunc) string {
	if ping == nil {
		return StateDown
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := ping(ctx); err != nil {
		logger.L(c.Request.Context()).Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
		return StateDown
	}
	return StateUp
}

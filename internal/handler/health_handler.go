package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Checker pings one dependency.
type Checker interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	checks  map[string]Checker
	info    gin.H
	version func() (string, error)
}

// NewHealthHandler takes the named dependencies to ping, static service info,
// and an optional database version lookup.
func NewHealthHandler(checks map[string]Checker, info gin.H, version func() (string, error)) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		info:    info,
		version: version,
	}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	services := gin.H{}
	status := "healthy"
	for name, check := range h.checks {
		if err := check.HealthCheck(ctx); err != nil {
			services[name] = "unhealthy"
			status = "degraded"
			continue
		}
		services[name] = "healthy"
	}

	statusCode := http.StatusOK
	if status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"status":   status,
		"services": services,
	})
}

func (h *HealthHandler) Info(c *gin.Context) {
	info := gin.H{}
	for k, v := range h.info {
		info[k] = v
	}

	if h.version != nil {
		if version, err := h.version(); err == nil {
			info["database_version"] = version
		}
	}

	c.JSON(http.StatusOK, info)
}

package handler

import (
	"net/http"
	"runtime"
	"time"

	"workforce/config"
	"workforce/internal/pkg/response"
	"workforce/internal/service"

	"github.com/gin-gonic/gin"
)

// RuntimeInfo /version 回傳的版本與環境快照
type RuntimeInfo struct {
	Env       string        `json:"env"`
	Name      string        `json:"name"`
	Version   string        `json:"version"`
	GoVersion string        `json:"go_version"`
	StartAt   time.Time     `json:"start_at"`
	Uptime    time.Duration `json:"uptime"`
}

type HealthHandler struct {
	healthStatus *service.HealthService
	config       *config.Configuration
	startAt      time.Time
}

func NewHealthHandler(status *service.HealthService, config *config.Configuration) *HealthHandler {
	return &HealthHandler{healthStatus: status, config: config, startAt: time.Now()}
}

// HealthCheck 服務與 MongoDB / Redis 的連線狀態
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	deps, healthy := h.healthStatus.CheckDependencies(c.Request.Context())
	status := http.StatusOK
	description := "service is alive"
	if !healthy {
		status = http.StatusServiceUnavailable
		description = "dependency unavailable"
	}
	c.JSON(status, response.Response{
		Code:        0,
		Data:        deps,
		Message:     "success",
		Description: description,
	})
	c.Abort()
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	if h.healthStatus.IsLive() {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
		return
	}
	c.Status(http.StatusServiceUnavailable)
}

func (h *HealthHandler) Readiness(c *gin.Context) {
	if !h.healthStatus.IsReady() {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	if deps, ok := h.healthStatus.CheckDependencies(c.Request.Context()); !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "dependencies": deps})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *HealthHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, RuntimeInfo{
		Env:       h.config.App.Env,
		Name:      h.config.App.Name,
		Version:   h.config.App.Version,
		GoVersion: runtime.Version(),
		StartAt:   h.startAt,
		Uptime:    time.Since(h.startAt),
	})
}

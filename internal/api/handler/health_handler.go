package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-service/pkg/metrics"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// HealthStatus 健康检查响应
type HealthStatus struct {
	Status    string `json:"status"`   // ok, degraded, error
	Database  string `json:"database"` // connected, disconnected, error
	Timestamp string `json:"timestamp"`
}

// Health 健康检查
// @Summary 健康检查（数据库存活探测）
// @Tags 系统
// @Produce json
// @Success 200 {object} HealthStatus
// @Failure 503 {object} HealthStatus
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.probeTimeout)
	defer cancel()

	connected, err := probe(ctx, h.db)
	ts := h.now().UTC().Format(timestampLayout)

	switch {
	case err != nil:
		metrics.SetDatabaseUp(false)
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, HealthStatus{Status: "error", Database: "error", Timestamp: ts})
	case connected:
		metrics.SetDatabaseUp(true)
		c.JSON(http.StatusOK, HealthStatus{Status: "ok", Database: "connected", Timestamp: ts})
	default:
		metrics.SetDatabaseUp(false)
		c.JSON(http.StatusServiceUnavailable, HealthStatus{Status: "degraded", Database: "disconnected", Timestamp: ts})
	}
}

func probe(ctx context.Context, cc ConnectionChecker) (ok bool, err error) {
	if cc == nil {
		return false, fmt.Errorf("health probe: no connection checker")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("health probe panicked: %v", r)
		}
	}()
	return cc.IsConnected(ctx), nil
}

// Index 服务信息
// @Summary 服务信息
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    h.app.Name,
		"version": h.app.Version,
		"endpoints": []string{
			"GET /health",
			"GET /posts",
			"GET /posts/:id",
			"POST /posts",
			"PATCH /posts/:id",
			"DELETE /posts/:id",
			"GET /blogs",
			"GET /blogs/:id",
			"POST /blogs",
		},
	})
}

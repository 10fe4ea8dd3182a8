package controller

import (
	"context"
	"net/http"
	"time"
	"tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	healthCheckTimeout = 2 * time.Second
	serviceVersion     = "1.0.0"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
	Mode  string
}

// NewHealthController redis 为空表示未启用缓存
func NewHealthController(db *gorm.DB, rdb *redis.Client, mode string) *HealthController {
	return &HealthController{DB: db, Redis: rdb, Mode: mode}
}

type HealthResponse struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Environment string            `json:"environment"`
	Version     string            `json:"version"`
	Components  map[string]string `json:"components"`
}

// HealthCheck 数据库不可用返回 503；缓存不可用只标记为 degraded
// @Summary 健康检查
// @Description 检查数据库与缓存状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response{data=HealthResponse}
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthCheckTimeout)
	defer cancel()

	sqlDB, err := c.DB.DB()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if err := sqlDB.PingContext(checkCtx); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database unavailable")
		return
	}

	resp := HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: c.Mode,
		Version:     serviceVersion,
		Components:  map[string]string{"database": "up"},
	}

	if c.Redis != nil {
		if err := c.Redis.Ping(checkCtx).Err(); err != nil {
			resp.Status = "degraded"
			resp.Components["cache"] = "down"
		} else {
			resp.Components["cache"] = "up"
		}
	}

	util.Success(ctx, resp)
}

// Index 列出可用的业务接口
// @Summary 接口列表
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /api [get]
func (c *HealthController) Index(ctx *gin.Context) {
	util.Success(ctx, gin.H{
		"message":            "Tutor API",
		"availableEndpoints": []string{"/api/ask", "/api/upload", "/api/progress", "/api/quiz"},
	})
}

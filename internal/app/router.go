package app

import (
	"tutor_backend/docs"
	"tutor_backend/internal/config"
	"tutor_backend/internal/middleware"
	"tutor_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	router.GET("/api", c.health.Index)
	router.GET("/api/health", c.health.HealthCheck)

	// 2. 需要授权且只能访问本人数据的路由
	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.OwnershipMiddleware())
	{
		api.POST("/ask", c.ask.Ask)
		api.POST("/upload", c.upload.Upload)
		api.POST("/quiz/start", c.quiz.StartQuiz)
		api.POST("/quiz/submit", c.quiz.SubmitQuiz)
		api.GET("/progress/:studentId", c.progress.GetProgress)
	}
}

package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"tutor_backend/internal/config"
	"tutor_backend/internal/controller"
	"tutor_backend/internal/repository"
	"tutor_backend/internal/service"
	"tutor_backend/pkg/configwatcher"
	"tutor_backend/pkg/database"
	"tutor_backend/pkg/logger"
	"tutor_backend/pkg/monitoring"
	"tutor_backend/pkg/security"
	"tutor_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const configDir = "configs"

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	document    *repository.DocumentRepository
	question    *repository.QuestionRepository
	quiz        *repository.QuizRepository
	quizAttempt *repository.QuizAttemptRepository
	progress    *repository.ProgressRepository
	leaderboard *repository.LeaderboardRepository
}

type services struct {
	storage     *service.StorageService
	ai          *service.AIService
	progress    *service.ProgressService
	leaderboard *service.LeaderboardService
	ask         *service.AskService
	upload      *service.UploadService
	quiz        *service.QuizService
}

type controllers struct {
	ask      *controller.AskController
	upload   *controller.UploadController
	quiz     *controller.QuizController
	progress *controller.ProgressController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		document:    repository.NewDocumentRepository(db),
		question:    repository.NewQuestionRepository(db),
		quiz:        repository.NewQuizRepository(db),
		quizAttempt: repository.NewQuizAttemptRepository(db),
		progress:    repository.NewProgressRepository(db),
		leaderboard: repository.NewLeaderboardRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.ai = service.NewAIService(cfg.AI)
	extractor := service.NewExtractor(cfg.Extraction, time.Duration(cfg.AI.TimeoutSeconds)*time.Second)

	s.progress = service.NewProgressService(
		repos.question,
		repos.quizAttempt,
		repos.document,
		repos.quiz,
		repos.progress,
	)

	// 未启用 Redis 时排行榜直接查库
	var cache service.LeaderboardCache
	if rdb != nil {
		cache = repository.NewRedisLeaderboardCache(rdb, cfg.LeaderboardCacheTTL())
	}
	s.leaderboard = service.NewLeaderboardService(repos.leaderboard, cache)

	s.ask = service.NewAskService(repos.document, repos.question, s.ai, s.progress)
	s.upload = service.NewUploadService(repos.document, s.storage, extractor, s.progress, cfg.MaxUploadBytes())
	s.quiz = service.NewQuizService(
		repos.document,
		repos.quiz,
		repos.quizAttempt,
		repos.user,
		s.ai,
		s.progress,
		s.leaderboard,
	)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		ask:      controller.NewAskController(s.ask),
		upload:   controller.NewUploadController(s.upload),
		quiz:     controller.NewQuizController(s.quiz),
		progress: controller.NewProgressController(s.progress, s.leaderboard),
		health:   controller.NewHealthController(db, a.Redis, a.Config.Server.Mode),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimitWindow()).Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	// release 模式下默认不自动迁移
	if cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	if cfg.MigrateOnly {
		return app
	}

	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(context.Background(), &cfg.Redis)
		if err != nil {
			// 缓存不可用不影响主流程
			logger.Log.Error("Failed to initialize redis, leaderboard cache disabled", zap.Error(err))
		} else {
			app.Redis = rdb
		}
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, app.Redis)
	controllers := app.initControllers(services, db)

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetMode(newCfg.Server.Mode)
	})
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		services.ai.UpdateConfig(newCfg.AI)
	})

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/files", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go configwatcher.WatchConfig(watchCtx, configDir, a.applyConfig)

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}

package app

import (
	"carbon_quiz_backend/internal/config"
	"carbon_quiz_backend/internal/controller"
	"carbon_quiz_backend/internal/repository"
	"carbon_quiz_backend/internal/service"
	"carbon_quiz_backend/pkg/configwatcher"
	"carbon_quiz_backend/pkg/logger"
	"carbon_quiz_backend/pkg/monitoring"
	"carbon_quiz_backend/pkg/security"
	"carbon_quiz_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	sessions        *repository.SessionRepository
	configCallbacks []func(*config.Config)
}

type services struct {
	calculation *service.CalculationService
	quiz        *service.QuizService
	converter   *service.ConverterService
	ai          *service.AIService
}

type controllers struct {
	calculation *controller.CalculationController
	quiz        *controller.QuizController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initServices(cfg *config.Config, sessions *repository.SessionRepository) *services {
	return &services{
		calculation: service.NewCalculationService(),
		quiz:        service.NewQuizService(sessions),
		converter:   service.NewConverterService(),
		ai:          service.NewAIService(cfg.AI),
	}
}

func (a *App) initControllers(s *services, sessions *repository.SessionRepository) *controllers {
	return &controllers{
		calculation: controller.NewCalculationController(s.calculation),
		quiz:        controller.NewQuizController(s.quiz, s.calculation, s.converter, s.ai),
		health:      controller.NewHealthController(sessions),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	sessions := repository.NewSessionRepository(cfg.Quiz.SessionTTL)
	sessions.StartSweeper(time.Duration(cfg.Quiz.SweepMinutes) * time.Minute)

	app := &App{
		Config:   cfg,
		sessions: sessions,
	}

	services := app.initServices(cfg, sessions)
	controllers := app.initControllers(services, sessions)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("carbon-quiz", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers)

	// 配置热更新
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.Log.Info("Config reloaded", zap.String("mode", newCfg.Server.Mode))
		app.Config = newCfg
	})
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(raw interface{}) {
		newCfg, ok := raw.(*config.Config)
		if !ok {
			return
		}
		for _, cb := range app.configCallbacks {
			cb(newCfg)
		}
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// 停掉会话清理任务
	if a.sessions != nil {
		a.sessions.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

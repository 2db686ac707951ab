// @title Quizia API
// @version 1.0
// @description Generates quizzes with a language model, grades them and keeps a points leaderboard.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

//go:generate swag init -g main.go -o docs --parseInternal

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quizia/internal/adapter"
	"quizia/internal/adapter/quizgen"
	"quizia/internal/cache"
	"quizia/internal/config"
	"quizia/internal/database"
	"quizia/internal/domain"
	"quizia/internal/handler"
	"quizia/internal/logger"
	"quizia/internal/middleware"
	"quizia/internal/repository"
	"quizia/internal/service"
	"quizia/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)
		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.DB.AutoMigrate {
		applied, err := database.RunMigrations(context.Background(), db)
		if err != nil {
			appLogger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		appLogger.Info("Migrations applied", zap.Int("count", applied))
	}

	// The leaderboard reads straight from Oracle when Redis is unavailable.
	var appCache domain.Cache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Warn("Redis unavailable, leaderboard caching disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
		appCache = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Successfully connected to Redis")
	}

	llm, err := quizgen.NewLLM(context.Background(), cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	generator := quizgen.NewLLMQuestionGenerator(llm, cfg.LLM)
	appLogger.Info("LLM question generator initialized",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model))

	userRepository := repository.NewSQLXUserRepository(db)

	leaderboardService := service.NewLeaderboardService(userRepository, appCache, cfg.Quiz)
	quizService := service.NewQuizService(
		generator,
		domain.NewQuestionSetExtractor(appLogger.Named("extractor")),
		domain.NewQuizGrader(time.Now),
		userRepository,
		leaderboardService,
		cfg,
	)
	authService, err := service.NewAuthService(userRepository, cfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	userService := service.NewUserService(userRepository)

	app := newApp(cfg, routeDeps{
		auth:        authService,
		quiz:        handler.NewQuizHandler(quizService, cfg.Quiz),
		leaderboard: handler.NewLeaderboardHandler(leaderboardService),
		users:       handler.NewUserHandler(userService),
		authHandler: handler.NewAuthHandler(authService),
		validation:  middleware.NewValidationMiddleware(validation.NewValidator(cfg.Quiz)),
		health: func(ctx context.Context) error {
			return db.PingContext(ctx)
		},
	})

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}

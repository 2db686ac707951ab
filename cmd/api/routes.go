package main

import (
	"context"
	"time"

	_ "quizia/cmd/api/docs"
	"quizia/internal/config"
	"quizia/internal/handler"
	"quizia/internal/middleware"
	"quizia/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

type routeDeps struct {
	auth        service.AuthService
	quiz        *handler.QuizHandler
	leaderboard *handler.LeaderboardHandler
	users       *handler.UserHandler
	authHandler *handler.AuthHandler
	validation  *middleware.ValidationMiddleware
	health      func(ctx context.Context) error
}

func newApp(cfg *config.Config, deps routeDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.health != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := deps.health(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	protected := middleware.Protected(deps.auth)
	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", deps.authHandler.Register)
	authGroup.Post("/login", deps.authHandler.Login)
	authGroup.Post("/refresh", deps.authHandler.RefreshToken)
	authGroup.Post("/logout", middleware.OptionalAuth(deps.auth), deps.authHandler.Logout)
	authGroup.Get("/google/login", deps.authHandler.GoogleLogin)
	authGroup.Get("/google/callback", deps.authHandler.GoogleCallback)

	api.Get("/categories", deps.quiz.GetCategories)
	api.Get("/leaderboard", deps.validation.ValidatePagination(), deps.leaderboard.GetLeaderboard)
	api.Post("/extract-questions", protected, deps.quiz.ExtractQuestions)
	api.Post("/grade-quiz", protected, deps.quiz.GradeQuiz)

	userGroup := api.Group("/users", protected)
	userGroup.Get("/me", deps.users.GetMyProfile)
	userGroup.Get("/me/history", deps.validation.ValidatePagination(), deps.users.GetMyAnswerHistory)

	return app
}

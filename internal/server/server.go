package server

import (
	"context"
	"log"

	"notefiber-todo/internal/bootstrap"
	"notefiber-todo/internal/config"
	"notefiber-todo/internal/pkg/serverutils"

	"github.com/fatih/color"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:             1 * 1024 * 1024,
		DisableStartupMessage: true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) Run() error {
	color.New(color.FgGreen, color.Bold).Printf("Server is running on http://localhost:%s\n", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")
	return s.app.ShutdownWithContext(ctx)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")
	jwt := c.JwtMiddleware

	c.AuthController.RegisterRoutes(api, jwt)
	c.AccountController.RegisterRoutes(api, jwt)
	c.NotebookController.RegisterRoutes(api, jwt)
	c.TaskController.RegisterRoutes(api, jwt)
	c.ActivityController.RegisterRoutes(api, jwt)

	c.LiveHandler.RegisterRoutes(api)
}

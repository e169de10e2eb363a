package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"go.uber.org/zap"

	"github.com/station-directory/internal/cache"
	"github.com/station-directory/internal/config"
	"github.com/station-directory/internal/delivery/http/handler"
	"github.com/station-directory/internal/delivery/http/middleware"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger
	cache  *cache.StationCache

	// Handlers
	stationHandler   *handler.StationHandler
	mapHandler       *handler.MapHandler
	selectionHandler *handler.SelectionHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	stationCache *cache.StationCache,
	stationHandler *handler.StationHandler,
	mapHandler *handler.MapHandler,
	selectionHandler *handler.SelectionHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Station Directory",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:              app,
		config:           cfg,
		logger:           logger,
		cache:            stationCache,
		stationHandler:   stationHandler,
		mapHandler:       mapHandler,
		selectionHandler: selectionHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"sync":   s.cache.State(),
			"time":   time.Now(),
		})
	})

	// Всё, кроме health, доступно только аутентифицированным операторам
	api.Use(middleware.Auth(s.config.Auth.JWTSecret))

	// Station routes
	api.Get("/stations", s.stationHandler.List)
	api.Get("/stations/search", s.stationHandler.Search)
	api.Post("/stations/nearby", s.stationHandler.Nearby)
	api.Get("/stations/stream", s.stationHandler.Stream)
	api.Get("/stations/:id", s.stationHandler.GetByID)
	api.Post("/stations", s.stationHandler.Create)
	api.Put("/stations/:id", s.stationHandler.Update)
	api.Delete("/stations/:id", s.stationHandler.Delete)

	// Map surface
	api.Get("/map/view", s.mapHandler.View)

	// Shared selection
	api.Get("/selection", s.selectionHandler.Get)
	api.Put("/selection", s.selectionHandler.Select)
	api.Delete("/selection", s.selectionHandler.Clear)
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// App отдаёт fiber.App для тестов
func (s *Server) App() *fiber.App {
	return s.app
}

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}

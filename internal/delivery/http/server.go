package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/landcover-microservice/internal/config"
	"github.com/landcover-microservice/internal/delivery/http/handler"
	"github.com/landcover-microservice/internal/delivery/http/middleware"
	apperrors "github.com/landcover-microservice/internal/pkg/errors"
	"github.com/landcover-microservice/internal/pkg/utils"
)

// maxUploadBytes - лимит тела запроса для загрузки снимков
const maxUploadBytes = 32 << 20

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	analysisHandler    *handler.AnalysisHandler
	calibrationHandler *handler.CalibrationHandler
	jobHandler         *handler.JobHandler
	explorerHandler    *handler.ExplorerHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	analysisHandler *handler.AnalysisHandler,
	calibrationHandler *handler.CalibrationHandler,
	jobHandler *handler.JobHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Landcover Microservice",
		BodyLimit:    maxUploadBytes,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:                app,
		config:             cfg,
		logger:             logger,
		analysisHandler:    analysisHandler,
		calibrationHandler: calibrationHandler,
		jobHandler:         jobHandler,
	}

	explorer, err := handler.NewExplorerHandler("/api/v1")
	if err != nil {
		logger.Warn("Explorer page disabled", zap.Error(err))
	} else {
		s.explorerHandler = explorer
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App - доступ к fiber.App (для тестов)
func (s *Server) App() *fiber.App {
	return s.app
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	if s.explorerHandler != nil {
		s.app.Get("/explorer", s.explorerHandler.RenderExplorer)
	}

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Analysis routes
	api.Get("/analysis/place/:place/overlay.png", s.analysisHandler.GetOverlay)
	api.Get("/analysis/place/:place", s.analysisHandler.AnalyzePlace)
	api.Post("/analysis/image", s.analysisHandler.AnalyzeImage)
	api.Get("/scale", s.analysisHandler.GetScale)

	// Calibration routes
	api.Post("/calibration/profiles", s.calibrationHandler.CreateProfile)
	api.Get("/calibration/profiles", s.calibrationHandler.ListProfiles)
	api.Get("/calibration/profiles/:id", s.calibrationHandler.GetProfile)

	// Jobs - только при наличии Redis Streams
	if s.jobHandler != nil {
		api.Post("/jobs", s.jobHandler.SubmitJob)
		api.Get("/jobs/:id", s.jobHandler.GetJob)
	}
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

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			appErr := apperrors.New("HTTP_ERROR", fe.Message, fe.Code)
			switch fe.Code {
			case fiber.StatusNotFound:
				appErr.Code = "NOT_FOUND"
			case fiber.StatusRequestEntityTooLarge:
				appErr.Code = "PAYLOAD_TOO_LARGE"
			}
			return c.Status(fe.Code).JSON(utils.ErrorResponse{Error: appErr})
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)

		return utils.SendError(c, err)
	}
}

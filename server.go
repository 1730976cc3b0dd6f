package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"contractlens-backend/internal/analysis"
	"contractlens-backend/internal/config"
	"contractlens-backend/internal/extract"
	"contractlens-backend/internal/llm"
)

const serviceName = "contractlens-backend"

// NewServer wires the services behind an echo instance with all routes
// registered.
func NewServer(cfg *config.Config, completer llm.Completer, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	analyzer := analysis.New(completer,
		analysis.WithLogger(logger.Named("analysis")),
		analysis.WithTypeDetection(cfg.Analysis.DetectType),
		analysis.WithOverrideConfidence(cfg.Analysis.OverrideConfidence),
		analysis.WithCharLimits(cfg.Analysis.FullCharLimit, cfg.Analysis.DemoCharLimit),
	)
	h := NewContractHandler(
		analyzer,
		analysis.NewSimplifier(completer, logger.Named("simplify")),
		extract.NewExtractor(logger.Named("extract")),
		completer,
		cfg.Server.MaxUploadBytes,
		logger,
	)
	ws := NewWebSocketHandler(analyzer, logger.Named("ws"))

	// Routes
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "ContractLens Backend Server is running!")
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": serviceName,
		})
	})

	api := e.Group("/api")
	api.GET("/openai-health", h.ProviderHealth)
	api.GET("/contract-types", h.ContractTypes)
	api.GET("/taxonomy/:type", h.Taxonomy)
	api.POST("/extract-text", h.ExtractText)
	api.POST("/analyze", h.AnalyzeDemo)
	api.POST("/analyze-text", h.AnalyzeText)
	api.POST("/simplify", h.Simplify)
	api.GET("/test-errors", h.TestErrors)

	// WebSocket endpoint with analysis progress
	e.GET("/ws/analyze", ws.HandleWebSocket)

	return e
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				logger.Error("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}

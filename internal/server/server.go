package server

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/alkime/voicepost/internal/config"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// Server represents the HTTP server
type Server struct {
	config   *config.Config
	logger   *slog.Logger
	router   *gin.Engine
	gateways Gateways
}

// New creates a new Server instance
func New(cfg *config.Config, logger *slog.Logger, gateways Gateways) *Server {
	// Set Gin mode based on environment
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	// Configure proxy trust for production (Fly.io)
	if cfg.Env == config.EnvProduction {
		router.TrustedPlatform = gin.PlatformFlyIO
		logger.Debug("Configured trusted platform", "platform", "fly.io")
	}

	server := &Server{
		config:   cfg,
		logger:   logger,
		router:   router,
		gateways: gateways,
	}

	// Setup middleware and routes
	router.Use(gin.Recovery(), requestID(), requestLogger(logger))
	setupSecurityMiddleware(router, cfg, logger)
	server.setupRoutes()

	return server
}

// Router exposes the handler for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts the HTTP server
func Run(s *Server) error {
	s.logger.Info("Server listening", "port", s.config.Port)
	return s.router.Run(":" + s.config.Port)
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	s.router.POST("/transcribe", s.handleTranscribe)
	s.router.POST("/generate", s.handleGenerate)

	// The browser client posts under /api.
	api := s.router.Group("/api")
	{
		api.POST("/transcribe", s.handleTranscribe)
		api.POST("/generate", s.handleGenerate)
	}

	// Serve the web client when it has been built into PublicDir.
	if info, err := os.Stat(s.config.PublicDir); err == nil && info.IsDir() {
		s.router.NoRoute(static.Serve("/", static.LocalFile(s.config.PublicDir, false)))
		s.logger.Debug("Serving static assets", "dir", s.config.PublicDir)
	}
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "voicepost",
	})
}

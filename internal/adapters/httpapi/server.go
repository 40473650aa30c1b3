package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mikey/phishing-relay/internal/core"
	"go.uber.org/zap"
)

// Server is the HTTP ingress for the classification relay.
type Server struct {
	service      *core.RelayService
	logger       *zap.Logger
	port         int
	maxBodyBytes int64
	httpServer   *http.Server
}

// NewServer creates a new HTTP API server
func NewServer(
	service *core.RelayService,
	logger *zap.Logger,
	port int,
	maxBodyBytes int64,
) *Server {
	return &Server{
		service:      service,
		logger:       logger,
		port:         port,
		maxBodyBytes: maxBodyBytes,
	}
}

// routes builds the gin engine with middleware and the relay routes.
func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(s.logger))
	engine.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	engine.Use(limitBody(s.maxBodyBytes))

	engine.GET("/health", s.handleHealth)

	api := engine.Group("/api")
	{
		api.GET("/models-rest", s.handleListModels)
		api.GET("/ping-gen", s.handlePingGen)
		api.POST("/phishing", s.handleClassify)
	}

	return engine
}

// Start starts serving in the background
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.routes(),
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped unexpectedly", zap.Error(err))
		}
	}()

	s.logger.Info("HTTP API listening", zap.Int("port", s.port))
	return nil
}

// Stop gracefully shuts the server down
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

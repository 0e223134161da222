package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/GuilhermeSoares009/supplier-eval-system/internal/api/v1"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/config"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/importer"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/parser"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/store"
)

// Server HTTP server
type Server struct {
	router *gin.Engine
	v1     *v1.Handler
	logger *zap.Logger
	http   *http.Server
}

// NewServer creates the server; st is owned by the caller.
func NewServer(cfg *config.AppConfig, st *store.Store, logger *zap.Logger) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	handler := v1.NewHandler(st, logger, v1.Options{
		Import: importer.Options{
			Locator: parser.NewLocator(cfg.Import.Locator),
			Binary:  binaryPolicy(cfg.Import.StrictBinary),
		},
		MaxUploadBytes:        int64(cfg.Import.MaxUploadMB) << 20,
		ReconcileBeforeExport: cfg.Export.ReconcileBeforeExport,
	})

	s := &Server{
		router: gin.New(),
		v1:     handler,
		logger: logger,
	}
	s.setupRoutes(cfg)
	return s
}

func binaryPolicy(strict bool) parser.BinaryPolicy {
	if strict {
		return parser.BinaryStrict
	}
	return parser.BinaryLenient
}

// setupRoutes middleware and routes
func (s *Server) setupRoutes(cfg *config.AppConfig) {
	s.router.Use(gin.Recovery())
	s.router.Use(requestLogger(s.logger))

	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddExposeHeaders("Content-Disposition", "Content-Length")
	s.router.Use(cors.New(corsConfig))

	// the workbook is already zip compressed
	s.router.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{"/api/exportar", "/api/exportar-avaliacao"})))

	api := s.router.Group("/api")
	{
		s.v1.RegisterRoutes(api)
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "rota não encontrada"})
	})
}

// Handler the root http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until Shutdown is called.
func (s *Server) Run(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("http server listening", zap.String("addr", addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Package api exposes the settlement core over HTTP.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/craftbooks/settlement-backend/internal/api/handlers"
	"github.com/craftbooks/settlement-backend/internal/application/allocation"
	"github.com/craftbooks/settlement-backend/internal/application/registry"
	"github.com/craftbooks/settlement-backend/internal/application/service"
	"github.com/craftbooks/settlement-backend/internal/infrastructure/config"
	"github.com/craftbooks/settlement-backend/internal/infrastructure/storage"
)

// Server is the HTTP API server.
type Server struct {
	config     config.ServerConfig
	router     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger

	repo      storage.Repository
	registry  *registry.Registry
	manager   *allocation.Manager
	reconcile *service.ReconcileService
}

// NewServer creates an API server over the given services.
func NewServer(
	cfg config.ServerConfig,
	repo storage.Repository,
	reg *registry.Registry,
	manager *allocation.Manager,
	reconcile *service.ReconcileService,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		config:    cfg,
		router:    gin.New(),
		logger:    logger,
		repo:      repo,
		registry:  reg,
		manager:   manager,
		reconcile: reconcile,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())

	origins := s.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

// requestLogger records method, path, status and latency per request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String())
	}
}

func (s *Server) setupRoutes() {
	// No /api prefix; load balancers probe this directly.
	s.router.GET("/health", handlers.Health)

	api := s.router.Group("/api")

	orders := handlers.NewOrdersHandler(s.registry)
	api.POST("/orders", orders.Create)
	api.GET("/orders", orders.List)
	api.GET("/orders/:id", orders.Get)
	api.PATCH("/orders/:id/status", orders.UpdateStatus)
	api.PATCH("/orders/:id/received", orders.UpdateReceived)
	api.PATCH("/orders/:id/cost", orders.UpdateCost)
	api.GET("/orders/:id/balance", orders.Balance)
	api.GET("/orders/:id/profit", orders.Profit)

	processing := handlers.NewProcessingHandler(s.registry)
	api.POST("/processing", processing.Create)
	api.GET("/processing", processing.List)
	api.GET("/processing/:id", processing.Get)
	api.PATCH("/processing/:id", processing.Update)
	api.GET("/orders/:id/processing-cost", processing.OrderCost)

	payments := handlers.NewPaymentsHandler(s.manager)
	api.POST("/payments", payments.Record)
	api.GET("/payments/unallocated", payments.ListUnallocated)
	api.POST("/payments/:id/allocations", payments.Allocate)
	api.GET("/payments/:id/allocations", payments.ListAllocations)
	api.GET("/payments/:id/unallocated", payments.Unallocated)
	api.GET("/obligations/:id/payments", payments.ObligationPayments)
	api.GET("/obligations/:id/received", payments.ObligationReceived)
	api.GET("/allocations/suggest", payments.Suggest)

	banks := handlers.NewBanksHandler(s.repo)
	api.POST("/bank-accounts", banks.CreateAccount)
	api.GET("/bank-accounts", banks.ListAccounts)
	api.GET("/bank-accounts/:id", banks.GetAccount)
	api.POST("/bank-records/import", banks.ImportRecords)
	api.GET("/bank-records", banks.ListRecords)

	reconcile := handlers.NewReconcileHandler(s.reconcile)
	api.POST("/reconcile", reconcile.Run)
	api.GET("/reconcile/history", reconcile.History)

	stats := handlers.NewStatsHandler(s.registry)
	api.GET("/stats", stats.Get)
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := s.config.Addr()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the gin engine for testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}

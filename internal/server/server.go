// Package server exposes the application over HTTP with gin.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/furkancam7/lifeplan/internal/auth"
	"github.com/furkancam7/lifeplan/internal/chat"
	"github.com/furkancam7/lifeplan/internal/logging"
	"github.com/furkancam7/lifeplan/internal/report"
	"github.com/furkancam7/lifeplan/internal/store"
)

// Config holds the HTTP server settings.
type Config struct {
	Addr         string
	Debug        bool
	EnableCORS   bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns sane server defaults.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		EnableCORS:   true,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
}

// Deps are the application services the server fronts.
type Deps struct {
	Auth     *auth.Service
	Profiles store.ProfileStore
	Chat     *chat.Controller
	Reports  *report.Service
	Logger   logging.Logger
	Registry *prometheus.Registry
}

// Server is the HTTP front of the application.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	logger     logging.Logger
	metrics    *Metrics
}

// New builds the engine and routes.
func New(cfg Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	metrics := NewMetrics(registry)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger.Named("http")))

	if cfg.EnableCORS {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
		engine.Use(cors.New(corsConfig))
	}

	// Wire report fallbacks into metrics here so the report service stays
	// metrics-free.
	deps.Reports.WithHooks(report.Hooks{
		NarrativeFallback: func(kind string) {
			metrics.NarrativeFallbacks.WithLabelValues(kind).Inc()
		},
	})

	h := NewHandlers(deps.Auth, deps.Profiles, deps.Chat, deps.Reports, metrics, logger)

	engine.GET("/healthz", h.healthz)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := engine.Group("/api/v1")
	{
		api.POST("/auth/signup", h.signup)
		api.POST("/auth/login", h.login)

		authed := api.Group("", requireSession(deps.Auth))
		{
			authed.POST("/auth/logout", h.logout)
			authed.GET("/profile", h.getProfile)
			authed.POST("/chat", h.chatTurn)

			authed.POST("/reports/retirement", h.generateReport(report.KindRetirement))
			authed.POST("/reports/healthcost", h.generateReport(report.KindHealthCost))
			authed.POST("/reports/longevity", h.generateReport(report.KindLongevity))
			authed.GET("/reports", h.listReports)
			authed.GET("/reports/:name", h.downloadReport)
			authed.DELETE("/reports/:name", h.deleteReport)
		}
	}

	return &Server{
		engine: engine,
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger:  logger.Named("server"),
		metrics: metrics,
	}
}

// Engine exposes the router for tests.
func (s *Server) Engine() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return s.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/credence/internal/logger"
	"github.com/ppiankov/credence/internal/metrics"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/session"
	"github.com/ppiankov/credence/internal/worker"
)

type RouterConfig struct {
	Session        *session.Session
	Log            *logger.Logger
	Metrics        *metrics.Metrics
	Limiter        *worker.Limiter // per client; nil disables
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(cfg.Log))
	r.Use(Metrics(cfg.Metrics))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(CORS(cfg.AllowedOrigins))
	}

	h := NewHandler(cfg.Session)

	r.GET("/healthz", h.Health)
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	api.Use(RateLimit(cfg.Limiter))
	{
		api.POST("/analyses", h.Analyze)
		api.GET("/analyses", h.List)
		api.GET("/analyses/:id", h.Get)
		api.GET("/analyses/:id/export", h.ExportByID)
		api.GET("/analyses/:id/report", h.Report)
		api.POST("/analyses/:id/feedback", h.Feedback)
		api.GET("/export", h.ExportCurrent)
		api.GET("/contexts", h.Contexts)
		api.GET("/samples/:type", h.Sample)
	}

	return r
}

type Server struct {
	Engine *gin.Engine
	http   *http.Server
	log    *logger.Logger
}

// NewServer builds the API server for cfg.Server.Addr
func NewServer(cfg *model.Config, rc RouterConfig) *Server {
	if rc.Limiter == nil && cfg.Server.RequestsPerSecond > 0 {
		rc.Limiter = worker.NewLimiter(cfg.Server.RequestsPerSecond, cfg.Server.Burst)
	}
	if rc.AllowedOrigins == nil {
		rc.AllowedOrigins = cfg.Server.AllowedOrigins
	}
	if rc.Log == nil {
		rc.Log = logger.Nop()
	}

	engine := NewRouter(rc)
	return &Server{
		Engine: engine,
		http: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: rc.Log,
	}
}

// Run serves until ctx is done, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

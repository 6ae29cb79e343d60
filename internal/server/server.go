package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/adn360mx/imgopt/internal/config"
	"github.com/adn360mx/imgopt/internal/optimizer"
	"github.com/adn360mx/imgopt/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	log        *zap.Logger
	store      *session.Store

	stopSweep chan struct{}
	stopOnce  sync.Once
}

func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))
	router.SetHTMLTemplate(tmpl)
	router.MaxMultipartMemory = cfg.App.MaxUploadSize

	store := session.NewStore(cfg.App.MaxPixels)
	opt := optimizer.New(optimizer.Config{Logger: log, MaxPixels: cfg.App.MaxPixels})
	h := NewHandler(store, opt, cfg.App.Params(), cfg.App.MaxUploadSize, log)

	router.GET("/", h.Index)
	router.GET("/health", h.Health)
	router.POST("/upload", h.UploadForm)
	router.GET("/s/:id", h.Page)
	router.POST("/s/:id/optimize", h.OptimizeForm)
	router.GET("/s/:id/download", h.Download)

	api := router.Group("/api")
	{
		api.POST("/sessions", h.CreateSession)
		api.GET("/sessions/:id", h.GetSession)
		api.DELETE("/sessions/:id", h.DeleteSession)
		api.POST("/sessions/:id/optimize", h.OptimizeSession)
		api.GET("/sessions/:id/download", h.Download)
	}

	server := &Server{
		httpServer: &http.Server{
			Addr:           cfg.Server.Addr(),
			Handler:        router,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
		cfg:       cfg,
		log:       log,
		store:     store,
		stopSweep: make(chan struct{}),
	}

	log.Debug("Server created",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("profile", cfg.App.Profile))

	return server, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until Shutdown. It returns http.ErrServerClosed after a
// graceful shutdown.
func (s *Server) Run() error {
	go s.sweep(s.cfg.App.SessionTTL)

	s.log.Info("Image optimizer available",
		zap.String("address", s.httpServer.Addr),
		zap.String("url", "http://"+s.httpServer.Addr))

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	s.stopOnce.Do(func() { close(s.stopSweep) })
	return s.httpServer.Shutdown(ctx)
}

// sweep drops idle sessions every ttl/2 (at least once a second).
func (s *Server) sweep(ttl time.Duration) {
	interval := ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			if n := s.store.Sweep(now, ttl); n > 0 {
				s.log.Info("Expired idle sessions", zap.Int("count", n))
			}
		case <-s.stopSweep:
			return
		}
	}
}

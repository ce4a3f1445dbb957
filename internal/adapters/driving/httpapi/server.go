// Package httpapi serves the search API used by the browser widget.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/kotae/internal/core/ports/driving"
	"github.com/custodia-labs/kotae/internal/logger"
)

// Errors returned by NewServer.
var (
	ErrMissingSearchService  = errors.New("httpapi: search service is required")
	ErrMissingDatasetService = errors.New("httpapi: dataset service is required")
)

// Ports aggregates the driving ports used by the API.
type Ports struct {
	Search  driving.SearchService
	Dataset driving.DatasetService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Dataset == nil {
		return ErrMissingDatasetService
	}
	return nil
}

// Config configures the HTTP server.
type Config struct {
	// Addr is the listen address, for example ":8080".
	Addr string

	// CORSOrigins lists allowed browser origins. Empty allows all origins.
	CORSOrigins []string

	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer

	// Debug enables gin debug mode.
	Debug bool
}

// Server is the HTTP API server.
type Server struct {
	ports   *Ports
	handler *Handler
	engine  *gin.Engine
	addr    string
}

// NewServer builds the gin engine and registers all routes.
func NewServer(ports *Ports, cfg Config) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	if !cfg.Debug && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger())
	engine.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	s := &Server{
		ports:   ports,
		handler: NewHandler(ports.Search, ports.Dataset),
		engine:  engine,
		addr:    cfg.Addr,
	}

	engine.GET("/healthz", s.handler.health)
	s.handler.Register(engine.Group("/api/v1"))
	if cfg.Gatherer != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	return s, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	c.MaxAge = 12 * time.Hour
	return c
}

// requestLogger logs each request at debug level.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("HTTP API listening on %s", s.addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

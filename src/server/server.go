package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"stock-forecaster/src/interfaces"
	"stock-forecaster/src/logger"
	"stock-forecaster/src/models"
	"stock-forecaster/src/pipeline"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// HTTPServer
// -----------------------------------------------------------------------------

type HTTPServer struct {
	Config   *models.MConfig
	Logger   *logger.Logger
	Pipeline *pipeline.Pipeline
	Store    interfaces.IRunStore
	engine   *gin.Engine
	http     *http.Server

	// WebSocket clients, owned by the hub goroutine
	clients     map[*Client]struct{}
	broadcast   chan models.MForecastSummary
	register    chan *Client
	unregister  chan *Client
	done        chan struct{}
	stopOnce    sync.Once
	connections atomic.Int64
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

// NewHTTPServer wires routes and starts the websocket hub. The server
// registers itself as the pipeline's exchanger.
func NewHTTPServer(cfg *models.MConfig, pipe *pipeline.Pipeline, store interfaces.IRunStore, log *logger.Logger) *HTTPServer {
	if strings.ToUpper(cfg.LogLevel) != "DEBUG" && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &HTTPServer{
		Config:     cfg,
		Logger:     log,
		Pipeline:   pipe,
		Store:      store,
		engine:     gin.New(),
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan models.MForecastSummary, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}

	s.engine.Use(gin.Recovery(), s.requestLogger(), corsMiddleware())
	s.engine.SetHTMLTemplate(template.Must(template.New("pages").ParseFS(templateFS, "templates/*.html")))
	s.setupRoutes()

	pipe.Exchanger = s
	go s.handleWebsockets()
	return s
}

// -----------------------------------------------------------------------------

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// -----------------------------------------------------------------------------

func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *HTTPServer) setupRoutes() {
	// Pages
	s.engine.GET("/", s.getIndex)
	s.engine.POST("/", s.postIndex)
	s.engine.GET("/dashboard/:ticker", s.getDashboardPage)

	// REST API endpoints
	api := s.engine.Group("/api")
	api.GET("/dashboard_data/:ticker", s.getDashboardData)
	api.GET("/forecast/:ticker", s.getForecast)
	api.GET("/strategies", s.getStrategies)
	api.GET("/runs/:ticker", s.getRuns)
	api.GET("/recent", s.getRecent)
	api.GET("/config", s.getConfig)
	api.GET("/health", s.getHealth)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------

// Handler exposes the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

// Start blocks serving HTTP until Shutdown.
func (s *HTTPServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.Logger.Info("Starting HTTP server on %s", addr)

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

// Shutdown drains HTTP connections and stops the hub.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	s.stopOnce.Do(func() { close(s.done) })
	return err
}

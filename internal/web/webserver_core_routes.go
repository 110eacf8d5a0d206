// Package web provides the HTTP server and web interface for go-eventmap
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/go-while/go-eventmap/internal/config"
	"github.com/go-while/go-eventmap/internal/events"
)

// WebServer represents the web server
type WebServer struct {
	Router  *gin.Engine
	Config  *config.MainConfig
	Events  *events.Loader
	Metrics *Metrics

	mux        sync.Mutex
	httpServer *http.Server
}

// NewServer creates a new web server instance.
// The gin mode is left to the caller (debug, release or test).
func NewServer(cfg *config.MainConfig, loader *events.Loader) *WebServer {
	router := gin.New()

	// Configure Gin to trust reverse proxy headers
	// Set trusted proxies for common reverse proxy setups (nginx, etc.)
	router.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})

	server := &WebServer{
		Router:  router,
		Config:  cfg,
		Events:  loader,
		Metrics: NewMetrics(),
	}

	router.Use(server.ApacheLogFormat(), gin.Recovery())

	// Configure security headers based on SSL setup
	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}

	// Only add SSL-specific headers if SSL is enabled on the application itself
	// (not when running behind a reverse proxy like nginx with SSL)
	if cfg.Web.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}
	router.Use(secure.New(secureConfig))

	// Add reverse proxy middleware for handling X-Forwarded headers
	router.Use(server.ReverseProxyMiddleware())

	if cfg.Web.Metrics {
		router.Use(server.Metrics.Middleware())
	}

	if cfg.Web.Debug {
		if files, err := ListEmbeddedFiles(); err == nil {
			log.Printf("[WEB]: %d embedded asset files", len(files))
		}
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (s *WebServer) setupRoutes() {
	staticFS, err := s.staticFS()
	if err != nil {
		log.Fatalf("[WEB]: static files unavailable: %v", err)
	}
	s.Router.GET("/static/*filepath", StaticHandler(staticFS, s.Config.Web.Debug))

	s.Router.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	s.Router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	if s.Config.Web.Metrics {
		s.Router.GET("/metrics", s.Metrics.Handler())
	}

	s.Router.GET("/", s.homePage)
	s.Router.GET("/events", s.getEvents)
}

// Start starts the web server with SSL support if configured.
// It blocks until the server stops; after Shutdown it returns http.ErrServerClosed.
func (s *WebServer) Start() error {
	if err := s.Config.Validate(); err != nil {
		return err
	}
	addr := s.Config.ListenAddr()

	s.mux.Lock()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mux.Unlock()

	if s.Config.Web.SSL {
		log.Printf("[WEB]: Starting HTTPS server on %s", addr)
		return srv.ListenAndServeTLS(s.Config.Web.CertFile, s.Config.Web.KeyFile)
	}
	log.Printf("[WEB]: Starting HTTP server on %s", addr)
	return srv.ListenAndServe()
}

// Shutdown gracefully stops a started server
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.mux.Lock()
	srv := s.httpServer
	s.mux.Unlock()
	if srv == nil {
		return errors.New("web server not started")
	}
	return srv.Shutdown(ctx)
}

// ReverseProxyMiddleware handles X-Forwarded headers when running behind a reverse proxy.
// Client IPs are left to gin's trusted proxy handling.
func (s *WebServer) ReverseProxyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Handle X-Forwarded-Proto to detect if the original request was HTTPS
		if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" {
			c.Request.URL.Scheme = "https"
		}

		// Handle X-Forwarded-Host to get the original host
		if host := c.GetHeader("X-Forwarded-Host"); host != "" {
			c.Request.Host = host
		}

		c.Next()
	}
}

// ApacheLogFormat writes one access log line per request in combined log format
func (s *WebServer) ApacheLogFormat() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf(`%s - - [%s] "%s %s %s" %d %d "%s" "%s"`+"\n",
			param.ClientIP,
			param.TimeStamp.Format("02/Jan/2006:15:04:05 -0700"),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.BodySize,
			param.Request.Referer(),
			param.Request.UserAgent(),
		)
	})
}

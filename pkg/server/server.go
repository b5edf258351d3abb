package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/denysvitali/ftptube-go/pkg/browser"
	"github.com/denysvitali/ftptube-go/pkg/config"
	"github.com/denysvitali/ftptube-go/pkg/ftpclient"
	"github.com/denysvitali/ftptube-go/pkg/metrics"
	"github.com/denysvitali/ftptube-go/pkg/session"
	"github.com/denysvitali/ftptube-go/pkg/telemetry"
	"github.com/denysvitali/ftptube-go/pkg/youtube"
)

// SessionCookie is the cookie carrying the current FTP session token
const SessionCookie = "ftp_session"

//go:embed templates/*.html
var templatesFS embed.FS

// Server represents the HTTP server
type Server struct {
	config    *config.Config
	logger    *logrus.Logger
	store     session.Store
	browser   *browser.Service
	scraper   *youtube.Scraper
	sweeper   *session.Sweeper
	engine    *gin.Engine
	server    *http.Server
	startTime time.Time

	stopSweeper context.CancelFunc
	sweeperDone sync.WaitGroup
}

// Option overrides a collaborator of the server, mostly for tests
type Option func(*deps)

type deps struct {
	store  session.Store
	dialer ftpclient.Dialer
	source youtube.Source
}

// WithStore sets the session store instead of building one from config
func WithStore(store session.Store) Option {
	return func(d *deps) { d.store = store }
}

// WithDialer sets the FTP dialer
func WithDialer(dialer ftpclient.Dialer) Option {
	return func(d *deps) { d.dialer = dialer }
}

// WithYouTubeSource sets the YouTube source instead of the Data API client
func WithYouTubeSource(source youtube.Source) Option {
	return func(d *deps) { d.source = source }
}

// New creates a new server instance
func New(cfg *config.Config, logger *logrus.Logger, opts ...Option) (*Server, error) {
	var d deps
	for _, opt := range opts {
		opt(&d)
	}

	if d.store == nil {
		store, err := newStore(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create session store: %w", err)
		}
		d.store = store
	}

	if d.dialer == nil {
		d.dialer = ftpclient.NewDialer(ftpclient.Options{
			DialTimeout: cfg.FTP.DialTimeout,
			ExplicitTLS: cfg.FTP.ExplicitTLS,
		}, logger)
	}

	if d.source == nil {
		api, err := youtube.NewDataAPI(context.Background(), youtube.Options{
			APIKey:            cfg.YouTube.APIKey,
			Endpoint:          cfg.YouTube.Endpoint,
			RequestsPerSecond: cfg.YouTube.RequestsPerSecond,
			Burst:             cfg.YouTube.Burst,
		}, logger)
		if err != nil {
			logger.Warnf("YouTube endpoints disabled: %v", err)
		} else {
			d.source = api
		}
	}

	// Set gin mode based on log level
	if logger.Level == logrus.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(ginLogger(logger))

	if cfg.Metrics.Enabled {
		engine.Use(metricsMiddleware())
	}

	// Add OpenTelemetry middleware if telemetry is enabled
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(telemetry.ServiceName))
	}

	engine.Use(corsMiddleware())
	engine.Use(sessionGate())

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	engine.SetHTMLTemplate(tmpl)

	server := &Server{
		config:    cfg,
		logger:    logger,
		store:     d.store,
		browser:   browser.New(d.store, d.dialer, cfg.Session.TTL, logger),
		sweeper:   session.NewSweeper(d.store, cfg.Session.SweepInterval, logger),
		engine:    engine,
		startTime: time.Now(),
	}
	if d.source != nil {
		server.scraper = youtube.NewScraper(d.source, cfg.YouTube.CommentLimit, cfg.YouTube.MaxConcurrency, logger)
	}

	if cfg.Metrics.Enabled {
		metrics.RegisterSessionGauge(func() float64 {
			n, err := d.store.Len(context.Background())
			if err != nil {
				return 0
			}
			return float64(n)
		})
	}

	server.setupRoutes()

	return server, nil
}

func newStore(cfg *config.Config, logger *logrus.Logger) (session.Store, error) {
	switch cfg.Session.Backend {
	case config.BackendRedis:
		store, err := session.DialRedis(context.Background(), cfg.Session.RedisURL, cfg.Session.RedisPrefix)
		if err != nil {
			return nil, err
		}
		logger.Info("Using Redis session store")
		return store, nil
	default:
		logger.Info("Using in-memory session store")
		return session.NewMemoryStore(), nil
	}
}

// Start starts the session sweeper and the HTTP server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopSweeper = cancel
	s.sweeperDone.Add(1)
	go func() {
		defer s.sweeperDone.Done()
		s.sweeper.Run(ctx)
	}()

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Infof("Starting server on port %d", s.config.Server.Port)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server, the sweeper and the store
func (s *Server) Shutdown(ctx context.Context) error {
	if s.stopSweeper != nil {
		s.stopSweeper()
		s.sweeperDone.Wait()
	}

	var err error
	if s.server != nil {
		err = s.server.Shutdown(ctx)
	}

	if closer, ok := s.store.(io.Closer); ok {
		if closeErr := closer.Close(); closeErr != nil {
			s.logger.Warnf("Failed to close session store: %v", closeErr)
		}
	}
	return err
}

// Engine returns the gin engine for testing purposes
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health check
	s.engine.GET("/alive", s.handleAlive)
	s.engine.GET("/server_info", s.handleServerInfo)

	if s.config.Metrics.Enabled {
		s.engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	// FTP browser API
	ftp := s.engine.Group("/api/ftp")
	ftp.POST("/connect", s.handleConnect)
	ftp.POST("/listfiles", s.handleListFiles)
	ftp.POST("/delete", s.handleDelete)
	ftp.POST("/read", s.handleRead)
	ftp.POST("/upload", s.handleUpload)
	ftp.GET("/getfiles/:sessionId", s.handleGetFiles)

	// YouTube comment scraping
	api := s.engine.Group("/api")
	api.GET("/search-comments", s.handleSearchComments)
	api.GET("/deep-scrape", s.handleDeepScrape)
	api.GET("/short-comments", s.handleShortComments)

	// Pages
	s.engine.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/ftp") })
	s.engine.GET("/ftp", s.handleConnectPage)
	s.engine.GET("/files/:sessionId", s.handleFilesPage)
}

// ginLogger creates a gin logger middleware using logrus
func ginLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Process request
		c.Next()

		// Route templates keep session tokens out of the log
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		entry := logger.WithFields(logrus.Fields{
			"status":     statusCode,
			"method":     c.Request.Method,
			"path":       path,
			"ip":         c.ClientIP(),
			"latency":    latency,
			"user_agent": c.Request.UserAgent(),
		})

		if statusCode >= 500 {
			entry.Error("Server error")
		} else if statusCode >= 400 {
			entry.Warn("Client error")
		} else {
			entry.Info("Request completed")
		}
	}
}

// metricsMiddleware records request counts and latencies per route
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// sessionGate redirects every request under /files to the connection form
// when no session cookie is present. It runs on unmatched paths too and does
// not check the token against the store.
func sessionGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isFilesPath(c.Request.URL.Path) {
			c.Next()
			return
		}
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.Redirect(http.StatusTemporaryRedirect, "/ftp")
			c.Abort()
			return
		}
		c.Next()
	}
}

func isFilesPath(path string) bool {
	return path == "/files" || strings.HasPrefix(path, "/files/")
}

// Package httpbridge exposes the command registry over local HTTP so a webview
// front-end can invoke commands with fetch.
package httpbridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wheelkit/wheelhost/hostfuncs"
)

// ShutdownTimeout bounds graceful shutdown in Stop.
const ShutdownTimeout = 10 * time.Second

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// MaxBodySize caps request bodies; 0 means unlimited.
	MaxBodySize int64
	// AllowedOrigins lists the browser origins allowed to call the bridge.
	AllowedOrigins []string
}

// Server is the HTTP transport for a HandlerRegistry.
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	registry   *hostfuncs.HandlerRegistry
	logger     *slog.Logger
}

// NewServer creates a server dispatching to registry. A nil logger uses
// slog.Default().
func NewServer(config ServerConfig, registry *hostfuncs.HandlerRegistry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	s := &Server{
		config:   config,
		router:   router,
		registry: registry,
		logger:   logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		s.logger.Error("HTTP handler panic", "path", c.Request.URL.Path, "panic", recovered)
		resp := hostfuncs.NewPanicError(recovered)
		c.AbortWithStatusJSON(resp.Code, resp)
	}))
	s.router.Use(s.loggingMiddleware())
	s.router.Use(s.originGuard())
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

func (s *Server) setupRoutes() {
	h := newHandlers(s.registry, s.config.MaxBodySize)

	s.router.GET("/health", h.health)
	s.router.GET("/commands", h.listCommands)
	s.router.GET("/commands/:name/schema", h.commandSchema)
	s.router.POST("/invoke/:command", h.invoke)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Address())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.Address(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP bridge", "address", ln.Addr().String(), "commands", len(s.registry.Names()))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP bridge shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP bridge error", "error", err)
		return err
	}
}

// Stop gracefully stops the server.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP bridge shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP bridge stopped")
	return nil
}

// Router returns the underlying gin router (for testing).
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

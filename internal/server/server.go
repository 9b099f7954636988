package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/username/vacation-calendar/internal/metrics"
	"github.com/username/vacation-calendar/internal/vacation"
)

// Options configure the HTTP listener
type Options struct {
	Address         string
	Mode            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server serves the dashboard page and the JSON API
type Server struct {
	manager    *vacation.Manager
	metrics    *metrics.Recorder
	opts       Options
	engine     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
}

// New builds the router. Call Run to listen.
func New(manager *vacation.Manager, opts Options, recorder *metrics.Recorder, logger *zap.Logger) *Server {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		manager: manager,
		metrics: recorder,
		opts:    opts,
		logger:  logger,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestID())
	engine.Use(accessLog(logger))
	engine.Use(observe(recorder))
	engine.SetHTMLTemplate(template.Must(template.New("dashboard").Funcs(templateFuncs).Parse(dashboardTemplate)))
	s.engine = engine
	s.routes()

	s.httpServer = &http.Server{
		Addr:         opts.Address,
		Handler:      engine,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}

	return s
}

func (s *Server) routes() {
	r := s.engine

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	r.GET("/", s.dashboard)
	r.POST("/bookings", s.submitBooking)
	r.POST("/bookings/:id/delete", s.submitDelete)
	r.GET("/calendar.png", s.calendarPNG)
	r.GET("/calendar.pdf", s.calendarPDF)

	api := r.Group("/api")
	api.GET("/bookings", s.listBookings)
	api.POST("/bookings", s.createBooking)
	api.GET("/bookings/:id", s.getBooking)
	api.PUT("/bookings/:id", s.updateBooking)
	api.DELETE("/bookings/:id", s.deleteBooking)
	api.GET("/calendar", s.getCalendar)
	api.GET("/holidays", s.listHolidays)
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// URL is the address a local browser can open
func (s *Server) URL() string {
	addr := s.opts.Address
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

// Run listens until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("address", s.opts.Address))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err, ok := <-errChan:
		if ok && err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case sig := <-sigChan:
		s.logger.Info("Received signal, shutting down",
			zap.String("signal", sig.String()))
	case <-ctx.Done():
		s.logger.Info("Context cancelled, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// Start runs the server, with a system tray icon when requested and supported
func (s *Server) Start(ctx context.Context, systemTray bool) error {
	if !systemTray {
		s.logger.Info("Running without system tray")
		return s.Run(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.logger.Info("Initializing system tray")
	trayApp, err := NewTrayApp(s.URL(), cancel, s.logger)
	if err != nil {
		s.logger.Warn("Failed to initialize system tray", zap.Error(err))
		// Fall back to non-tray mode
		return s.Run(ctx)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Run(ctx)
		trayApp.Stop()
	}()

	// Run tray (blocks until Quit)
	trayApp.Run()
	cancel()
	return <-errChan
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

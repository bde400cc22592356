// Package web serves the mission control JSON API.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mission-control/internal/config"
	"mission-control/internal/domain"
	"mission-control/internal/metrics"
	"mission-control/internal/services"
	"mission-control/internal/session"
)

// Server provides the HTTP endpoints.
type Server struct {
	echo        *echo.Echo
	credentials services.CredentialService
	missions    services.MissionService
	sessions    *session.Manager
	config      *config.Config
	metrics     *metrics.Metrics
	logger      *zap.Logger
	location    *time.Location
	now         func() time.Time
}

// Deps are the collaborators a Server needs.
type Deps struct {
	Services *services.ServiceContainer
	Sessions *session.Manager
	Config   *config.Config
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// NewServer creates a new HTTP server.
func NewServer(deps Deps) (*Server, error) {
	if deps.Services == nil || deps.Services.Credentials == nil || deps.Services.Missions == nil {
		return nil, fmt.Errorf("credential and mission services are required")
	}
	if deps.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if deps.Config == nil {
		deps.Config = config.NewConfig()
	}
	loc, err := deps.Config.Location()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:        e,
		credentials: deps.Services.Credentials,
		missions:    deps.Services.Missions,
		sessions:    deps.Sessions,
		config:      deps.Config,
		metrics:     deps.Metrics,
		logger:      deps.Logger.Named("http"),
		location:    loc,
		now:         time.Now,
	}
	e.HTTPErrorHandler = s.handleError

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestLogger)
	if s.metrics != nil {
		e.Use(s.metrics.Middleware())
	}
	if origins := deps.Config.AllowedOrigins(); len(origins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     origins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
			AllowCredentials: true,
		}))
	}

	s.registerRoutes()
	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	auth := s.echo.Group("/api/auth")
	auth.GET("/available", s.handleAvailable)
	auth.POST("/register", s.handleRegister)
	auth.POST("/login", s.handleLogin)
	auth.POST("/logout", s.handleLogout)
	auth.GET("/me", s.handleMe)
	auth.POST("/forgot/question", s.handleForgotQuestion)
	auth.POST("/forgot/verify", s.handleForgotVerify)
	auth.POST("/forgot/reset", s.handleForgotReset)

	missions := s.echo.Group("/api/missions", s.requireAuth)
	missions.GET("", s.handleListMissions)
	missions.POST("", s.handleAddMission)
	missions.PATCH("/:id", s.handleSetCompleted)
	missions.DELETE("/:id", s.handleDeleteMission)
}

// ServeHTTP lets the server be mounted or driven by httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on the configured address until Shutdown is called.
func (s *Server) Start() error {
	addr := s.config.ListenAddress()
	s.logger.Info("starting http server", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// requestContext bounds a handler's table calls by the application timeout.
func (s *Server) requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	ctx := c.Request().Context()
	if t := s.config.Application.Timeout; t > 0 {
		return context.WithTimeout(ctx, t)
	}
	return context.WithCancel(ctx)
}

func (s *Server) today() string {
	return s.now().In(s.location).Format(domain.DateLayout)
}

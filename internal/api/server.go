// Package api serves entity collections over REST with echo. It is the
// backend the HTTP gateway talks to during development and tests.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server wraps an echo instance serving the /api routes.
type Server struct {
	e      *echo.Echo
	logger log.Interface
}

// NewServer creates a Server over backend. A nil logger uses log.Log.
func NewServer(backend Backend, logger log.Interface) *Server {
	if logger == nil {
		logger = log.Log
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))

	setupRoutes(e, NewEntityController(backend))

	return &Server{e: e, logger: logger}
}

func setupRoutes(e *echo.Echo, controller *EntityController) {
	g := e.Group("/api")

	g.GET("/:collection", controller.List)
	g.POST("/:collection", controller.Create)
	g.GET("/:collection/:id", controller.Get)
	g.PUT("/:collection/:id", controller.Update)
	g.DELETE("/:collection/:id", controller.Delete)
}

func requestLogger(logger log.Interface) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := logger.WithFields(log.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request failed")
				return nil
			}
			entry.Info("request")
			return nil
		},
	})
}

// Handler returns the HTTP handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.e
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.WithField("addr", addr).Info("api server listening")
	if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

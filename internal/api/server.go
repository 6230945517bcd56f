// Package api exposes the todo store over a JSON REST interface.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"todo-api/internal/service"
)

// Options configures a Server.
type Options struct {
	Todos      *service.TodoService
	Categories *service.CategoryService
	Logger     *slog.Logger
	// Development includes the cause of internal errors in responses.
	Development bool
	Now         func() time.Time
}

// Server aggregates the echo router with the services behind it.
type Server struct {
	echo       *echo.Echo
	todos      *service.TodoService
	categories *service.CategoryService
	log        *slog.Logger
	dev        bool
	now        func() time.Time
}

func New(opts Options) *Server {
	s := &Server{
		echo:       echo.New(),
		todos:      opts.Todos,
		categories: opts.Categories,
		log:        opts.Logger,
		dev:        opts.Development,
		now:        opts.Now,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = s.errorHandler

	s.echo.Pre(middleware.RemoveTrailingSlash())
	s.echo.Use(s.requestLogger())
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORS())

	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/health", s.health)

	todos := s.echo.Group("/api/todos")
	todos.GET("", s.listTodos)
	todos.GET("/grouped", s.groupedTodos)
	todos.GET("/:id", s.getTodo)
	todos.POST("", s.createTodo)
	todos.PUT("/:id", s.updateTodo)
	todos.DELETE("/:id", s.deleteTodo)

	categories := s.echo.Group("/api/categories")
	categories.GET("", s.listCategories)
	categories.GET("/:id", s.getCategory)
	categories.GET("/:id/todos", s.categoryTodos)
	categories.POST("", s.createCategory)
}

// Routes lists the registered endpoints as "METHOD path".
func (s *Server) Routes() []string {
	var out []string
	for _, r := range s.echo.Routes() {
		out = append(out, fmt.Sprintf("%-6s %s", r.Method, r.Path))
	}
	return out
}

// ServeHTTP lets the server be mounted or tested as a plain http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return ctx.Err()
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Timestamp: formatTime(s.now())})
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			s.log.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	})
}

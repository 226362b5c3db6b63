package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/selimozcann/longurl/internal/resolve"
)

// App encapsulates the HTTP API.
type App struct {
	Router   *gin.Engine
	Resolver *resolve.Resolver
	log      *slog.Logger
}

// NewApp wires the routes around the given resolver.
func NewApp(resolver *resolve.Resolver, log *slog.Logger) *App {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	app := &App{Router: router, Resolver: resolver, log: log}
	app.setupRoutes()
	return app
}

func (app *App) setupRoutes() {
	app.Router.GET("/api/v1/health", HealthCheckHandler)

	urlV1 := app.Router.Group("/api/v1/url")
	{
		urlV1.GET("/resolve", app.ResolveHandler)
	}
}

// Start serves the API on addr until ctx is done.
func (app *App) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		app.log.Info("API server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	app.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start).Round(time.Millisecond),
		)
	}
}

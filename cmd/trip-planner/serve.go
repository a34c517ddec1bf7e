package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/manthysbr/tripplanner/pkg/kernel"
)

// ServeCmd starts the HTTP server.
// Usage: trip-planner serve --addr :8080
type ServeCmd struct {
	Addr           string   `short:"a" long:"addr" description:"listen address (overrides config)"`
	AllowedOrigins []string `long:"cors-origin" description:"allowed CORS origin, repeatable" default:"http://localhost:5173"`

	root *Options
}

func (s *ServeCmd) Execute(_ []string) error {
	cfg, err := s.root.loadConfig()
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Addr = s.Addr
	}
	logger := newLogger(os.Stdout, cfg.LogLevel)
	logger.Info("starting trip planner", "config", cfg.Masked())

	application, err := buildApp(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return err
	}

	apiServer, err := kernel.NewServer(logger, application.planner, application.tracer, cfg.HomeCity)
	if err != nil {
		return fmt.Errorf("failed to init api server: %w", err)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: s.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           c.Handler(apiServer.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting api server", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

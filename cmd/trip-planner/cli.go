package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"

	"github.com/manthysbr/tripplanner/internal/adapters/providers"
	"github.com/manthysbr/tripplanner/internal/config"
	"github.com/manthysbr/tripplanner/internal/core/domain"
	"github.com/manthysbr/tripplanner/internal/core/services"
)

// run parses flags and executes the selected command.
func run(args []string) error {
	opts := newOptions()
	parser := flags.NewParser(opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return nil
		}
		// go-flags already printed the message
		return err
	}
	return nil
}

// loadConfig reads the config file and environment, applying the global
// log level flag on top.
func (o *Options) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.Config, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// app holds the wired planning pipeline.
type app struct {
	planner *services.TripPlanner
	tracer  *services.TraceCollector
}

func buildApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	set, err := providers.Build(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build providers from config: %w", err)
	}

	if m, ok := set.LLM.(interface{ Model() string }); ok {
		logger.Info("language model", "model", m.Model(), "mode", cfg.Providers.LLM.Mode)
	}
	for _, p := range set.Flights {
		logger.Info("flight provider", "name", p.Name(), "available", p.Available())
	}
	logger.Info("web search", "available", set.Search.Available())

	tracer := services.NewTraceCollector(logger, cfg.TraceLimit)

	toolRegistry := domain.NewToolRegistry()
	tools := []*domain.Tool{
		services.NewSearchFlightsTool(services.NewFlightSearch(logger, cfg.FlightTimeout(), set.Flights...)),
		services.NewCheckWeatherTool(services.NewWeatherCheck(logger, set.Geocoder, set.Weather)),
		services.NewSearchTravelInfoTool(services.NewTravelInfo(logger, set.Search)),
	}
	for _, tool := range tools {
		if err := toolRegistry.Register(tool); err != nil {
			return nil, fmt.Errorf("failed to register %s tool: %w", tool.Name, err)
		}
	}

	parser := services.NewRequestParser(logger, set.LLM, tracer, cfg.HomeCity)
	agent := services.NewReActAgentService(logger, set.LLM, toolRegistry, tracer)
	refiner := services.NewRefiner(logger, set.LLM, tracer)

	return &app{
		planner: services.NewTripPlanner(logger, parser, agent, refiner, set.Exporter, tracer),
		tracer:  tracer,
	}, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/manthysbr/tripplanner/internal/core/domain"
)

// PlanCmd runs the pipeline once and prints the plan.
// Usage: trip-planner plan --out ./exports "Bali du 15 au 30 decembre, 2 adultes"
type PlanCmd struct {
	OutDir    string `short:"o" long:"out" description:"directory for the PDF export" default:"."`
	ShowDraft bool   `long:"draft" description:"also print the reasoning pass"`

	Args struct {
		Request []string `positional-arg-name:"request" description:"free-text trip description"`
	} `positional-args:"yes"`

	root *Options
	out  io.Writer
}

func (p *PlanCmd) Execute(_ []string) error {
	raw := strings.TrimSpace(strings.Join(p.Args.Request, " "))
	if raw == "" {
		return errors.New("describe the trip, e.g. trip-planner plan \"Bali du 15 au 30 decembre, 2 adultes\"")
	}

	cfg, err := p.root.loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.LogLevel)

	application, err := buildApp(cfg, logger)
	if err != nil {
		return err
	}

	result := application.planner.Plan(context.Background(), raw)
	return p.report(result)
}

func (p *PlanCmd) report(result domain.PlanResult) error {
	out := p.out
	if out == nil {
		out = os.Stdout
	}
	if !result.Success {
		fmt.Fprintf(out, "Error: %s\n%s\n", result.Message, result.Error)
		return errors.New(result.Message)
	}

	t := result.Trip
	fmt.Fprintf(out, "%s -> %s | %s | %s\n\n", t.Origin, t.Destination, t.Dates, t.Travelers)
	if p.ShowDraft {
		fmt.Fprintf(out, "== Reasoning pass ==\n%s\n\n", result.Draft)
	}
	fmt.Fprintf(out, "== Self-corrected plan ==\n%s\n", result.Final)

	if len(result.Document) > 0 {
		path := filepath.Join(p.OutDir, result.FileName)
		if err := os.WriteFile(path, result.Document, 0644); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		fmt.Fprintf(out, "\nPDF written to %s\n", path)
	}
	return nil
}

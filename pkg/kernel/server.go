package kernel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/manthysbr/tripplanner/internal/core/domain"
	"github.com/manthysbr/tripplanner/internal/core/services"
)

// Planner is what the server needs from the planning pipeline.
type Planner interface {
	Plan(ctx context.Context, raw string) domain.PlanResult
	Export(ctx context.Context, trip *domain.TripRequest, plan string) ([]byte, string, error)
}

type Server struct {
	logger    *slog.Logger
	planner   Planner
	tracer    *services.TraceCollector
	validator *requestValidator
	homeCity  string
}

func NewServer(logger *slog.Logger, planner Planner, tracer *services.TraceCollector, homeCity string) (*Server, error) {
	validator, err := newRequestValidator()
	if err != nil {
		return nil, err
	}
	return &Server{
		logger:    logger,
		planner:   planner,
		tracer:    tracer,
		validator: validator,
		homeCity:  homeCity,
	}, nil
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// HTML UI
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /plan", s.handlePlanForm)

	// JSON API, validated against openapi.yaml
	mux.HandleFunc("POST /v1/plans", s.validator.wrap(s.handleCreatePlan))
	mux.HandleFunc("POST /v1/exports/pdf", s.validator.wrap(s.handleExportPDF))
	mux.HandleFunc("GET /v1/traces", s.validator.wrap(s.handleListTraces))
	mux.HandleFunc("GET /v1/traces/{id}", s.validator.wrap(s.handleGetTrace))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, pageData{})
}

// handlePlanForm runs the pipeline for the UI form.
// POST /plan
func (s *Server) handlePlanForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderPage(w, http.StatusBadRequest, pageData{Warning: "Invalid form submission."})
		return
	}
	raw := strings.TrimSpace(r.PostForm.Get("request"))
	if raw == "" {
		s.renderPage(w, http.StatusOK, pageData{Warning: "Please describe your trip before generating the itinerary."})
		return
	}

	result := s.planner.Plan(r.Context(), raw)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	s.renderPage(w, status, newPageData(raw, &result))
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("render page", "error", err)
	}
}

type planRequest struct {
	Request string `json:"request"`
}

// handleCreatePlan runs the whole pipeline.
// POST /v1/plans
func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	result := s.planner.Plan(r.Context(), req.Request)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

type exportRequest struct {
	Trip struct {
		Origin      string             `json:"origin"`
		Destination string             `json:"destination"`
		Dates       string             `json:"dates"`
		Travelers   domain.Travelers   `json:"travelers"`
		Preferences domain.Preferences `json:"preferences"`
	} `json:"trip"`
	Plan string `json:"plan"`
}

// handleExportPDF renders an already produced plan.
// POST /v1/exports/pdf
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	trip, err := domain.NewTripRequest(req.Trip.Origin, req.Trip.Destination, req.Trip.Dates,
		req.Trip.Travelers, req.Trip.Preferences, "", s.homeCity)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, fileName, err := s.planner.Export(r.Context(), trip, req.Plan)
	if err != nil {
		s.logger.Error("export failed", "trip_id", string(trip.ID), "error", err)
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// --- Tracing API ---

// handleListTraces returns recent traces.
// GET /v1/traces?limit=50
func (s *Server) handleListTraces(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = min(n, 500)
		}
	}

	traces := s.tracer.ListTraces(limit)
	if traces == nil {
		traces = []domain.TraceSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"traces": traces,
		"count":  len(traces),
	})
}

// handleGetTrace returns a single trace with all spans.
// GET /v1/traces/{id}
func (s *Server) handleGetTrace(w http.ResponseWriter, r *http.Request) {
	trace, err := s.tracer.GetTrace(domain.TraceID(r.PathValue("id")))
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, trace)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/adapters/repository"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// CreateTask records a new pending task.
	CreateTask(ctx context.Context, t Task) error

	// FailTask marks a task as failed with a reason.
	FailTask(ctx context.Context, id, reason string) error

	// Enqueue pushes a job for async processing. Returns false on backpressure.
	Enqueue(ctx context.Context, j Job) bool

	// Read operations expose task state.
	Get(ctx context.Context, id string) (Task, error)
	Recent(ctx context.Context, limit int) ([]Task, error)
}

// Task mirrors the read shape returned by task queries.
type Task = repository.Task

// Job mirrors the payload type flowing through the queue.
type Job = model.Job

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	evaluationsHandler *EvaluationsHandler
	statusHandler      *StatusHandler
	listHandler        *ListHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, uploadDir string, maxUploadBytes int64, maxListLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		evaluationsHandler: NewEvaluationsHandler(deps, uploadDir, maxUploadBytes),
		statusHandler:      NewStatusHandler(deps),
		listHandler:        NewListHandler(deps, maxListLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/evaluations", MetricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			s.listHandler.HandleListEvaluations(w, r)
			return
		}
		s.evaluationsHandler.HandlePostEvaluation(w, r)
	}, "evaluations"))
	mux.HandleFunc("/evaluations/", MetricsMiddleware(s.statusHandler.HandleGetStatus, "evaluation_status"))
}

// ackResponse mirrors the schema for POST /evaluations.
type ackResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/logger"
)

// Pinger reports whether the store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Sweeper lists and triggers registered sweeps
type Sweeper interface {
	Names() []string
	Trigger(ctx context.Context, name string) (domain.SweepReport, error)
}

// HealthResponse represents the response for health endpoints
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SweepListResponse lists the registered sweep names
type SweepListResponse struct {
	Sweeps []string `json:"sweeps"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.FromContext(r.Context()).Error(LogMsgEncodeFailed, "error", err)
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondJSON(w, r, status, ErrorResponse{Error: message})
}

// HandleHealthz provides a basic liveness check
// @Summary Liveness
// @Description Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, r, http.StatusOK, HealthResponse{Status: StatusOK})
	}
}

// HandleReadyz reports ready only while the store answers a ping
// @Summary Readiness
// @Description Ready only while the store answers a ping
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse "Store unreachable"
// @Router /readyz [get]
func HandleReadyz(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), ReadinessTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			logger.FromContext(r.Context()).Error(LogMsgReadinessFailed, "error", err)
			respondJSON(w, r, http.StatusServiceUnavailable, HealthResponse{
				Status:  StatusUnavailable,
				Message: "store connection failed",
			})
			return
		}
		respondJSON(w, r, http.StatusOK, HealthResponse{Status: StatusOK})
	}
}

// HandleListSweeps returns the registered sweep names
// @Summary List sweeps
// @Description Names of the sweeps registered with the scheduler
// @Tags sweeps
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} SweepListResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /admin/sweeps [get]
func HandleListSweeps(sweeps Sweeper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, r, http.StatusOK, SweepListResponse{Sweeps: sweeps.Names()})
	}
}

// HandleTriggerSweep runs the named sweep once and returns its report
// @Summary Trigger a sweep
// @Description Runs the named sweep once outside its schedule and returns the run report
// @Tags sweeps
// @Produce json
// @Security ApiKeyAuth
// @Param name path string true "Sweep name"
// @Success 200 {object} domain.SweepReport
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Unknown sweep"
// @Failure 500 {object} ErrorResponse "Sweep failed; the body carries the partial report"
// @Failure 503 {object} ErrorResponse "Scheduler is stopped"
// @Router /admin/sweeps/{name} [post]
func HandleTriggerSweep(sweeps Sweeper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		report, err := sweeps.Trigger(r.Context(), name)
		switch {
		case errors.Is(err, domain.ErrUnknownSweep):
			respondError(w, r, http.StatusNotFound, ErrMsgUnknownSweep)
			return
		case errors.Is(err, domain.ErrSchedulerStopped):
			respondError(w, r, http.StatusServiceUnavailable, ErrMsgSchedulerDown)
			return
		case err != nil:
			// The report still carries the unit counts of a partially failed run
			logger.FromContext(r.Context()).Warn(LogMsgSweepTriggered, "sweep", name, "error", err)
			respondJSON(w, r, http.StatusInternalServerError, struct {
				ErrorResponse
				Report domain.SweepReport `json:"report"`
			}{ErrorResponse{Error: ErrMsgSweepFailed}, report})
			return
		}
		logger.FromContext(r.Context()).Info(LogMsgSweepTriggered, "sweep", name, "applied", report.Applied)
		respondJSON(w, r, http.StatusOK, report)
	}
}

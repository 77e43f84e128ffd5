package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
	healthStatusDegraded     = "degraded"
)

// HealthChecker serves the liveness and readiness probes of the watch
// process.
type HealthChecker struct {
	ready     atomic.Bool
	state     *RunState // may be nil
	startTime time.Time
}

// NewHealthChecker creates a HealthChecker that reports on state. It starts
// out ready.
func NewHealthChecker(state *RunState) *HealthChecker {
	h := &HealthChecker{state: state, startTime: time.Now()}
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state of the server.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// HealthResponse represents the JSON response for health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse adds uptime and the inbox run history.
type DetailedHealthResponse struct {
	Status string     `json:"status"`
	Uptime string     `json:"uptime"`
	Runs   *RunStatus `json:"runs,omitempty"`
}

// RegisterHealthEndpoints registers health check endpoints on the given mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}

// LivenessHandler serves /healthz. It only fails if the process cannot
// answer at all.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler serves /readyz.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		status, checks := h.evaluate()
		code := http.StatusOK
		if status != healthStatusOK {
			status = healthStatusNotReady
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, HealthResponse{Status: status, Checks: checks})
	})
}

// DetailedHealthHandler serves /healthz/detailed. A last run in which every
// email failed is reported as degraded but still answers 200.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := DetailedHealthResponse{
			Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
		}
		status, _ := h.evaluate()
		if h.state != nil {
			st := h.state.Status()
			resp.Runs = &st
			if status == healthStatusOK && st.Last != nil && st.Last.Failed > 0 && st.Last.Processed == 0 {
				status = healthStatusDegraded
			}
		}
		resp.Status = status

		code := http.StatusOK
		if status == healthStatusNotReady || status == healthStatusShuttingDown {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, resp)
	})
}

func (h *HealthChecker) evaluate() (string, map[string]string) {
	checks := map[string]string{"ready": healthStatusOK, "shutdown": healthStatusOK}
	status := healthStatusOK

	if h.state != nil && h.state.IsShutdown() {
		checks["shutdown"] = healthStatusShuttingDown
		status = healthStatusShuttingDown
	}
	if !h.ready.Load() {
		checks["ready"] = healthStatusNotReady
		status = healthStatusNotReady
	}
	return status, checks
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

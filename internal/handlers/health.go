package handlers

import (
	"context"
	"net/http"
	"os"
	"time"
)

const version = "1.0.0"

// Check represents the status of a health check.
type Check struct {
	Status  string `json:"status"`            // "pass" or "fail"
	Latency string `json:"latency,omitempty"` // e.g., "2ms"
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string           `json:"status"` // "healthy" or "degraded"
	Version   string           `json:"version"`
	Instance  string           `json:"instance,omitempty"`
	Checks    map[string]Check `json:"checks"`
	Timestamp string           `json:"timestamp"`
}

// Health handles the health check endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]Check)
	allHealthy := true

	if h.store != nil {
		start := time.Now()
		if err := h.store.Ping(ctx); err != nil {
			checks[h.store.Backend()] = Check{Status: "fail", Message: "connection failed"}
			allHealthy = false
		} else {
			checks[h.store.Backend()] = Check{Status: "pass", Latency: time.Since(start).String()}
		}
	} else {
		checks["store"] = Check{Status: "fail", Message: "not configured"}
		allHealthy = false
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	hostname, _ := os.Hostname()
	resp := HealthResponse{
		Status:    status,
		Version:   version,
		Instance:  hostname,
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	h.JSON(w, statusCode, resp)
}

// RootResponse represents the API info response.
type RootResponse struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

// Root handles the API info endpoint.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, RootResponse{
		Name:    "Escape Room",
		Version: version,
		Endpoints: []string{
			"POST /createOrLoadEscapeRoom",
			"POST /saveEscapeRoom",
			"GET /{agentName}/{puzzleId}",
			"POST /checkSolution",
			"GET /health",
		},
	})
}

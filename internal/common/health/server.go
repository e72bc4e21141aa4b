// Package health serves the operational endpoints of the worker process: liveness,
// readiness of the backing services, and Prometheus metrics.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Checker is a dependency that /ready pings.
type Checker interface {
	Name() string
	Ping(ctx context.Context) error
}

type Status struct {
	Status string            `json:"status"`
	Time   string            `json:"time"`
	Checks map[string]string `json:"checks,omitempty"`
}

// NewRouter builds the /health, /ready and /metrics routes. Each readiness check is
// bounded by checkTimeout.
func NewRouter(checkers []Checker, checkTimeout time.Duration) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/ready", readyHandler(checkers, checkTimeout)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

// NewServer wraps the router with access logging written to accessLog.
func NewServer(port int, checkers []Checker, accessLog io.Writer) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handlers.LoggingHandler(accessLog, NewRouter(checkers, 2*time.Second)),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK, Status{
		Status: "healthy",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

func readyHandler(checkers []Checker, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := Status{
			Status: "ready",
			Time:   time.Now().UTC().Format(time.RFC3339),
			Checks: make(map[string]string, len(checkers)),
		}
		code := http.StatusOK

		for _, c := range checkers {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			err := c.Ping(ctx)
			cancel()

			if err != nil {
				status.Checks[c.Name()] = err.Error()
				status.Status = "not_ready"
				code = http.StatusServiceUnavailable
				continue
			}
			status.Checks[c.Name()] = "ok"
		}

		writeStatus(w, code, status)
	}
}

func writeStatus(w http.ResponseWriter, code int, status Status) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}

package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/audiolith/jobwatch/pkg/log"
	"github.com/audiolith/jobwatch/pkg/types"
)

// Server exposes /metrics and /healthz while the continuous health loop is
// running.
type Server struct {
	registry *prometheus.Registry
	srv      *http.Server

	mu   sync.RWMutex
	last *types.HealthReport
}

// NewServer builds a server with all jobwatch metrics registered.
func NewServer(addr string) *Server {
	registry := prometheus.NewRegistry()
	Register(registry)

	s := &Server{registry: registry}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", s.handleHealthz)
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// SetReport records the latest health report served by /healthz.
func (s *Server) SetReport(report types.HealthReport) {
	s.mu.Lock()
	s.last = &report
	s.mu.Unlock()
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	report := s.last
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if report == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "no report yet"})
		return
	}

	if !report.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(report)
}

// Start serves in the background until Stop is called.
func (s *Server) Start() {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg := log.WithComponent("metrics")
			lg.Error().Err(err).Msg("metrics server error")
		}
	}()
}

// Stop shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

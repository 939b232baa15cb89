package metrics

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the Prometheus scrape handler for this collector.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// NewRouter mounts the scrape endpoint and a liveness probe.
func NewRouter(c *Collector) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", c.Handler()).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().Format(time.RFC3339) + `"}`))
	}).Methods("GET")

	return r
}

// NewServer returns an HTTP server exposing the collector on addr. The
// caller owns its lifecycle.
func NewServer(addr string, c *Collector) *http.Server {
	return &http.Server{
		Addr:    addr,
		Handler: NewRouter(c),
	}
}

// Package server exposes the last reading and the metrics over HTTP.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mklimuk/transducer/sink"
)

type readingResponse struct {
	PressurePa   float64   `json:"pressure_pa"`
	PressureMbar float64   `json:"pressure_mbar"`
	TemperatureC float64   `json:"temperature_c"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewRouter(latest *sink.Latest, gatherer prometheus.Gatherer) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthHandler).Methods("GET")
	r.HandleFunc("/reading", readingHandler(latest)).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")

	return r
}

// Handler is the router with access logging written to out.
func Handler(latest *sink.Latest, gatherer prometheus.Gatherer, out io.Writer) http.Handler {
	return handlers.LoggingHandler(out, NewRouter(latest, gatherer))
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// readingHandler answers 204 until the first complete reading arrives.
func readingHandler(latest *sink.Latest) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		reading, at, ok := latest.Get()
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(readingResponse{
			PressurePa:   reading.PressurePa,
			PressureMbar: reading.PressurePa / 100,
			TemperatureC: reading.TemperatureC,
			UpdatedAt:    at.UTC(),
		})
	}
}

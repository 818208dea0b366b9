package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
)

// Healthcheck builds a handler that runs the given probes and reports 200
// when all pass, or 503 with the failing result otherwise. Probes are the
// func(context.Context) error closures storage packages expose.
func Healthcheck(probes ...func(context.Context) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, probe := range probes {
			if err := probe(r.Context()); err != nil {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
				return
			}
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
}

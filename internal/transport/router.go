package transport

import (
	"net/http"

	"ordering-be/internal/metrics"

	"github.com/gorilla/mux"
)

// Registrar mounts a group of routes under the /api subrouter.
type Registrar interface {
	Register(api *mux.Router)
}

// NewRouter wires /health, /metrics and every registrar's routes. The given
// middlewares run after metrics, so rejected requests are still counted.
func NewRouter(registrars []Registrar, mws ...mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	r.Use(metrics.Middleware)
	r.Use(mws...)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	for _, reg := range registrars {
		reg.Register(api)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteStatus(w, r, http.StatusNotFound, "Resource not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteStatus(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}

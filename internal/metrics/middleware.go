package metrics

import (
	"net/http"

	"ordering-be/internal/logger"

	"github.com/gorilla/mux"
)

// Middleware records request count and latency labelled by the matched
// route template. Register it with (*mux.Router).Use so the route is known.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timer := StartTimer()
		rec := logger.NewStatusRecorder(w)

		next.ServeHTTP(rec, r)

		RecordHTTPRequest(r.Method, routeOf(r), rec.Status, timer.Duration())
	})
}

func routeOf(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

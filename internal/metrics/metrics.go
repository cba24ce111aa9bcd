package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ordersCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total number of orders created",
		},
	)

	ordersCancelledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_cancelled_total",
			Help: "Total number of orders cancelled with stock restored",
		},
	)

	orderStatusTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_status_transitions_total",
			Help: "Total number of committed order status transitions",
		},
		[]string{"from", "to"},
	)

	stockUpdatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stock_updates_total",
			Help: "Total number of product stock writes",
		},
	)

	optimisticLockConflictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optimistic_lock_conflicts_total",
			Help: "Total number of writes rejected because of a stale version",
		},
		[]string{"resource"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(ordersCreatedTotal)
	prometheus.MustRegister(ordersCancelledTotal)
	prometheus.MustRegister(orderStatusTransitionsTotal)
	prometheus.MustRegister(stockUpdatesTotal)
	prometheus.MustRegister(optimisticLockConflictsTotal)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func RecordOrderCreated() { ordersCreatedTotal.Inc() }

func RecordOrderCancelled() { ordersCancelledTotal.Inc() }

func RecordStatusTransition(from, to string) {
	orderStatusTransitionsTotal.WithLabelValues(from, to).Inc()
}

func RecordStockUpdate() { stockUpdatesTotal.Inc() }

func RecordOptimisticLockConflict(resource string) {
	optimisticLockConflictsTotal.WithLabelValues(resource).Inc()
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

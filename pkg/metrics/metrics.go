package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Subsystem: "order",
		Name:      "operations_total",
		Help:      "Order and catalog operations by outcome.",
	}, []string{"op", "result"})

	duration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shop",
		Subsystem: "order",
		Name:      "operation_duration_seconds",
		Help:      "Duration of order and catalog operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})
)

// Result labels an operation outcome with the first matching sentinel name,
// "ok" for nil and "error" otherwise.
type Result func(err error) string

func ResultOf(named map[error]string) Result {
	return func(err error) string {
		if err == nil {
			return "ok"
		}
		for sentinel, name := range named {
			if errors.Is(err, sentinel) {
				return name
			}
		}
		return "error"
	}
}

// Observe records one finished operation.
func Observe(op string, started time.Time, result string) {
	operations.WithLabelValues(op, result).Inc()
	duration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

func Handler() http.Handler {
	return promhttp.Handler()
}

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rag_backend"

const (
	KindAsk  = "ask"
	KindChat = "chat"
)

const (
	OpInsert       = "insert"
	OpSelectRecent = "select_recent"
)

var (
	// strategyRuns counts strategy invocations by kind, approach and status.
	strategyRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "strategy_runs_total",
		Help:      "Total strategy runs by kind, approach and status",
	}, []string{"kind", "approach", "status"})

	strategyDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "strategy_duration_seconds",
		Help:      "Strategy run duration in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
	}, []string{"kind", "approach"})

	historyErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_errors_total",
		Help:      "Chat history store failures by operation",
	}, []string{"operation"})
)

// ObserveStrategy records one strategy run that started at start.
func ObserveStrategy(kind, approach string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	strategyRuns.WithLabelValues(kind, approach, status).Inc()
	strategyDuration.WithLabelValues(kind, approach).Observe(time.Since(start).Seconds())
}

func HistoryError(operation string) {
	historyErrors.WithLabelValues(operation).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}

package git

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jmgilman/reposync/errors"
)

// Metrics records Syncer activity. A nil *Metrics records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	lockWait   *prometheus.HistogramVec
}

// NewMetrics creates the Syncer metrics and registers them with reg.
// It panics if they are already registered there, like promauto.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reposync_operations_total",
				Help: "Repository operations by outcome. result is \"success\" or the lowercased error code.",
			},
			[]string{"operation", "result"},
		),
		lockWait: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reposync_lock_wait_seconds",
				Help:    "Time spent waiting for a repository lock.",
				Buckets: []float64{.001, .01, .1, .5, 1, 5, 15, 60, 300},
			},
			[]string{"operation"},
		),
	}
}

func (m *Metrics) observeWait(op string, d time.Duration) {
	if m == nil {
		return
	}
	m.lockWait.WithLabelValues(op).Observe(d.Seconds())
}

func (m *Metrics) record(op string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	if err == nil {
		return "success"
	}
	return strings.ToLower(string(errors.GetCode(err)))
}

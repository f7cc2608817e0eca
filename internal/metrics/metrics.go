package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values for AuthorizationOutcomes.
const (
	OutcomeResolved = "resolved"
	OutcomeRejected = "rejected"
	OutcomeOrphaned = "orphaned"
)

var (
	AuthorizationsIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "authlink",
		Name:      "authorizations_issued_total",
		Help:      "Authorization URLs handed out to chat users",
	})

	AuthorizationOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "authlink",
		Name:      "authorization_outcomes_total",
		Help:      "Callback resolutions by outcome and reason",
	}, []string{"outcome", "reason"})

	ExchangeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "authlink",
		Name:      "exchange_duration_seconds",
		Help:      "Latency of the authorization code exchange",
		Buckets:   prometheus.DefBuckets,
	})

	PendingStates = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "authlink",
		Name:      "pending_states",
		Help:      "State tokens held by the correlation store",
	})

	TaskRestarts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "authlink",
		Name:      "task_restarts_total",
		Help:      "Supervised task restarts after a fault",
	}, []string{"task"})

	ChatUpdates = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "authlink",
		Name:      "chat_updates_total",
		Help:      "Chat updates dispatched by command",
	}, []string{"command"})
)

// Register registers the collectors on the given registry (or default if nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	collectors := []prometheus.Collector{
		AuthorizationsIssued,
		AuthorizationOutcomes,
		ExchangeDuration,
		PendingStates,
		TaskRestarts,
		ChatUpdates,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return err
			}
		}
	}

	return nil
}

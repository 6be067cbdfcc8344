package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "exchange_chat"

type Metrics struct {
	MessagesSent        prometheus.Counter
	ReconcileRuns       prometheus.Counter
	ReconcileAdditions  prometheus.Counter
	ExchangeTransitions *prometheus.CounterVec
	UnreadCacheHits     *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MessagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Messages persisted through the chat service.",
		}),
		ReconcileRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_runs_total",
			Help:      "Seed conversations merged with persisted messages.",
		}),
		ReconcileAdditions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_additions_total",
			Help:      "Persisted messages appended to seed conversations.",
		}),
		ExchangeTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exchange_requests_total",
			Help:      "Exchange request lifecycle events by status.",
		}, []string{"status"}),
		UnreadCacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unread_cache_lookups_total",
			Help:      "Unread counter cache lookups by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.MessagesSent,
		m.ReconcileRuns,
		m.ReconcileAdditions,
		m.ExchangeTransitions,
		m.UnreadCacheHits,
	)

	return m
}

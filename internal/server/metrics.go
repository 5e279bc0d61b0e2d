package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the service counters exposed on /metrics.
type Metrics struct {
	Signups            prometheus.Counter
	Logins             prometheus.Counter
	ChatTurns          prometheus.Counter
	ReportsGenerated   *prometheus.CounterVec
	NarrativeFallbacks *prometheus.CounterVec
}

// NewMetrics registers the counters on the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lifeplan_signups_total",
			Help: "Completed signups.",
		}),
		Logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lifeplan_logins_total",
			Help: "Successful logins.",
		}),
		ChatTurns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lifeplan_chat_turns_total",
			Help: "Chat turns handled by the profile filler.",
		}),
		ReportsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lifeplan_reports_generated_total",
			Help: "Reports generated, by kind.",
		}, []string{"kind"}),
		NarrativeFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lifeplan_narrative_fallbacks_total",
			Help: "Report narratives replaced by the fixed fallback, by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.Signups, m.Logins, m.ChatTurns, m.ReportsGenerated, m.NarrativeFallbacks)
	return m
}

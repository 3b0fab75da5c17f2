package httpserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are registered on a per-server registry so tests can build many
// servers in one process.
type metrics struct {
	created  prometheus.Counter
	started  prometheus.Counter
	finished *prometheus.CounterVec
	strikes  *prometheus.CounterVec
	actions  *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer, live func() float64) *metrics {
	f := promauto.With(reg)
	f.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "defuse_missions_live",
		Help: "Missions currently held in memory",
	}, live)
	return &metrics{
		created: f.NewCounter(prometheus.CounterOpts{
			Name: "defuse_missions_created_total",
			Help: "Missions created",
		}),
		started: f.NewCounter(prometheus.CounterOpts{
			Name: "defuse_missions_started_total",
			Help: "Missions moved from intro to active",
		}),
		finished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "defuse_missions_finished_total",
			Help: "Missions that reached a terminal status",
		}, []string{"status"}),
		strikes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "defuse_strikes_total",
			Help: "Strikes by module type",
		}, []string{"module"}),
		actions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "defuse_module_actions_total",
			Help: "Module actions by module type and outcome",
		}, []string{"module", "outcome"}),
	}
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wateryy"

var (
	once sync.Once

	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Count of handled bot commands by name.",
		},
		[]string{"command"},
	)

	commandsRateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_rate_limited_total",
			Help:      "Count of commands rejected by the per-user rate limit.",
		},
	)

	waterLoggedML = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "water_logged_ml_total",
			Help:      "Millilitres of water logged by source.",
		},
		[]string{"source"},
	)

	reminderSends = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminder_sends_total",
			Help:      "Count of reminder deliveries by outcome.",
		},
		[]string{"status"},
	)

	reminderCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminder_cycles_total",
			Help:      "Count of reminder scan cycles by result.",
		},
		[]string{"result"},
	)

	reminderCycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reminder_cycle_duration_seconds",
			Help:      "Duration of reminder scan cycles.",
			Buckets:   []float64{.01, .05, .1, .5, 1, 2, 5, 15, 30},
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			commandsTotal,
			commandsRateLimited,
			waterLoggedML,
			reminderSends,
			reminderCycles,
			reminderCycleDuration,
		)
	})
}

func IncCommand(command string) {
	commandsTotal.WithLabelValues(command).Inc()
}

func IncRateLimited() {
	commandsRateLimited.Inc()
}

// AddWaterLogged records intake; source is "command" or "reminder".
func AddWaterLogged(source string, ml int) {
	waterLoggedML.WithLabelValues(source).Add(float64(ml))
}

func IncReminderSend(status string) {
	reminderSends.WithLabelValues(status).Inc()
}

func ObserveReminderCycle(result string, seconds float64) {
	reminderCycles.WithLabelValues(result).Inc()
	reminderCycleDuration.Observe(seconds)
}

package smartthings

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks cloud command traffic. Optional; a nil receiver is valid and
// records nothing, so a Client without metrics pays no cost.
type Metrics struct {
	commandsTotal   *prometheus.CounterVec
	commandFailures *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	labels := []string{"capability", "command"}

	return &Metrics{
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stda_smartthings_commands_total",
			Help: "Commands issued against the SmartThings API",
		}, labels),
		commandFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stda_smartthings_command_failures_total",
			Help: "Commands that failed at the transport level",
		}, labels),
		commandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stda_smartthings_command_duration_seconds",
			Help:    "Round trip time of SmartThings commands",
			Buckets: prometheus.DefBuckets,
		}, labels),
	}
}

func (m *Metrics) Register(r prometheus.Registerer) {
	r.MustRegister(m.commandsTotal, m.commandFailures, m.commandDuration)
}

func (m *Metrics) observeCommand(capability string, command string, d time.Duration, err error) {
	if m == nil {
		return
	}

	m.commandsTotal.WithLabelValues(capability, command).Inc()
	m.commandDuration.WithLabelValues(capability, command).Observe(d.Seconds())

	if err != nil {
		m.commandFailures.WithLabelValues(capability, command).Inc()
	}
}

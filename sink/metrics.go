package sink

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mklimuk/transducer/pressure"
)

// Metrics exposes the last values and the outcome of every transaction as
// Prometheus metrics. It doubles as the driver observer.
type Metrics struct {
	device   string
	value    *prometheus.GaugeVec
	updated  *prometheus.GaugeVec
	outcomes *prometheus.CounterVec
}

var _ pressure.Observer = &Metrics{}

func NewMetrics(reg prometheus.Registerer, device string) (*Metrics, error) {
	m := &Metrics{
		device: device,
		value: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "transducer_value",
			Help: "Last published value (pressure in Pa, temperature in degrees Celsius).",
		}, []string{"device", "quantity"}),
		updated: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "transducer_last_update_timestamp_seconds",
			Help: "Unix time of the last published value.",
		}, []string{"device", "quantity"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transducer_transactions_total",
			Help: "Completed bus transactions by outcome.",
		}, []string{"device", "status"}),
	}
	for _, c := range []prometheus.Collector{m.value, m.updated, m.outcomes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) For(q Quantity) pressure.Sink {
	value := m.value.WithLabelValues(m.device, string(q))
	updated := m.updated.WithLabelValues(m.device, string(q))
	return pressure.SinkFunc(func(ctx context.Context, v float64) error {
		value.Set(v)
		updated.SetToCurrentTime()
		return nil
	})
}

func (m *Metrics) Observe(status pressure.Status, err error) {
	m.outcomes.WithLabelValues(m.device, status.String()).Inc()
}

package server

import (
	"net/http"
	"strconv"

	"github.com/grovetools/kakapo/errors"
	"github.com/grovetools/kakapo/pkg/actions"
	"github.com/grovetools/kakapo/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the daemon's collectors on a private registry.
type metrics struct {
	registry *prometheus.Registry
	actions  *prometheus.CounterVec
	errors   *prometheus.CounterVec
}

func newMetrics(d *actions.Dispatcher) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kakapo",
			Name:      "actions_total",
			Help:      "Dispatched actions by type and whether the target sound existed.",
		}, []string{"type", "found"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kakapo",
			Name:      "action_errors_total",
			Help:      "Failed actions by error code.",
		}, []string{"code"}),
	}

	store := d.Store()
	m.registry.MustRegister(
		m.actions,
		m.errors,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "kakapo",
			Name:      "sounds",
			Help:      "Sounds in the collection.",
		}, func() float64 { return float64(store.Len()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "kakapo",
			Name:      "sounds_playing",
			Help:      "Sounds currently playing.",
		}, func() float64 {
			playing := store.Snapshot().Filter(func(s models.Sound) bool { return s.Playing })
			return float64(len(playing))
		}),
	)
	return m
}

func (m *metrics) observe(a actions.Action, err error) {
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		m.errors.WithLabelValues(string(code)).Inc()
		return
	}
	m.actions.WithLabelValues(string(a.Type), strconv.FormatBool(a.Found)).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

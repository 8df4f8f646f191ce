// Package metrics instruments mapping operations with prometheus collectors.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shapemap"

// Recorder records mapping activity. A nil Recorder records nothing.
type Recorder struct {
	maps         *prometheus.CounterVec
	compilations *prometheus.CounterVec
	failures     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	configs      prometheus.Gauge
}

// New creates a recorder and registers its collectors with reg.
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		maps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "maps_total",
			Help:      "Objects mapped, by type pair.",
		}, []string{"pair"}),
		compilations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compilations_total",
			Help:      "Mapping configurations compiled, by type pair.",
		}, []string{"pair"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Failed operations, by type pair and stage.",
		}, []string{"pair", "stage"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "map_duration_seconds",
			Help:      "Time spent mapping one object.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"pair"}),
		configs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "configurations",
			Help:      "Registered mapping configurations.",
		}),
	}

	for _, c := range []prometheus.Collector{r.maps, r.compilations, r.failures, r.duration, r.configs} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	return r, nil
}

// Stage names used for error accounting.
const (
	StageMap     = "map"
	StageCompile = "compile"
	StageHook    = "after_map"
)

// ObserveMap records one mapping of pair that took d.
func (r *Recorder) ObserveMap(pair string, d time.Duration, err error) {
	if r == nil {
		return
	}

	r.maps.WithLabelValues(pair).Inc()
	r.duration.WithLabelValues(pair).Observe(d.Seconds())

	if err != nil {
		r.failures.WithLabelValues(pair, StageMap).Inc()
	}
}

// ObserveCompile records compilation of pair.
func (r *Recorder) ObserveCompile(pair string, err error) {
	if r == nil {
		return
	}

	if err != nil {
		r.failures.WithLabelValues(pair, StageCompile).Inc()
		return
	}

	r.compilations.WithLabelValues(pair).Inc()
}

// ObserveHookError records a failing after-map hook.
func (r *Recorder) ObserveHookError(pair string) {
	if r == nil {
		return
	}

	r.failures.WithLabelValues(pair, StageHook).Inc()
}

// SetConfigurations reports the registry size.
func (r *Recorder) SetConfigurations(n int) {
	if r == nil {
		return
	}

	r.configs.Set(float64(n))
}

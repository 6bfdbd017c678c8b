// Package metrics owns the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bikeshare"

// Registry bundles the service collectors behind a private registry so tests
// can build as many instances as they like.
type Registry struct {
	reg *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	rebalanceNeeds   prometheus.Gauge
	rebalanceExcess  prometheus.Gauge
	rebalanceSuggest prometheus.Gauge
	tierStations     *prometheus.GaugeVec
	baselineLookups  *prometheus.CounterVec
}

// New registers every collector on a fresh registry.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		rebalanceNeeds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "rebalancing",
			Name:      "needs_bikes_stations",
			Help:      "Stations below the low threshold in the latest rebalancing plan.",
		}),
		rebalanceExcess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "rebalancing",
			Name:      "excess_stations",
			Help:      "Stations above the utilization threshold in the latest rebalancing plan.",
		}),
		rebalanceSuggest: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "rebalancing",
			Name:      "suggestions",
			Help:      "Transfer suggestions emitted by the latest rebalancing plan.",
		}),
		tierStations: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stations",
			Name:      "congestion_tier",
			Help:      "Active stations per congestion tier in the latest utilization scan.",
		}, []string{"tier"}),
		baselineLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "baseline",
			Name:      "resolutions_total",
			Help:      "Baseline resolutions by the tier that answered.",
		}, []string{"source"}),
	}
	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.httpRequests,
		r.httpDuration,
		r.rebalanceNeeds,
		r.rebalanceExcess,
		r.rebalanceSuggest,
		r.tierStations,
		r.baselineLookups,
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// ObserveRequest records one finished HTTP request.
func (r *Registry) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObservePlan records the shape of the latest rebalancing plan.
func (r *Registry) ObservePlan(needs, excess, suggestions int) {
	if r == nil {
		return
	}
	r.rebalanceNeeds.Set(float64(needs))
	r.rebalanceExcess.Set(float64(excess))
	r.rebalanceSuggest.Set(float64(suggestions))
}

// ObserveTiers replaces the per-tier station counts.
func (r *Registry) ObserveTiers(counts map[string]int) {
	if r == nil {
		return
	}
	r.tierStations.Reset()
	for tier, n := range counts {
		r.tierStations.WithLabelValues(tier).Set(float64(n))
	}
}

// ObserveBaseline counts which resolution tier produced a baseline.
func (r *Registry) ObserveBaseline(source string) {
	if r == nil {
		return
	}
	r.baselineLookups.WithLabelValues(source).Inc()
}

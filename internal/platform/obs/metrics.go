package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	opDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "route_op_duration_seconds",
		Help:    "Duration of timed planner and oracle operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	oracleRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "routing_oracle_requests_total",
		Help: "Requests sent to the routing oracle by kind and outcome",
	}, []string{"kind", "outcome"})

	oracleFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "routing_oracle_fallbacks_total",
		Help: "Distance lookups answered by the great-circle fallback",
	}, []string{"reason"})

	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "distance_cache_lookups_total",
		Help: "Per-planner distance cache lookups by result",
	}, []string{"result"})

	planOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "route_plans_total",
		Help: "Route planning attempts by outcome",
	}, []string{"outcome"})
)

// Register adds the collectors to reg. Collectors that are already
// registered are left in place.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{opDuration, oracleRequests, oracleFallbacks, cacheLookups, planOutcomes} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

func OracleRequest(kind, outcome string) { oracleRequests.WithLabelValues(kind, outcome).Inc() }

func OracleFallback(reason string) { oracleFallbacks.WithLabelValues(reason).Inc() }

func CacheLookup(hit bool) {
	if hit {
		cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	cacheLookups.WithLabelValues("miss").Inc()
}

func PlanOutcome(outcome string) { planOutcomes.WithLabelValues(outcome).Inc() }

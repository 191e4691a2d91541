// Package metrics exposes the solver's Prometheus instrumentation: one
// registry shared by cmd/vroom's HTTP listener, internal/solve's worker
// pool and internal/routingclient's backend calls.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the solver.
	Registry = prometheus.NewRegistry()

	// SolveRuns counts completed construction+local-search runs by
	// outcome ("ok", "internal_error").
	SolveRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "vroom_solve_runs_total", Help: "Completed solver runs by outcome."},
		[]string{"outcome"},
	)
	// SolveDuration records whole-problem solve wall time in seconds.
	SolveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "vroom_solve_duration_seconds", Help: "Wall-clock duration of a full solve.", Buckets: prometheus.DefBuckets},
	)
	// PerturbationRounds is a histogram of ruin-and-recreate rounds per
	// solve. It is registered, but no code in the module observes it, so
	// it stays empty.
	PerturbationRounds = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "vroom_perturbation_rounds", Help: "Perturbation rounds run per solve.", Buckets: []float64{1, 2, 5, 10, 20, 40, 80}},
	)

	// RoutingClientRequests counts internal/routingclient backend calls
	// by provider and outcome ("hit", "miss", "error").
	RoutingClientRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "vroom_routing_client_requests_total", Help: "Routing backend requests by provider and outcome."},
		[]string{"provider", "outcome"},
	)
	// RoutingClientLatency tracks routing backend call latency in
	// milliseconds, cache hits excluded.
	RoutingClientLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "vroom_routing_client_latency_ms", Help: "Routing backend call latency in ms.", Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000}},
		[]string{"provider"},
	)
)

// RegisterDefault registers every collector on Registry, once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(SolveRuns)
		Registry.MustRegister(SolveDuration)
		Registry.MustRegister(PerturbationRounds)
		Registry.MustRegister(RoutingClientRequests)
		Registry.MustRegister(RoutingClientLatency)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once

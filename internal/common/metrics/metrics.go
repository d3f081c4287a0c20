// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copilot_queries_classified_total",
			Help: "Total number of queries classified, by primary intent",
		},
		[]string{"intent"},
	)

	RoutingDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copilot_routing_decisions_total",
			Help: "Total number of routing decisions, by execution mode and primary agent",
		},
		[]string{"mode", "agent"},
	)

	StepsExecuted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copilot_steps_executed_total",
			Help: "Total number of orchestration steps executed, by agent and final status",
		},
		[]string{"agent", "status"},
	)

	StepRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copilot_step_retries_total",
			Help: "Total number of step retry attempts, by agent",
		},
		[]string{"agent"},
	)

	StepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "copilot_step_duration_seconds",
			Help: "Duration of individual step execution in seconds",
		},
		[]string{"agent"},
	)

	PlanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "copilot_plan_duration_seconds",
			Help: "Duration of full plan execution in seconds",
		},
		[]string{"mode"},
	)

	StepsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "copilot_steps_active",
			Help: "Number of steps currently executing",
		},
	)

	FallbacksBuilt = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "copilot_fallback_paths_total",
			Help: "Total number of fallback paths attached to routing decisions",
		},
	)

	HandoffsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copilot_handoffs_created_total",
			Help: "Total number of agent handoffs created for exhausted steps",
		},
		[]string{"from_agent", "to_agent"},
	)

	SessionLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copilot_session_loads_total",
			Help: "Total number of session memory loads, by result",
		},
		[]string{"result"},
	)
)

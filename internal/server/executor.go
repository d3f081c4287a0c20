// internal/server/executor.go
package server

import (
	"context"
	"time"

	"premiumradar-core/internal/agents"
	"premiumradar-core/internal/pipeline/orchestrate"
	"premiumradar-core/internal/pipeline/route"
)

// simulationScale divides registry latencies so simulated plans finish in
// tens of milliseconds instead of seconds.
const simulationScale = 100

// NewSimulatedExecutor returns a step executor that models each agent from
// its registry metadata: it sleeps a scaled-down average latency and returns
// a canned payload. Real capability execution is the host's concern; this
// keeps the service demonstrable without live agents.
func NewSimulatedExecutor(registry *agents.Registry) orchestrate.StepExecutor {
	return func(ctx context.Context, step *route.Step) (interface{}, error) {
		delay := time.Millisecond
		if c, ok := registry.Capability(step.Agent); ok {
			delay = time.Duration(c.AverageLatencyMs/simulationScale) * time.Millisecond
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		return map[string]interface{}{
			"agent":     step.Agent,
			"action":    step.Action,
			"simulated": true,
			"query":     step.Inputs["query"],
		}, nil
	}
}

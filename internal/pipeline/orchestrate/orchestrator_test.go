// internal/pipeline/orchestrate/orchestrator_test.go
package orchestrate

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"premiumradar-core/internal/agents"
	"premiumradar-core/internal/common/config"
	"premiumradar-core/internal/common/logger"
	"premiumradar-core/internal/pipeline/route"
)

func testOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	cfg := config.RouterConfig{
		DefaultTimeout:   30000,
		MaxRetries:       2,
		ParallelismLimit: 3,
		EnableFallbacks:  true,
		EnableHandoffs:   true,
	}
	return NewOrchestrator(agents.NewRegistry(), cfg, logger.NewTestLogger(t))
}

func makeStep(number int, agent string, deps []string, timeoutMs, retries int) route.Step {
	return route.Step{
		ID:           fmt.Sprintf("step-%d-%s", number, agent),
		StepNumber:   number,
		Agent:        agent,
		Action:       "run",
		Inputs:       map[string]interface{}{"query": "test"},
		Dependencies: deps,
		TimeoutMs:    timeoutMs,
		RetryCount:   retries,
		Status:       route.StatusPending,
	}
}

func makeDecision(mode string, steps []route.Step, groups [][]string) *route.Decision {
	return &route.Decision{
		ID:           "decision-test",
		Mode:         mode,
		PrimaryAgent: steps[0].Agent,
		Plan: &route.Plan{
			ID:             "plan-test",
			Steps:          steps,
			TotalSteps:     len(steps),
			ParallelGroups: groups,
		},
	}
}

// invocationLog records executor calls per step with completion timestamps.
type invocationLog struct {
	mu          sync.Mutex
	calls       map[string]int
	completedAt map[string]time.Time
}

func newInvocationLog() *invocationLog {
	return &invocationLog{
		calls:       map[string]int{},
		completedAt: map[string]time.Time{},
	}
}

func (l *invocationLog) record(stepID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[stepID]++
	l.completedAt[stepID] = time.Now()
}

func TestExecute_SingleStepSuccess(t *testing.T) {
	o := testOrchestrator(t)
	steps := []route.Step{makeStep(1, "discovery", nil, 1000, 2)}
	decision := makeDecision(route.ModeSingle, steps, [][]string{{steps[0].ID}})

	res := o.Execute(context.Background(), decision, func(ctx context.Context, step *route.Step) (interface{}, error) {
		return "companies", nil
	}, nil)

	assert.True(t, res.Success)
	require.Len(t, res.StepResults, 1)
	assert.True(t, res.StepResults[0].Success)
	assert.Equal(t, 1, res.StepResults[0].Attempts)
	assert.Equal(t, "companies", res.FinalResult)
	assert.Equal(t, StatusComplete, res.Progress.Status)
	assert.Equal(t, 1, res.Progress.CompletedSteps)
}

func TestExecute_RetryBound(t *testing.T) {
	o := testOrchestrator(t)
	steps := []route.Step{makeStep(1, "discovery", nil, 1000, 2)}
	decision := makeDecision(route.ModeSingle, steps, [][]string{{steps[0].ID}})

	log := newInvocationLog()
	res := o.Execute(context.Background(), decision, func(ctx context.Context, step *route.Step) (interface{}, error) {
		log.record(step.ID)
		return nil, fmt.Errorf("agent unavailable")
	}, nil)

	assert.False(t, res.Success)
	// retryCount=2 means exactly 3 total attempts, never more, never fewer.
	assert.Equal(t, 3, log.calls[steps[0].ID])
	require.Len(t, res.StepResults, 1)
	assert.Equal(t, 3, res.StepResults[0].Attempts)
	assert.Contains(t, res.StepResults[0].Error, "attempt 3")
	// Executor errors are classified as step failures before accumulation.
	assert.Contains(t, res.StepResults[0].Error, "STEP_FAILED")
	assert.Contains(t, res.StepResults[0].Error, "agent unavailable")
	assert.Equal(t, StatusFailed, res.Progress.Status)
}

func TestExecute_ZeroRetries(t *testing.T) {
	o := testOrchestrator(t)
	steps := []route.Step{makeStep(1, "discovery", nil, 1000, 0)}
	decision := makeDecision(route.ModeSingle, steps, [][]string{{steps[0].ID}})

	log := newInvocationLog()
	o.Execute(context.Background(), decision, func(ctx context.Context, step *route.Step) (interface{}, error) {
		log.record(step.ID)
		return nil, fmt.Errorf("boom")
	}, nil)

	assert.Equal(t, 1, log.calls[steps[0].ID])
}

func TestExecute_Timeout(t *testing.T) {
	o := testOrchestrator(t)
	steps := []route.Step{makeStep(1, "discovery", nil, 50, 1)}
	decision := makeDecision(route.ModeSingle, steps, [][]string{{steps[0].ID}})

	res := o.Execute(context.Background(), decision, func(ctx context.Context, step *route.Step) (interface{}, error) {
		select {
		case <-time.After(5 * time.Second):
			return "too late", nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}, nil)

	assert.False(t, res.Success)
	require.Len(t, res.StepResults, 1)
	assert.Equal(t, 2, res.StepResults[0].Attempts)
	assert.Contains(t, res.StepResults[0].Error, "STEP_TIMEOUT")
}

func TestExecute_FailureIsolation(t *testing.T) {
	o := testOrchestrator(t)
	steps := []route.Step{
		makeStep(1, "discovery", nil, 1000, 0),
		makeStep(2, "enrichment", nil, 1000, 0),
		makeStep(3, "ranking", nil, 1000, 0),
	}
	decision := makeDecision(route.ModeParallel, steps,
		[][]string{{steps[0].ID, steps[1].ID, steps[2].ID}})

	res := o.Execute(context.Background(), decision, func(ctx context.Context, step *route.Step) (interface{}, error) {
		if step.Agent == "enrichment" {
			return nil, fmt.Errorf("enrichment offline")
		}
		return step.Agent + " ok", nil
	}, nil)

	assert.False(t, res.Success)
	require.Len(t, res.StepResults, 3)

	a, ok := res.ResultFor(steps[0].ID)
	require.True(t, ok)
	assert.True(t, a.Success)

	b, ok := res.ResultFor(steps[1].ID)
	require.True(t, ok)
	assert.False(t, b.Success)

	c, ok := res.ResultFor(steps[2].ID)
	require.True(t, ok)
	assert.True(t, c.Success)

	// Highest-numbered successful step wins regardless of finish order.
	assert.Equal(t, "ranking ok", res.FinalResult)
}

func TestExecute_DependencyOrdering(t *testing.T) {
	o := testOrchestrator(t)
	s1 := makeStep(1, "discovery", nil, 1000, 0)
	s2 := makeStep(2, "ranking", []string{s1.ID}, 1000, 0)
	s3 := makeStep(3, "outreach", []string{s2.ID}, 1000, 0)
	decision := makeDecision(route.ModeSequential, []route.Step{s1, s2, s3},
		[][]string{{s1.ID}, {s2.ID}, {s3.ID}})

	log := newInvocationLog()
	res := o.Execute(context.Background(), decision, func(ctx context.Context, step *route.Step) (interface{}, error) {
		log.record(step.ID)
		return step.Agent, nil
	}, nil)

	assert.True(t, res.Success)
	assert.True(t, log.completedAt[s1.ID].Before(log.completedAt[s2.ID]) ||
		log.completedAt[s1.ID].Equal(log.completedAt[s2.ID]))
	assert.True(t, log.completedAt[s2.ID].Before(log.completedAt[s3.ID]) ||
		log.completedAt[s2.ID].Equal(log.completedAt[s3.ID]))
	assert.Equal(t, "outreach", res.FinalResult)
}

func TestExecute_FailedDependencySkipsDependents(t *testing.T) {
	o := testOrchestrator(t)
	s1 := makeStep(1, "discovery", nil, 1000, 0)
	s2 := makeStep(2, "ranking", []string{s1.ID}, 1000, 0)
	decision := makeDecision(route.ModeSequential, []route.Step{s1, s2},
		[][]string{{s1.ID}, {s2.ID}})

	log := newInvocationLog()
	res := o.Execute(context.Background(), decision, func(ctx context.Context, step *route.Step) (interface{}, error) {
		log.record(step.ID)
		return nil, fmt.Errorf("discovery broke")
	}, nil)

	assert.False(t, res.Success)
	// The dependent step is never submitted to the executor.
	assert.Equal(t, 0, log.calls[s2.ID])
	require.Len(t, res.StepResults, 1)
	assert.Nil(t, res.FinalResult)

	// The skipped step stays pending.
	step, ok := decision.Plan.StepByID(s2.ID)
	require.True(t, ok)
	assert.Equal(t, route.StatusPending, step.Status)
}

func TestExecute_HandoffOnExhaustion(t *testing.T) {
	t.Run("created for agent with compatible peer", func(t *testing.T) {
		o := testOrchestrator(t)
		steps := []route.Step{makeStep(1, "outreach", nil, 1000, 0)}
		decision := makeDecision(route.ModeSingle, steps, [][]string{{steps[0].ID}})

		res := o.Execute(context.Background(), decision, func(ctx context.Context, step *route.Step) (interface{}, error) {
			return nil, fmt.Errorf("draft failed")
		}, nil)

		require.Len(t, res.Handoffs, 1)
		h := res.Handoffs[0]
		assert.Equal(t, "outreach", h.FromAgent)
		assert.Equal(t, "ranking", h.ToAgent)
		assert.Contains(t, h.Reason, "draft failed")
		assert.Equal(t, steps[0].ID, h.Context["stepId"])
		assert.NotEmpty(t, h.ID)
	})

	t.Run("absent for agent without compatible peer", func(t *testing.T) {
		o := testOrchestrator(t)
		steps := []route.Step{makeStep(1, "demo", nil, 1000, 0)}
		decision := makeDecision(route.ModeSingle, steps, [][]string{{steps[0].ID}})

		res := o.Execute(context.Background(), decision, func(ctx context.Context, step *route.Step) (interface{}, error) {
			return nil, fmt.Errorf("demo failed")
		}, nil)

		assert.Empty(t, res.Handoffs)
	})

	t.Run("disabled by config", func(t *testing.T) {
		cfg := config.RouterConfig{DefaultTimeout: 30000, MaxRetries: 0, ParallelismLimit: 3}
		o := NewOrchestrator(agents.NewRegistry(), cfg, logger.NewTestLogger(t))
		steps := []route.Step{makeStep(1, "outreach", nil, 1000, 0)}
		decision := makeDecision(route.ModeSingle, steps, [][]string{{steps[0].ID}})

		res := o.Execute(context.Background(), decision, func(ctx context.Context, step *route.Step) (interface{}, error) {
			return nil, fmt.Errorf("draft failed")
		}, nil)

		assert.Empty(t, res.Handoffs)
	})
}

func TestExecute_ProgressCallback(t *testing.T) {
	o := testOrchestrator(t)
	s1 := makeStep(1, "discovery", nil, 1000, 0)
	s2 := makeStep(2, "ranking", []string{s1.ID}, 1000, 0)
	decision := makeDecision(route.ModeSequential, []route.Step{s1, s2},
		[][]string{{s1.ID}, {s2.ID}})

	var mu sync.Mutex
	var snapshots []Progress
	res := o.Execute(context.Background(), decision, func(ctx context.Context, step *route.Step) (interface{}, error) {
		return step.Agent, nil
	}, func(p Progress) {
		mu.Lock()
		defer mu.Unlock()
		snapshots = append(snapshots, p)
	})

	assert.True(t, res.Success)
	require.NotEmpty(t, snapshots)
	assert.Equal(t, StatusIdle, snapshots[0].Status)
	assert.Equal(t, StatusPlanning, snapshots[1].Status)
	assert.Equal(t, StatusExecuting, snapshots[2].Status)

	last := snapshots[len(snapshots)-1]
	assert.Equal(t, StatusComplete, last.Status)
	assert.Equal(t, 2, last.CompletedSteps)
	assert.Equal(t, 2, last.TotalSteps)
}

func TestExecute_FinalResultIgnoresFinishOrder(t *testing.T) {
	o := testOrchestrator(t)
	steps := []route.Step{
		makeStep(1, "discovery", nil, 2000, 0),
		makeStep(2, "enrichment", nil, 2000, 0),
	}
	decision := makeDecision(route.ModeParallel, steps,
		[][]string{{steps[0].ID, steps[1].ID}})

	res := o.Execute(context.Background(), decision, func(ctx context.Context, step *route.Step) (interface{}, error) {
		// The higher-numbered step finishes first.
		if step.StepNumber == 1 {
			time.Sleep(50 * time.Millisecond)
		}
		return step.Agent, nil
	}, nil)

	assert.True(t, res.Success)
	assert.Equal(t, "enrichment", res.FinalResult)
}

func TestExecute_NilProgressCallback(t *testing.T) {
	o := testOrchestrator(t)
	steps := []route.Step{makeStep(1, "demo", nil, 1000, 0)}
	decision := makeDecision(route.ModeSingle, steps, [][]string{{steps[0].ID}})

	assert.NotPanics(t, func() {
		o.Execute(context.Background(), decision, func(ctx context.Context, step *route.Step) (interface{}, error) {
			return "ok", nil
		}, nil)
	})
}

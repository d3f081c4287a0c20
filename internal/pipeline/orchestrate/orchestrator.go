// internal/pipeline/orchestrate/orchestrator.go
package orchestrate

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"premiumradar-core/internal/agents"
	"premiumradar-core/internal/common/config"
	"premiumradar-core/internal/common/errors"
	"premiumradar-core/internal/common/logger"
	"premiumradar-core/internal/common/metrics"
	"premiumradar-core/internal/pipeline/route"
)

// Orchestrator executes routing decisions as dependency-respecting step
// graphs with per-step timeout and bounded retries.
type Orchestrator struct {
	registry *agents.Registry
	cfg      config.RouterConfig
	logger   logger.Logger
}

// NewOrchestrator wires an orchestrator against a capability registry.
func NewOrchestrator(registry *agents.Registry, cfg config.RouterConfig, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		cfg:      cfg,
		logger:   log,
	}
}

type stepOutcome struct {
	result interface{}
	err    error
}

// Execute runs the decision's plan group by group. Within a group, ready
// steps run concurrently and one step's failure never cancels its siblings;
// a step whose dependencies did not complete is never submitted. onProgress
// may be nil.
func (o *Orchestrator) Execute(ctx context.Context, decision *route.Decision, exec StepExecutor, onProgress ProgressFunc) *Result {
	plan := decision.Plan
	started := time.Now()

	res := &Result{
		PlanID:    plan.ID,
		StartedAt: started,
	}

	var mu sync.Mutex
	completed := make(map[string]bool, plan.TotalSteps)
	progress := Progress{Status: StatusIdle, TotalSteps: plan.TotalSteps}

	report := func(status, currentStep string) {
		progress.Status = status
		progress.CurrentStep = currentStep
		progress.CompletedSteps = len(completed)
		if onProgress != nil {
			onProgress(progress)
		}
	}

	report(StatusIdle, "")
	report(StatusPlanning, "")
	report(StatusExecuting, "")

	for _, group := range plan.ParallelGroups {
		ready := o.readySteps(plan, group, completed)
		if len(ready) == 0 {
			continue
		}

		var wg sync.WaitGroup
		for _, step := range ready {
			wg.Add(1)
			go func(step *route.Step) {
				defer wg.Done()
				sr := o.runStep(ctx, step, exec)

				mu.Lock()
				defer mu.Unlock()
				res.StepResults = append(res.StepResults, sr)
				if sr.Success {
					step.Status = route.StatusComplete
					step.Result = sr.Result
					completed[step.ID] = true
				} else {
					step.Status = route.StatusFailed
					step.Error = sr.Error
					if o.cfg.EnableHandoffs {
						if h := o.buildHandoff(step, sr.Error); h != nil {
							res.Handoffs = append(res.Handoffs, *h)
						}
					}
				}
				report(StatusExecuting, step.ID)
			}(step)
		}
		wg.Wait()
	}

	sort.Slice(res.StepResults, func(i, j int) bool {
		return res.StepResults[i].StepNumber < res.StepResults[j].StepNumber
	})

	succeeded := 0
	for _, sr := range res.StepResults {
		if sr.Success {
			succeeded++
			res.FinalResult = sr.Result
		}
	}
	res.Success = succeeded == plan.TotalSteps
	res.CompletedAt = time.Now()
	res.DurationMs = res.CompletedAt.Sub(started).Milliseconds()

	if res.Success {
		report(StatusComplete, "")
	} else {
		report(StatusFailed, "")
	}
	res.Progress = progress

	metrics.PlanDuration.WithLabelValues(decision.Mode).Observe(res.CompletedAt.Sub(started).Seconds())
	o.logger.Info("plan execution finished", map[string]interface{}{
		"plan_id":     plan.ID,
		"success":     res.Success,
		"steps":       plan.TotalSteps,
		"succeeded":   succeeded,
		"handoffs":    len(res.Handoffs),
		"duration_ms": res.DurationMs,
	})

	return res
}

// readySteps selects the group members that are still pending and whose
// dependencies have all completed.
func (o *Orchestrator) readySteps(plan *route.Plan, group []string, completed map[string]bool) []*route.Step {
	var ready []*route.Step
	for _, id := range group {
		step, ok := plan.StepByID(id)
		if !ok || step.Status != route.StatusPending {
			continue
		}
		depsMet := true
		for _, dep := range step.Dependencies {
			if !completed[dep] {
				depsMet = false
				break
			}
		}
		if !depsMet {
			o.logger.Warn("step skipped, dependencies did not complete", map[string]interface{}{
				"step_id": step.ID,
				"agent":   step.Agent,
			})
			continue
		}
		ready = append(ready, step)
	}
	return ready
}

// runStep drives one step through its retry loop. Each attempt races the
// executor against the step timeout; a timed-out attempt counts against the
// retry budget like any other failure.
func (o *Orchestrator) runStep(ctx context.Context, step *route.Step, exec StepExecutor) StepResult {
	step.Status = route.StatusRunning
	metrics.StepsActive.Inc()
	defer metrics.StepsActive.Dec()

	started := time.Now()
	maxAttempts := step.RetryCount + 1
	timeout := time.Duration(step.TimeoutMs) * time.Millisecond

	var attemptErrors []string
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			metrics.StepRetries.WithLabelValues(step.Agent).Inc()
		}

		result, err := o.runAttempt(ctx, step, exec, timeout)
		if err == nil {
			duration := time.Since(started)
			metrics.StepsExecuted.WithLabelValues(step.Agent, "complete").Inc()
			metrics.StepDuration.WithLabelValues(step.Agent).Observe(duration.Seconds())
			return StepResult{
				StepID:     step.ID,
				StepNumber: step.StepNumber,
				Agent:      step.Agent,
				Success:    true,
				Result:     result,
				Attempts:   attempt,
				DurationMs: duration.Milliseconds(),
			}
		}
		// Timeouts arrive pre-classified from runAttempt; everything else
		// the executor returns is a plain step failure.
		var stepErr *errors.StandardError
		if !stderrors.As(err, &stepErr) {
			stepErr = errors.NewStepFailedError(step.ID, step.Agent, err)
		}
		attemptErrors = append(attemptErrors, fmt.Sprintf("attempt %d: [%s] %s", attempt, stepErr.Code, stepErr.Details))
	}

	duration := time.Since(started)
	exhausted := errors.NewStepExhaustedError(step.ID, step.Agent, maxAttempts, attemptErrors[len(attemptErrors)-1])
	metrics.StepsExecuted.WithLabelValues(step.Agent, "failed").Inc()
	metrics.StepDuration.WithLabelValues(step.Agent).Observe(duration.Seconds())
	o.logger.Error("step exhausted retry budget", map[string]interface{}{
		"step_id":  step.ID,
		"agent":    step.Agent,
		"attempts": maxAttempts,
		"errors":   strings.Join(attemptErrors, "; "),
	})

	return StepResult{
		StepID:     step.ID,
		StepNumber: step.StepNumber,
		Agent:      step.Agent,
		Success:    false,
		Error:      exhausted.Error() + ": " + strings.Join(attemptErrors, "; "),
		Attempts:   maxAttempts,
		DurationMs: duration.Milliseconds(),
	}
}

// runAttempt races a single executor invocation against the step timeout.
// The executor goroutine is left to drain on timeout; its context is
// cancelled so a well-behaved executor returns promptly.
func (o *Orchestrator) runAttempt(ctx context.Context, step *route.Step, exec StepExecutor, timeout time.Duration) (interface{}, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan stepOutcome, 1)
	go func() {
		result, err := exec(attemptCtx, step)
		done <- stepOutcome{result: result, err: err}
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-attemptCtx.Done():
		return nil, errors.NewStepTimeoutError(step.ID, step.Agent, step.TimeoutMs)
	}
}

// buildHandoff finds the first capability-compatible agent sharing at least
// one intent with the failed step's agent. No compatible agent means no
// handoff, which is a reported absence, not an error.
func (o *Orchestrator) buildHandoff(step *route.Step, reason string) *Handoff {
	for _, candidate := range o.registry.CompatibleAgents(step.Agent) {
		if len(o.registry.SharedIntents(step.Agent, candidate)) == 0 {
			continue
		}
		metrics.HandoffsCreated.WithLabelValues(step.Agent, candidate).Inc()
		return &Handoff{
			ID:        uuid.NewString(),
			FromAgent: step.Agent,
			ToAgent:   candidate,
			Reason:    reason,
			Context: map[string]interface{}{
				"stepId": step.ID,
				"action": step.Action,
				"inputs": step.Inputs,
			},
			HandoffAt: time.Now().UTC(),
		}
	}
	return nil
}

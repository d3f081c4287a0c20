// internal/pipeline/orchestrate/models.go
package orchestrate

import (
	"context"
	"time"

	"premiumradar-core/internal/pipeline/route"
)

// Execution progress states.
const (
	StatusIdle      = "idle"
	StatusPlanning  = "planning"
	StatusExecuting = "executing"
	StatusComplete  = "complete"
	StatusFailed    = "failed"
)

// StepExecutor performs the actual agent work for one step. The orchestrator
// treats it as a black box and only inspects the returned error.
type StepExecutor func(ctx context.Context, step *route.Step) (interface{}, error)

// ProgressFunc receives progress snapshots. Fire-and-forget; it may be
// called any number of times including zero.
type ProgressFunc func(Progress)

// Progress is a point-in-time snapshot of plan execution.
type Progress struct {
	Status         string `json:"status"`
	CompletedSteps int    `json:"completedSteps"`
	TotalSteps     int    `json:"totalSteps"`
	CurrentStep    string `json:"currentStep,omitempty"`
}

// StepResult records one step's final outcome after all retries.
type StepResult struct {
	StepID     string      `json:"stepId"`
	StepNumber int         `json:"stepNumber"`
	Agent      string      `json:"agent"`
	Success    bool        `json:"success"`
	Result     interface{} `json:"result,omitempty"`
	Error      string      `json:"error,omitempty"`
	Attempts   int         `json:"attempts"`
	DurationMs int64       `json:"durationMs"`
}

// Handoff records which alternative agent could pick up a step's failed
// work. It is a suggestion, not an automatic re-execution.
type Handoff struct {
	ID        string                 `json:"id"`
	FromAgent string                 `json:"fromAgent"`
	ToAgent   string                 `json:"toAgent"`
	Reason    string                 `json:"reason"`
	Context   map[string]interface{} `json:"context"`
	HandoffAt time.Time              `json:"handoffAt"`
}

// Result is the outcome of executing a full plan. Success holds only when
// every step in the plan succeeded; FinalResult is the output of the
// highest-numbered successful step.
type Result struct {
	PlanID      string       `json:"planId"`
	Success     bool         `json:"success"`
	StepResults []StepResult `json:"stepResults"`
	FinalResult interface{}  `json:"finalResult,omitempty"`
	Handoffs    []Handoff    `json:"handoffs,omitempty"`
	Progress    Progress     `json:"progress"`
	StartedAt   time.Time    `json:"startedAt"`
	CompletedAt time.Time    `json:"completedAt"`
	DurationMs  int64        `json:"durationMs"`
}

// ResultFor returns the recorded result for a step ID.
func (r *Result) ResultFor(stepID string) (StepResult, bool) {
	for _, sr := range r.StepResults {
		if sr.StepID == stepID {
			return sr, true
		}
	}
	return StepResult{}, false
}

// internal/pipeline/route/models.go
package route

// Execution modes for a routing decision.
const (
	ModeSingle     = "single"
	ModeSequential = "sequential"
	ModeParallel   = "parallel"
	ModeHybrid     = "hybrid"
)

// Step lifecycle states.
const (
	StatusPending  = "pending"
	StatusRunning  = "running"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

// Fallback triggers.
const (
	TriggerTimeout       = "timeout"
	TriggerError         = "error"
	TriggerLowConfidence = "low_confidence"
	TriggerUserRequest   = "user_request"
)

// Step is a single unit of agent work inside a plan. Dependencies only ever
// reference step IDs that appear earlier in the plan's step list.
type Step struct {
	ID             string                 `json:"id"`
	StepNumber     int                    `json:"stepNumber"`
	Agent          string                 `json:"agent"`
	Action         string                 `json:"action"`
	Inputs         map[string]interface{} `json:"inputs"`
	ExpectedOutput string                 `json:"expectedOutput"`
	Dependencies   []string               `json:"dependencies"`
	TimeoutMs      int                    `json:"timeoutMs"`
	RetryCount     int                    `json:"retryCount"`
	Status         string                 `json:"status"`
	Result         interface{}            `json:"result,omitempty"`
	Error          string                 `json:"error,omitempty"`
}

// Plan is the executable step graph for one routing decision. ParallelGroups
// is an ordered partition of step IDs; groups run in order, members of a
// group run concurrently.
type Plan struct {
	ID                  string     `json:"id"`
	Steps               []Step     `json:"steps"`
	TotalSteps          int        `json:"totalSteps"`
	EstimatedDurationMs int        `json:"estimatedDurationMs"`
	ParallelGroups      [][]string `json:"parallelGroups"`
	CriticalPath        []string   `json:"criticalPath"`
}

// FallbackPath names the alternative agent to try when the primary path
// fails. Computed once at plan-build time.
type FallbackPath struct {
	Trigger     string `json:"trigger"`
	Alternative string `json:"alternative"`
	Steps       []Step `json:"steps"`
	Priority    int    `json:"priority"`
}

// Decision is the full routing outcome for one query.
type Decision struct {
	ID               string        `json:"id"`
	Query            string        `json:"query"`
	Mode             string        `json:"mode"`
	PrimaryAgent     string        `json:"primaryAgent"`
	SupportingAgents []string      `json:"supportingAgents"`
	Plan             *Plan         `json:"plan"`
	Confidence       float64       `json:"confidence"`
	Reasoning        string        `json:"reasoning"`
	FallbackPath     *FallbackPath `json:"fallbackPath,omitempty"`
}

// StepByID returns the plan step with the given ID.
func (p *Plan) StepByID(id string) (*Step, bool) {
	for i := range p.Steps {
		if p.Steps[i].ID == id {
			return &p.Steps[i], true
		}
	}
	return nil, false
}

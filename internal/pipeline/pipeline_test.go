// internal/pipeline/pipeline_test.go
package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"premiumradar-core/internal/agents"
	"premiumradar-core/internal/common/config"
	"premiumradar-core/internal/common/logger"
	"premiumradar-core/internal/pipeline/memory"
	"premiumradar-core/internal/pipeline/orchestrate"
	"premiumradar-core/internal/pipeline/route"
)

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()
	cfg := config.RouterConfig{
		DefaultTimeout:      30000,
		MaxRetries:          2,
		ParallelismLimit:    3,
		ConfidenceThreshold: 0.6,
		EnableFallbacks:     true,
		EnableHandoffs:      true,
	}
	return New(agents.NewRegistry(), cfg, logger.NewTestLogger(t))
}

func echoExecutor(ctx context.Context, step *route.Step) (interface{}, error) {
	return map[string]interface{}{"agent": step.Agent, "action": step.Action}, nil
}

func TestProcess_FullPipelineQuery(t *testing.T) {
	p := testPipeline(t)
	state := memory.NewState(memory.DefaultMaxEntries)

	outcome := p.Process(context.Background(),
		"Find banks in UAE, rank them, and draft emails for top 3",
		state, echoExecutor, nil)

	u := outcome.Understanding
	require.NotNil(t, u)
	assert.Equal(t, "compound.full_pipeline", u.Classification.Primary.Type)
	assert.True(t, u.Classification.IsCompound)
	assert.Equal(t, []string{"discovery", "ranking", "outreach"}, u.Classification.Primary.Agents)

	d := outcome.Decision
	require.NotNil(t, d)
	assert.Equal(t, route.ModeSequential, d.Mode)
	assert.Equal(t, "discovery", d.PrimaryAgent)

	// The outreach step must come after and depend on the ranking step.
	var rankingStep, outreachStep *route.Step
	for i := range d.Plan.Steps {
		switch d.Plan.Steps[i].Agent {
		case "ranking":
			rankingStep = &d.Plan.Steps[i]
		case "outreach":
			outreachStep = &d.Plan.Steps[i]
		}
	}
	require.NotNil(t, rankingStep)
	require.NotNil(t, outreachStep)
	assert.Greater(t, outreachStep.StepNumber, rankingStep.StepNumber)
	assert.Contains(t, outreachStep.Dependencies, rankingStep.ID)

	e := outcome.Execution
	require.NotNil(t, e)
	assert.True(t, e.Success)
	assert.Len(t, e.StepResults, 3)
	final, ok := e.FinalResult.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "outreach", final["agent"])
}

func TestProcess_FollowUpResolvesPronouns(t *testing.T) {
	p := testPipeline(t)
	state := memory.NewState(memory.DefaultMaxEntries)

	first := p.Understand("tell me about Emirates NBD and ADCB", state)
	assert.Equal(t, "enrichment.company", first.Classification.Primary.Type)
	require.NotEmpty(t, first.Memory.RecentCompanies)

	second := p.Understand("score them", first.Memory)
	assert.True(t, second.Resolution.Changed)
	assert.Contains(t, second.Resolution.ResolvedQuery, "Emirates NBD")
	assert.Contains(t, second.Resolution.ResolvedQuery, "ADCB")
	assert.Equal(t, "ranking.score", second.Classification.Primary.Type)

	d := p.Route(second)
	assert.Equal(t, "ranking", d.PrimaryAgent)
}

func TestUnderstand_DoesNotMutateInputState(t *testing.T) {
	p := testPipeline(t)
	state := memory.NewState(memory.DefaultMaxEntries)

	_ = p.Understand("find banks in UAE", state)
	assert.Empty(t, state.Entries)

	u := p.Understand("find banks in UAE", state)
	assert.Len(t, u.Memory.Entries, 1)
}

func TestProcess_UnknownQueryDegradesGracefully(t *testing.T) {
	p := testPipeline(t)
	state := memory.NewState(memory.DefaultMaxEntries)

	outcome := p.Process(context.Background(), "xyzzy plugh", state, echoExecutor, nil)

	assert.Equal(t, "unknown", outcome.Understanding.Classification.Primary.Type)
	assert.Equal(t, "demo", outcome.Decision.PrimaryAgent)
	assert.Equal(t, route.ModeSingle, outcome.Decision.Mode)
	assert.True(t, outcome.Execution.Success)
}

func TestProcess_ProgressReported(t *testing.T) {
	p := testPipeline(t)
	state := memory.NewState(memory.DefaultMaxEntries)

	var last orchestrate.Progress
	outcome := p.Process(context.Background(), "find banks in UAE", state,
		echoExecutor, func(prog orchestrate.Progress) { last = prog })

	assert.True(t, outcome.Execution.Success)
	assert.Equal(t, orchestrate.StatusComplete, last.Status)
	assert.Equal(t, 1, last.CompletedSteps)
}

// Package workflow executes the ordered multi-step plans the router
// produces for compound utterances. Execution is strictly sequential:
// step N+1 never starts before step N has completed, and the first
// failure halts the remainder of the plan.
package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/bazaar-it/bazaar-sub004/internal/logging"
	"github.com/bazaar-it/bazaar-sub004/internal/tools"
	"github.com/bazaar-it/bazaar-sub004/internal/types"
)

// StepResult records one executed step.
type StepResult struct {
	Step   types.WorkflowStep
	Output *tools.Output
	Err    error
}

// Result reports a workflow run. FailedStep is the zero-based index of
// the step that halted execution, or -1 when every step completed.
// Steps holds one entry per ATTEMPTED step, so a halted run still
// reports its partial results.
type Result struct {
	Steps      []StepResult
	FailedStep int
}

// Completed reports whether every step ran successfully.
func (r *Result) Completed() bool { return r.FailedStep < 0 }

// Executor runs workflow plans against the tool registry.
type Executor struct {
	registry *tools.Registry
}

// NewExecutor builds an Executor.
func NewExecutor(registry *tools.Registry) *Executor {
	return &Executor{registry: registry}
}

// Execute runs the plan's steps in order. Each step's Context is the
// utterance the tool sees, so the router's decomposition of the
// compound request carries the per-step intent. A step that names no
// target scene inherits the scene produced by the most recent earlier
// step, which is how "add an intro, then trim it to 2 seconds" threads
// the new scene into the edit.
func (e *Executor) Execute(ctx context.Context, projectID string, steps []types.WorkflowStep, history []types.Message) *Result {
	log := logging.Workflow()
	result := &Result{FailedStep: -1}

	var lastSceneID string
	for i, step := range steps {
		in := tools.Input{
			ProjectID:     projectID,
			Utterance:     step.Context,
			TargetSceneID: step.TargetSceneID,
			RecentHistory: history,
		}
		if in.TargetSceneID == "" {
			in.TargetSceneID = lastSceneID
		}

		out, err := e.registry.Execute(ctx, step.Tool, in)
		result.Steps = append(result.Steps, StepResult{Step: step, Output: out, Err: err})

		if err != nil {
			log.Warn("workflow halted",
				zap.Int("step", i),
				zap.String("tool", string(step.Tool)),
				zap.Error(err))
			result.FailedStep = i
			return result
		}

		if out.Scene != nil {
			lastSceneID = out.Scene.ID
		}
		log.Debug("workflow step done",
			zap.Int("step", i),
			zap.String("tool", string(step.Tool)))
	}

	return result
}

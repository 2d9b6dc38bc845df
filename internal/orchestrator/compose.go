package orchestrator

import (
	"fmt"
	"strings"

	"github.com/bazaar-it/bazaar-sub004/internal/tools"
	"github.com/bazaar-it/bazaar-sub004/internal/workflow"
)

// composeSingle renders one tool output as the assistant reply.
func composeSingle(out *tools.Output) string {
	text := out.Summary
	if text == "" && out.Question != "" {
		text = out.Question
	}
	if text == "" {
		text = "Done."
	}
	if out.Notice != "" && out.Notice != out.Summary {
		text += " " + out.Notice
	}
	return text
}

// composeWorkflow renders a multi-step run as one reply: what happened
// per completed step, plus a plain statement of where and why the plan
// stopped when it did not finish.
func composeWorkflow(res *workflow.Result) string {
	var parts []string
	for _, sr := range res.Steps {
		if sr.Err != nil {
			continue
		}
		if sr.Output.Summary != "" {
			parts = append(parts, sr.Output.Summary)
		}
		if sr.Output.Notice != "" && sr.Output.Notice != sr.Output.Summary {
			parts = append(parts, sr.Output.Notice)
		}
	}

	if !res.Completed() {
		failed := res.FailedStep
		parts = append(parts, fmt.Sprintf(
			"Step %d could not be completed, so I stopped there. The earlier steps were applied.",
			failed+1))
		if failed == 0 {
			// Nothing was applied; don't claim otherwise.
			parts = []string{"I couldn't complete the first step of that request, so nothing was changed. Please try again."}
		}
	}

	if len(parts) == 0 {
		return "Done."
	}
	return strings.Join(parts, " ")
}

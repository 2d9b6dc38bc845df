package router

import (
	"fmt"
	"strings"

	"github.com/bazaar-it/bazaar-sub004/internal/types"
)

const routerSystemPrompt = `You route user requests for a scene-based video project. Decide what the
user wants and respond with ONE JSON object, nothing else.

Available tools:
- addScene: generate a new scene from the request
- editScene: change an existing scene (requires targetSceneId)
- deleteScene: remove an existing scene (requires targetSceneId)

Decision shapes:

Single tool:
  {"kind": "single", "tool": "<tool>", "targetSceneId": "<id or empty>", "reasoning": "..."}

Multiple operations in one request (execute in order; per-step "context"
is the self-contained instruction for that step):
  {"kind": "workflow", "steps": [{"tool": "<tool>", "context": "...", "targetSceneId": ""}], "reasoning": "..."}

Too ambiguous to act:
  {"kind": "clarify", "ambiguityKind": "scene-selection" | "action-unclear" | "parameter-missing", "reasoning": "..."}

Rules:
- Prefer acting over clarifying when the intent is reasonably clear.
- Use "scene-selection" when the action is clear but the target scene is
  not. Use "parameter-missing" when the target is clear but a required
  value is not. Otherwise use "action-unclear".
- Scene numbers in requests are 1-based and refer to the numbered list
  below.`

// userPrompt renders the project context the decision depends on.
func (r *Router) userPrompt(req Request) string {
	var b strings.Builder

	if len(req.Scenes) == 0 {
		b.WriteString("The project has no scenes yet.\n")
	} else {
		b.WriteString("Scenes in the project:\n")
		for _, s := range req.Scenes {
			fmt.Fprintf(&b, "%d. id=%s name=%q duration=%d frames\n", s.Order+1, s.ID, s.Name, s.Duration)
		}
	}

	if req.SelectedSceneID != "" {
		fmt.Fprintf(&b, "\nThe user currently has scene id=%s selected.\n", req.SelectedSceneID)
	}

	history := HistoryWindow(req.History, r.cfg.HistoryWindow)
	if len(history) > 0 {
		b.WriteString("\nRecent conversation:\n")
		for _, m := range history {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
	}

	fmt.Fprintf(&b, "\nUser request: %s", req.Utterance)
	return b.String()
}

// HistoryWindow trims to the configured window, exposed for the
// orchestrator so both layers show the model the same context.
func HistoryWindow(history []types.Message, window int) []types.Message {
	if window > 0 && len(history) > window {
		return history[len(history)-window:]
	}
	return history
}

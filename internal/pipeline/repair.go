package pipeline

import (
	"context"
	"fmt"
	"strings"
)

const repairSystemPrompt = `You fix broken React/Remotion components. You will receive component
source and a specific structural problem. Return ONLY the corrected
source, no explanation and no code fences. Preserve everything that is
not implicated by the problem.`

// repair asks the model for one bounded fix of a validation failure.
func (g *Generator) repair(ctx context.Context, code string, verr error) (string, error) {
	user := fmt.Sprintf("Problem: %v\n\nSource:\n%s", verr, code)
	fixed, err := g.client.Complete(ctx, repairSystemPrompt, user)
	if err != nil {
		return "", err
	}
	return stripCodeFences(fixed), nil
}

// stripCodeFences removes a surrounding markdown fence if the model
// ignored the instruction not to add one.
func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= 2 &&
		strings.HasPrefix(strings.TrimSpace(lines[0]), "```") &&
		strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		return strings.Join(lines[1:len(lines)-1], "\n")
	}
	return s
}

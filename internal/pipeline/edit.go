package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/bazaar-it/bazaar-sub004/internal/logging"
	"github.com/bazaar-it/bazaar-sub004/internal/types"
)

// EditScope classifies how much of a scene an edit may touch. The
// classification is a required sub-decision of every edit: narrow edits
// must preserve all unrelated structure, broad edits may restyle the
// scene wholesale.
type EditScope string

const (
	ScopeNarrow EditScope = "narrow"
	ScopeBroad  EditScope = "broad"
)

var broadMarkers = []string{
	"more modern", "modernize", "redesign", "completely", "overall",
	"whole scene", "everything", "new look", "restyle", "rebrand",
	"different style", "overhaul", "from scratch",
}

// ClassifyEditScope decides whether an utterance authorizes a broad
// restyle or only a targeted change.
func ClassifyEditScope(utterance string) EditScope {
	lower := strings.ToLower(utterance)
	for _, marker := range broadMarkers {
		if strings.Contains(lower, marker) {
			return ScopeBroad
		}
	}
	return ScopeNarrow
}

// EditRequest describes one scene edit.
type EditRequest struct {
	Utterance        string
	ExistingCode     string
	ExistingName     string
	ExistingDuration int
	RecentHistory    []types.Message
}

// EditResult is the outcome of an edit. When KeptExisting is true the
// edit could not be applied safely and the original code is returned
// unchanged with an explanatory summary.
type EditResult struct {
	Code           string
	Name           string
	Duration       int
	ChangesSummary string
	KeptExisting   bool
}

// durationPattern matches "3 seconds", "2.5s", "90 frames".
var durationPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(seconds?|secs?|s\b|frames?)`)

// parseDurationEdit recognizes pure duration-change requests, which are
// handled deterministically without a model call. Returns the new
// duration in frames.
func parseDurationEdit(utterance string, fps int) (int, bool) {
	lower := strings.ToLower(utterance)
	m := durationPattern.FindStringSubmatch(lower)
	if m == nil {
		return 0, false
	}
	// Only treat it as a duration edit when the utterance is about
	// length, not about animation speed or content.
	if strings.Contains(lower, "animation") || strings.Contains(lower, "speed") ||
		strings.Contains(lower, "faster") || strings.Contains(lower, "slower") {
		return 0, false
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	if strings.HasPrefix(m[2], "frame") {
		return int(value), true
	}
	return int(value * float64(fps)), true
}

const editSystemPrompt = `You edit React/Remotion scene components. Apply the requested change to
the given source. Respond with a single JSON object:

{"code": "<full updated component source>", "changesSummary": "<one sentence>"}

Scope: %s. %s`

const narrowScopeRule = "Change ONLY what the request names. Preserve all unrelated structure, styling, and animation exactly as-is."
const broadScopeRule = "The request authorizes a broad restyle; you may rework styling and animation across the scene, but keep the text content unless asked to change it."

// Edit applies an utterance to existing scene code. Duration-only
// requests are resolved deterministically; everything else goes through
// the model with a scope-constrained prompt. Validation failures after
// bounded repair keep the existing code rather than degrading the scene.
func (g *Generator) Edit(ctx context.Context, req EditRequest) (*EditResult, error) {
	log := logging.Pipeline()

	if frames, ok := parseDurationEdit(req.Utterance, g.cfg.FPS); ok {
		// Re-applying the same instruction converges: the duration is
		// set to the requested value, not adjusted relative to it.
		return &EditResult{
			Code:           req.ExistingCode,
			Name:           req.ExistingName,
			Duration:       frames,
			ChangesSummary: fmt.Sprintf("Set scene duration to %d frames.", frames),
		}, nil
	}

	scope := ClassifyEditScope(req.Utterance)
	rule := narrowScopeRule
	if scope == ScopeBroad {
		rule = broadScopeRule
	}
	system := fmt.Sprintf(editSystemPrompt, scope, rule)

	var user strings.Builder
	if len(req.RecentHistory) > 0 {
		user.WriteString("Recent conversation:\n")
		for _, m := range req.RecentHistory {
			fmt.Fprintf(&user, "%s: %s\n", m.Role, m.Content)
		}
		user.WriteString("\n")
	}
	fmt.Fprintf(&user, "Request: %s\n\nCurrent source:\n%s", req.Utterance, req.ExistingCode)

	raw, err := g.client.CompleteJSON(ctx, system, user.String())
	if err != nil {
		return nil, err
	}

	var reply struct {
		Code           string `json:"code"`
		ChangesSummary string `json:"changesSummary"`
	}
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return nil, fmt.Errorf("decode edit reply: %w", err)
	}
	if strings.TrimSpace(reply.Code) == "" {
		return nil, fmt.Errorf("edit reply contained no code")
	}

	code := stripCodeFences(reply.Code)

	if g.cfg.ValidateCode {
		verr := Validate(code)
		for attempt := 0; verr != nil && attempt < g.cfg.RepairAttempts; attempt++ {
			log.Warn("edited code failed validation, attempting repair",
				zap.Int("attempt", attempt+1), zap.Error(verr))
			repaired, rerr := g.repair(ctx, code, verr)
			if rerr != nil {
				break
			}
			code = repaired
			verr = Validate(code)
		}
		if verr != nil {
			// The existing code is already renderable; keeping it is the
			// edit path's equivalent of the fallback scene.
			log.Warn("edit validation failed after repair, keeping existing code", zap.Error(verr))
			return &EditResult{
				Code:           req.ExistingCode,
				Name:           req.ExistingName,
				Duration:       req.ExistingDuration,
				ChangesSummary: "The requested change could not be applied safely, so the scene was left unchanged.",
				KeptExisting:   true,
			}, nil
		}
	}

	summary := reply.ChangesSummary
	if summary == "" {
		summary = "Updated the scene as requested."
	}

	return &EditResult{
		Code:           code,
		Name:           req.ExistingName,
		Duration:       req.ExistingDuration,
		ChangesSummary: summary,
	}, nil
}

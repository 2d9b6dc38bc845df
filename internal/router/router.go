// Package router turns free-form utterances into routing decisions: a
// single tool call, an ordered multi-step plan, or a clarifying
// question. The model proposes, deterministic guards dispose — every
// decision that leaves this package satisfies the routing contract
// regardless of what the model returned.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/bazaar-it/bazaar-sub004/internal/config"
	"github.com/bazaar-it/bazaar-sub004/internal/llm"
	"github.com/bazaar-it/bazaar-sub004/internal/logging"
	"github.com/bazaar-it/bazaar-sub004/internal/metrics"
	"github.com/bazaar-it/bazaar-sub004/internal/types"
)

// Request is the routing input: the utterance plus the project context
// the decision depends on.
type Request struct {
	ProjectID string
	Utterance string
	Scenes    []types.Scene
	History   []types.Message

	// SelectedSceneID is the scene the user has selected in the client,
	// if any. It resolves otherwise-ambiguous targets: an explicit
	// reference in the utterance still wins over it.
	SelectedSceneID string
}

// Router is the intent router.
type Router struct {
	client llm.Client
	cfg    config.RouterConfig

	mu sync.Mutex
	// clarifyStreak counts consecutive clarification decisions per
	// project. Once it reaches the budget the router commits to its
	// best guess instead of asking again.
	clarifyStreak map[string]int
}

// New builds a Router.
func New(client llm.Client, cfg config.RouterConfig) *Router {
	return &Router{
		client:        client,
		cfg:           cfg,
		clarifyStreak: make(map[string]int),
	}
}

// Route produces a decision for the utterance. It never returns an
// error for model-level failures; those degrade to a clarification
// decision so the conversation continues.
func (r *Router) Route(ctx context.Context, req Request) types.RouteDecision {
	decision := r.decide(ctx, req)
	decision = r.applyBudget(req, decision)

	metrics.RouteDecisionsTotal.WithLabelValues(string(decision.Kind)).Inc()
	logging.Router().Debug("routed",
		zap.String("projectID", req.ProjectID),
		zap.String("kind", string(decision.Kind)),
		zap.String("tool", string(decision.Tool)),
		zap.Int("steps", len(decision.Steps)),
		zap.String("reasoning", decision.Reasoning))
	return decision
}

func (r *Router) decide(ctx context.Context, req Request) types.RouteDecision {
	if strings.TrimSpace(req.Utterance) == "" {
		return types.ClarifyDecision(types.AmbiguityActionUnclear, "empty utterance")
	}

	raw, err := r.client.CompleteJSON(ctx, routerSystemPrompt, r.userPrompt(req))
	if err != nil {
		logging.Router().Warn("routing model call failed, asking for clarification", zap.Error(err))
		return types.ClarifyDecision(types.AmbiguityActionUnclear, "routing model unavailable")
	}

	var decision types.RouteDecision
	if err := json.Unmarshal([]byte(raw), &decision); err != nil {
		logging.Router().Warn("routing reply was not decodable", zap.Error(err))
		return types.ClarifyDecision(types.AmbiguityActionUnclear, "routing reply undecodable")
	}

	return r.guard(req, decision)
}

// guard enforces the routing contract on whatever the model returned.
func (r *Router) guard(req Request, d types.RouteDecision) types.RouteDecision {
	switch d.Kind {
	case types.DecisionSingle:
		return r.guardSingle(req, d)

	case types.DecisionWorkflow:
		if len(d.Steps) == 0 {
			return types.ClarifyDecision(types.AmbiguityActionUnclear, "workflow with no steps")
		}
		for i, step := range d.Steps {
			if !types.KnownTool(step.Tool) {
				return types.ClarifyDecision(types.AmbiguityActionUnclear,
					fmt.Sprintf("workflow step %d names unknown tool %q", i+1, step.Tool))
			}
			if step.Context == "" {
				d.Steps[i].Context = req.Utterance
			}
		}
		return d

	case types.DecisionClarify:
		if d.Ambiguity == "" {
			d.Ambiguity = types.AmbiguityActionUnclear
		}
		return d

	default:
		return types.ClarifyDecision(types.AmbiguityActionUnclear,
			fmt.Sprintf("unrecognized decision kind %q", d.Kind))
	}
}

func (r *Router) guardSingle(req Request, d types.RouteDecision) types.RouteDecision {
	if !types.KnownTool(d.Tool) {
		return types.ClarifyDecision(types.AmbiguityActionUnclear,
			fmt.Sprintf("unknown tool %q", d.Tool))
	}

	switch d.Tool {
	case types.ToolEditScene, types.ToolDeleteScene:
		if len(req.Scenes) == 0 {
			if d.Tool == types.ToolEditScene {
				// Nothing to edit yet; treat the request as creating the
				// content it describes.
				return types.SingleDecision(types.ToolAddScene, "")
			}
			return types.ClarifyDecision(types.AmbiguitySceneSelection, "no scenes to delete")
		}
		if d.TargetSceneID == "" || !sceneExists(req.Scenes, d.TargetSceneID) {
			referenced, ok := resolveSceneRef(req.Utterance, req.Scenes)
			switch {
			case ok:
				d.TargetSceneID = referenced
			case req.SelectedSceneID != "" && sceneExists(req.Scenes, req.SelectedSceneID):
				d.TargetSceneID = req.SelectedSceneID
			case len(req.Scenes) == 1:
				d.TargetSceneID = req.Scenes[0].ID
			default:
				return types.ClarifyDecision(types.AmbiguitySceneSelection,
					"target scene could not be resolved")
			}
		}
		return d

	case types.ToolAskSpecify:
		// The model asking to ask is just a clarification decision.
		return types.ClarifyDecision(types.AmbiguityActionUnclear, d.Reasoning)

	default:
		d.TargetSceneID = ""
		return d
	}
}

// applyBudget caps consecutive clarification turns. When the streak
// reaches the budget, the router commits to its best guess: edit the
// only plausible scene for selection ambiguity, otherwise add a scene
// built from the utterance itself.
func (r *Router) applyBudget(req Request, d types.RouteDecision) types.RouteDecision {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.Kind != types.DecisionClarify {
		delete(r.clarifyStreak, req.ProjectID)
		return d
	}

	if r.clarifyStreak[req.ProjectID] >= r.cfg.ClarificationBudget {
		best := r.bestGuess(req, d)
		logging.Router().Info("clarification budget exhausted, committing to best guess",
			zap.String("projectID", req.ProjectID),
			zap.String("tool", string(best.Tool)))
		delete(r.clarifyStreak, req.ProjectID)
		return best
	}

	r.clarifyStreak[req.ProjectID]++
	return d
}

func (r *Router) bestGuess(req Request, d types.RouteDecision) types.RouteDecision {
	if d.Ambiguity == types.AmbiguitySceneSelection && len(req.Scenes) > 0 {
		// The newest scene is the most likely referent of a vague edit.
		return types.SingleDecision(types.ToolEditScene, req.Scenes[len(req.Scenes)-1].ID)
	}
	return types.SingleDecision(types.ToolAddScene, "")
}

func sceneExists(scenes []types.Scene, id string) bool {
	for _, s := range scenes {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Package orchestrator is the brain of the engine: it receives raw
// utterances, persists the conversation, routes intent, executes the
// chosen tool or workflow, and composes the assistant's reply. Per
// project, utterances are processed strictly one at a time.
package orchestrator

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/bazaar-it/bazaar-sub004/internal/config"
	"github.com/bazaar-it/bazaar-sub004/internal/logging"
	"github.com/bazaar-it/bazaar-sub004/internal/pipeline"
	"github.com/bazaar-it/bazaar-sub004/internal/router"
	"github.com/bazaar-it/bazaar-sub004/internal/store"
	"github.com/bazaar-it/bazaar-sub004/internal/tools"
	"github.com/bazaar-it/bazaar-sub004/internal/types"
	"github.com/bazaar-it/bazaar-sub004/internal/workflow"
)

// Reply is the outcome of one processed utterance.
type Reply struct {
	// Message is the persisted assistant message.
	Message *types.Message
	// Decision is the routing decision that produced the reply.
	Decision types.RouteDecision
	// Scenes is the project's scene list after all effects applied.
	Scenes []types.Scene
}

// Orchestrator wires the router, tool registry, and workflow executor
// over the store.
type Orchestrator struct {
	store       store.Store
	router      *router.Router
	registry    *tools.Registry
	executor    *workflow.Executor
	pipelineCfg config.PipelineConfig
	routerCfg   config.RouterConfig

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New builds an Orchestrator.
func New(st store.Store, rt *router.Router, reg *tools.Registry, exec *workflow.Executor, pipelineCfg config.PipelineConfig, routerCfg config.RouterConfig) *Orchestrator {
	return &Orchestrator{
		store:       st,
		router:      rt,
		registry:    reg,
		executor:    exec,
		pipelineCfg: pipelineCfg,
		routerCfg:   routerCfg,
		locks:       make(map[string]*sync.Mutex),
	}
}

// CreateProject creates a project seeded with the welcome bootstrap
// scene, so a fresh project is immediately renderable.
func (o *Orchestrator) CreateProject(ctx context.Context, title string) (*types.Project, error) {
	if title == "" {
		title = "Untitled"
	}
	return o.store.CreateProject(ctx, title, pipeline.WelcomeScene(o.pipelineCfg))
}

// projectLock returns the mutex serializing a project's utterances.
func (o *Orchestrator) projectLock(projectID string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	l, ok := o.locks[projectID]
	if !ok {
		l = &sync.Mutex{}
		o.locks[projectID] = l
	}
	return l
}

// ProcessUtterance runs one full conversation turn: persist the user
// message verbatim, route, execute, persist the assistant reply
// verbatim. selectedSceneID optionally names the scene selected in the
// client and travels as derived routing context, never inside the
// stored message. Concurrent utterances for the same project are
// serialized; different projects proceed independently. Errors are
// returned only for store-level failures and unknown projects;
// everything the model or tools get wrong degrades into a user-facing
// reply instead.
func (o *Orchestrator) ProcessUtterance(ctx context.Context, projectID, utterance, selectedSceneID string) (*Reply, error) {
	lock := o.projectLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	log := logging.Orchestrator()

	if _, err := o.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	if _, err := o.store.AppendMessage(ctx, projectID, types.RoleUser, utterance); err != nil {
		return nil, err
	}

	scenes, err := o.store.ListScenes(ctx, projectID)
	if err != nil {
		return nil, err
	}
	history, err := o.store.ListMessages(ctx, projectID, o.routerCfg.HistoryWindow)
	if err != nil {
		return nil, err
	}

	decision := o.router.Route(ctx, router.Request{
		ProjectID:       projectID,
		Utterance:       utterance,
		Scenes:          scenes,
		History:         history,
		SelectedSceneID: selectedSceneID,
	})

	response := o.act(ctx, projectID, utterance, decision, history)

	assistant, err := o.store.AppendMessage(ctx, projectID, types.RoleAssistant, response)
	if err != nil {
		return nil, err
	}

	updated, err := o.store.ListScenes(ctx, projectID)
	if err != nil {
		return nil, err
	}

	log.Info("utterance processed",
		zap.String("projectID", projectID),
		zap.String("kind", string(decision.Kind)),
		zap.Int("scenes", len(updated)))

	return &Reply{Message: assistant, Decision: decision, Scenes: updated}, nil
}

// act executes the decision and returns the assistant's response text.
// The switch is exhaustive with a clarify default: a decision kind this
// version doesn't recognize asks a question instead of failing.
func (o *Orchestrator) act(ctx context.Context, projectID, utterance string, decision types.RouteDecision, history []types.Message) string {
	switch decision.Kind {
	case types.DecisionSingle:
		out, err := o.registry.Execute(ctx, decision.Tool, tools.Input{
			ProjectID:     projectID,
			Utterance:     utterance,
			TargetSceneID: decision.TargetSceneID,
			RecentHistory: history,
		})
		if err != nil {
			return o.failureReply(ctx, projectID, decision.Tool, err)
		}
		return composeSingle(out)

	case types.DecisionWorkflow:
		res := o.executor.Execute(ctx, projectID, decision.Steps, history)
		return composeWorkflow(res)

	case types.DecisionClarify:
		return o.clarify(ctx, projectID, decision.Ambiguity)

	default:
		return o.clarify(ctx, projectID, types.AmbiguityActionUnclear)
	}
}

// clarify runs the askSpecify tool and returns its question.
func (o *Orchestrator) clarify(ctx context.Context, projectID string, kind types.AmbiguityKind) string {
	out, err := o.registry.Execute(ctx, types.ToolAskSpecify, tools.Input{
		ProjectID: projectID,
		Ambiguity: kind,
	})
	if err != nil {
		// askSpecify is model-free; this only happens on store failure.
		logging.Orchestrator().Error("askSpecify failed", zap.Error(err))
		return "Could you rephrase that? I couldn't work out what to do."
	}
	return out.Question
}

// failureReply converts a tool error into user-facing text. Invalid
// input reaching a tool means the routing contract was violated, which
// is logged loudly but still answered conversationally.
func (o *Orchestrator) failureReply(ctx context.Context, projectID string, tool types.ToolName, err error) string {
	log := logging.Orchestrator()
	switch {
	case errors.Is(err, tools.ErrInvalidInput):
		log.Error("tool rejected routed input", zap.String("tool", string(tool)), zap.Error(err))
		return o.clarify(ctx, projectID, types.AmbiguityActionUnclear)
	case errors.Is(err, store.ErrNotFound):
		return "I couldn't find that scene. It may have been deleted; could you point me at another one?"
	case errors.Is(err, tools.ErrGenerationFailed):
		log.Warn("generation failed", zap.String("tool", string(tool)), zap.Error(err))
		return "Scene generation ran into a problem. Please try again in a moment, or rephrase the request."
	default:
		log.Error("tool execution failed", zap.String("tool", string(tool)), zap.Error(err))
		return "Something went wrong while applying that change. Nothing was modified; please try again."
	}
}

package router

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaar-it/bazaar-sub004/internal/config"
	"github.com/bazaar-it/bazaar-sub004/internal/types"
)

type scriptedClient struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (c *scriptedClient) Complete(ctx context.Context, system, user string) (string, error) {
	return c.CompleteJSON(ctx, system, user)
}

func (c *scriptedClient) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	c.prompts = append(c.prompts, user)
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	idx := c.calls - 1
	if idx >= len(c.responses) {
		idx = len(c.responses) - 1
	}
	return c.responses[idx], nil
}

func sceneList(names ...string) []types.Scene {
	scenes := make([]types.Scene, len(names))
	for i, n := range names {
		scenes[i] = types.Scene{ID: fmt.Sprintf("scene-%d", i+1), Order: i, Name: n, Duration: 150}
	}
	return scenes
}

func newRouter(client *scriptedClient) *Router {
	return New(client, config.Default().Router)
}

func TestRouteSingleAddScene(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`{"kind": "single", "tool": "addScene", "reasoning": "new content requested"}`,
	}}
	r := newRouter(client)

	d := r.Route(context.Background(), Request{
		ProjectID: "p1",
		Utterance: "add a pricing section scene",
		Scenes:    sceneList("Intro"),
	})

	assert.Equal(t, types.DecisionSingle, d.Kind)
	assert.Equal(t, types.ToolAddScene, d.Tool)
}

func TestRouteEditResolvesNumberedScene(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`{"kind": "single", "tool": "editScene"}`,
	}}
	r := newRouter(client)

	d := r.Route(context.Background(), Request{
		ProjectID: "p1",
		Utterance: "change the title in scene 2 to say Hello",
		Scenes:    sceneList("Intro", "Pricing", "Outro"),
	})

	assert.Equal(t, types.DecisionSingle, d.Kind)
	assert.Equal(t, types.ToolEditScene, d.Tool)
	assert.Equal(t, "scene-2", d.TargetSceneID)
}

func TestRouteEditSingleSceneImplicitTarget(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`{"kind": "single", "tool": "editScene"}`,
	}}
	r := newRouter(client)

	d := r.Route(context.Background(), Request{
		ProjectID: "p1",
		Utterance: "make the background darker",
		Scenes:    sceneList("Intro"),
	})

	assert.Equal(t, types.DecisionSingle, d.Kind)
	assert.Equal(t, "scene-1", d.TargetSceneID,
		"with one scene the target is unambiguous")
}

func TestRouteAmbiguousEditAsksForSceneSelection(t *testing.T) {
	// "make it 3 seconds" against several scenes: the action is clear,
	// the target is not.
	client := &scriptedClient{responses: []string{
		`{"kind": "single", "tool": "editScene"}`,
	}}
	r := newRouter(client)

	d := r.Route(context.Background(), Request{
		ProjectID: "p1",
		Utterance: "make it 3 seconds",
		Scenes:    sceneList("Intro", "Pricing", "Outro"),
	})

	assert.Equal(t, types.DecisionClarify, d.Kind)
	assert.Equal(t, types.AmbiguitySceneSelection, d.Ambiguity)
}

func TestRouteSelectedSceneResolvesAmbiguousTarget(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`{"kind": "single", "tool": "editScene"}`,
	}}
	r := newRouter(client)

	d := r.Route(context.Background(), Request{
		ProjectID:       "p1",
		Utterance:       "make it 3 seconds",
		Scenes:          sceneList("Intro", "Pricing", "Outro"),
		SelectedSceneID: "scene-3",
	})

	assert.Equal(t, types.DecisionSingle, d.Kind)
	assert.Equal(t, "scene-3", d.TargetSceneID,
		"the client's selected scene resolves an otherwise ambiguous edit")
}

func TestRouteUtteranceReferenceBeatsSelection(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`{"kind": "single", "tool": "editScene"}`,
	}}
	r := newRouter(client)

	d := r.Route(context.Background(), Request{
		ProjectID:       "p1",
		Utterance:       "recolor scene 1",
		Scenes:          sceneList("Intro", "Pricing"),
		SelectedSceneID: "scene-2",
	})

	assert.Equal(t, "scene-1", d.TargetSceneID)
}

func TestRouteEditWithNoScenesBecomesAdd(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`{"kind": "single", "tool": "editScene"}`,
	}}
	r := newRouter(client)

	d := r.Route(context.Background(), Request{
		ProjectID: "p1",
		Utterance: "make the intro snappier",
	})

	assert.Equal(t, types.DecisionSingle, d.Kind)
	assert.Equal(t, types.ToolAddScene, d.Tool)
}

func TestRouteUnknownToolTagClarifies(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`{"kind": "single", "tool": "renameScene"}`,
	}}
	r := newRouter(client)

	d := r.Route(context.Background(), Request{ProjectID: "p1", Utterance: "rename scene 1", Scenes: sceneList("Intro")})

	assert.Equal(t, types.DecisionClarify, d.Kind)
	assert.Equal(t, types.AmbiguityActionUnclear, d.Ambiguity)
}

func TestRouteModelFailureClarifies(t *testing.T) {
	client := &scriptedClient{err: errors.New("timeout")}
	r := newRouter(client)

	d := r.Route(context.Background(), Request{ProjectID: "p1", Utterance: "do the thing", Scenes: sceneList("Intro")})

	assert.Equal(t, types.DecisionClarify, d.Kind)
	assert.Equal(t, types.AmbiguityActionUnclear, d.Ambiguity)
}

func TestRouteWorkflowPassesThrough(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`{"kind": "workflow", "steps": [
			{"tool": "addScene", "context": "create an intro scene"},
			{"tool": "editScene", "context": "make it 2 seconds"}
		]}`,
	}}
	r := newRouter(client)

	d := r.Route(context.Background(), Request{ProjectID: "p1", Utterance: "add an intro and make it 2 seconds", Scenes: sceneList("Pricing")})

	require.Equal(t, types.DecisionWorkflow, d.Kind)
	require.Len(t, d.Steps, 2)
	assert.Equal(t, types.ToolAddScene, d.Steps[0].Tool)
	assert.Equal(t, types.ToolEditScene, d.Steps[1].Tool)
	assert.Equal(t, "make it 2 seconds", d.Steps[1].Context)
}

func TestRouteWorkflowWithUnknownStepClarifies(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`{"kind": "workflow", "steps": [{"tool": "addScene", "context": "intro"}, {"tool": "transcode", "context": "render"}]}`,
	}}
	r := newRouter(client)

	d := r.Route(context.Background(), Request{ProjectID: "p1", Utterance: "add an intro and render it", Scenes: nil})

	assert.Equal(t, types.DecisionClarify, d.Kind)
}

func TestRouteEmptyUtteranceClarifies(t *testing.T) {
	client := &scriptedClient{}
	r := newRouter(client)

	d := r.Route(context.Background(), Request{ProjectID: "p1", Utterance: "  "})

	assert.Equal(t, types.DecisionClarify, d.Kind)
	assert.Zero(t, client.calls, "empty utterances never reach the model")
}

func TestClarificationBudgetForcesBestGuess(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`{"kind": "clarify", "ambiguityKind": "scene-selection"}`,
	}}
	r := newRouter(client)
	req := Request{ProjectID: "p1", Utterance: "change it", Scenes: sceneList("Intro", "Pricing")}

	first := r.Route(context.Background(), req)
	second := r.Route(context.Background(), req)
	third := r.Route(context.Background(), req)

	assert.Equal(t, types.DecisionClarify, first.Kind)
	assert.Equal(t, types.DecisionClarify, second.Kind)
	assert.Equal(t, types.DecisionSingle, third.Kind,
		"the third consecutive ambiguous turn must commit to a best guess")
	assert.Equal(t, types.ToolEditScene, third.Tool)
	assert.Equal(t, "scene-2", third.TargetSceneID, "best guess targets the newest scene")
}

func TestClarificationStreakResetsOnSuccess(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`{"kind": "clarify", "ambiguityKind": "action-unclear"}`,
		`{"kind": "single", "tool": "addScene"}`,
		`{"kind": "clarify", "ambiguityKind": "action-unclear"}`,
		`{"kind": "clarify", "ambiguityKind": "action-unclear"}`,
	}}
	r := newRouter(client)
	req := Request{ProjectID: "p1", Utterance: "hmm"}

	assert.Equal(t, types.DecisionClarify, r.Route(context.Background(), req).Kind)
	assert.Equal(t, types.DecisionSingle, r.Route(context.Background(), req).Kind)
	// Streak restarted: two more clarifications are allowed before the guess.
	assert.Equal(t, types.DecisionClarify, r.Route(context.Background(), req).Kind)
	assert.Equal(t, types.DecisionClarify, r.Route(context.Background(), req).Kind)
}

func TestRoutePromptCarriesSceneList(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`{"kind": "single", "tool": "addScene"}`,
	}}
	r := newRouter(client)

	r.Route(context.Background(), Request{
		ProjectID: "p1",
		Utterance: "add an outro",
		Scenes:    sceneList("Intro", "Pricing"),
		History:   []types.Message{{Role: types.RoleUser, Content: "earlier question"}},
	})

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], `2. id=scene-2 name="Pricing"`)
	assert.Contains(t, client.prompts[0], "earlier question")
	assert.Contains(t, client.prompts[0], "User request: add an outro")
}

func TestResolveSceneRef(t *testing.T) {
	scenes := sceneList("Intro", "Pricing", "Outro")

	tests := []struct {
		utterance string
		wantID    string
		wantOK    bool
	}{
		{"delete scene 2", "scene-2", true},
		{"change the 3rd scene", "scene-3", true},
		{"edit the first scene", "scene-1", true},
		{"drop the last scene", "scene-3", true},
		{"tweak the pricing scene", "scene-2", true},
		{"delete scene 9", "", false},
		{"make it blue", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			id, ok := resolveSceneRef(tt.utterance, scenes)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaar-it/bazaar-sub004/internal/config"
	"github.com/bazaar-it/bazaar-sub004/internal/llm"
	"github.com/bazaar-it/bazaar-sub004/internal/types"
)

// fakeClient scripts completions per call. Responses are consumed in
// order; when exhausted the last one repeats.
type fakeClient struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (f *fakeClient) Complete(_ context.Context, system, user string) (string, error) {
	return f.next(system, user)
}

func (f *fakeClient) CompleteJSON(_ context.Context, system, user string) (string, error) {
	text, err := f.next(system, user)
	if err != nil {
		return "", err
	}
	if obj, ok := llm.FirstJSONObject(text); ok {
		return obj, nil
	}
	return "", errors.New("fake: no JSON object")
}

func (f *fakeClient) next(system, user string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, system+"\n"+user)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("fake: no scripted response")
	}
	idx := f.calls - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx], nil
}

const heroLayoutJSON = `{
	"sceneType": "hero",
	"background": "black",
	"elements": [
		{"id": "el-1", "type": "title", "text": "Smarter Finance."}
	],
	"animations": {
		"el-1": {"type": "spring", "delay": 0, "duration": 30}
	}
}`

func TestGenerateHappyPath(t *testing.T) {
	client := &fakeClient{responses: []string{heroLayoutJSON}}
	gen := NewGenerator(client, config.DefaultPipelineConfig())

	res, err := gen.Generate(context.Background(), Request{Utterance: "create a black hero section titled 'Smarter Finance.'"})
	require.NoError(t, err)

	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, "hero", res.Layout.SceneType)
	assert.Equal(t, "black", res.Layout.Background)
	assert.Contains(t, res.Code, "Smarter Finance.")
	assert.Equal(t, "Smarter Finance.", res.Name)
	assert.Positive(t, res.Duration)
	require.NoError(t, Validate(res.Code))
}

func TestGenerateLayoutFailureIsTerminal(t *testing.T) {
	client := &fakeClient{err: errors.New("network down")}
	gen := NewGenerator(client, config.DefaultPipelineConfig())

	_, err := gen.Generate(context.Background(), Request{Utterance: "anything"})
	assert.ErrorIs(t, err, ErrLayoutGeneration)
}

func TestGenerateToleratesStringNumerics(t *testing.T) {
	layoutJSON := `{
		"sceneType": "hero",
		"background": "#000",
		"elements": [{"id": "el-1", "type": "title", "text": "Hi"}],
		"animations": {"el-1": {"type": "fadeIn", "delay": "10", "duration": "30"}}
	}`
	client := &fakeClient{responses: []string{layoutJSON}}
	gen := NewGenerator(client, config.DefaultPipelineConfig())

	res, err := gen.Generate(context.Background(), Request{Utterance: "hi scene"})
	require.NoError(t, err)
	assert.Equal(t, StateDone, res.State)
	require.NoError(t, Validate(res.Code))
}

func TestGeneratePassesPriorStyleContext(t *testing.T) {
	client := &fakeClient{responses: []string{heroLayoutJSON}}
	gen := NewGenerator(client, config.DefaultPipelineConfig())

	prior := &types.LayoutSpec{SceneType: "hero", Background: "midnight blue"}
	_, err := gen.Generate(context.Background(), Request{Utterance: "another scene", PriorStyle: prior})
	require.NoError(t, err)
	require.NotEmpty(t, client.prompts)
	assert.Contains(t, client.prompts[0], "midnight blue")
}

func TestGenerateSkipsValidationWhenDisabled(t *testing.T) {
	cfg := config.DefaultPipelineConfig()
	cfg.ValidateCode = false

	client := &fakeClient{responses: []string{heroLayoutJSON}}
	gen := NewGenerator(client, cfg)

	res, err := gen.Generate(context.Background(), Request{Utterance: "hero"})
	require.NoError(t, err)
	assert.Equal(t, StateDone, res.State)
	// Only the layout call went to the model.
	assert.Equal(t, 1, client.calls)
}

func TestGenerateFallsBackWhenRepairCannotFix(t *testing.T) {
	// A stray close paren in element text survives JSX escaping and
	// unbalances the generated component, so validation rejects it. The
	// scripted repair reply is not a component either, leaving the
	// fallback scene as the terminal state.
	brokenLayout := `{
		"sceneType": "hero",
		"background": "black",
		"elements": [
			{"id": "el-1", "type": "title", "text": "Pricing"},
			{"id": "el-2", "type": "text", "text": "three tiers )"}
		],
		"animations": {
			"el-1": {"type": "spring", "delay": 0, "duration": 30},
			"el-2": {"type": "fadeIn", "delay": 10, "duration": 20}
		}
	}`
	client := &fakeClient{responses: []string{brokenLayout, "still not a component"}}
	cfg := config.DefaultPipelineConfig()
	gen := NewGenerator(client, cfg)

	res, err := gen.Generate(context.Background(), Request{Utterance: "add a pricing scene"})
	require.NoError(t, err, "validation failure must be absorbed, not surfaced")

	assert.Equal(t, StateFallbackProduced, res.State)
	assert.Equal(t, 2, client.calls, "one layout call plus one repair attempt")
	assert.NotEmpty(t, res.Notice)
	assert.Equal(t, cfg.DefaultSceneDuration, res.Duration)
	assert.Contains(t, res.Code, "Pricing", "fallback keeps the layout title")
	require.NoError(t, Validate(res.Code), "fallback output must itself be renderable")
}

func TestEditDurationRequestIsDeterministicAndIdempotent(t *testing.T) {
	client := &fakeClient{}
	gen := NewGenerator(client, config.DefaultPipelineConfig())

	req := EditRequest{
		Utterance:        "make it 3 seconds",
		ExistingCode:     "export default function A() { return null; }",
		ExistingName:     "A",
		ExistingDuration: 300,
	}

	first, err := gen.Edit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 90, first.Duration) // 3s at 30fps
	assert.Equal(t, req.ExistingCode, first.Code)
	assert.Zero(t, client.calls, "duration edits must not call the model")

	// Re-applying the same instruction converges instead of drifting.
	req.ExistingDuration = first.Duration
	second, err := gen.Edit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first.Duration, second.Duration)
	assert.Equal(t, first.Code, second.Code)
}

func TestEditAppliesModelChange(t *testing.T) {
	edited := `{"code": "export default function A() { return <div style={{ color: \"red\" }}>hi</div>; }", "changesSummary": "Made the text red."}`
	client := &fakeClient{responses: []string{edited}}
	gen := NewGenerator(client, config.DefaultPipelineConfig())

	res, err := gen.Edit(context.Background(), EditRequest{
		Utterance:        "change the text color to red",
		ExistingCode:     "export default function A() { return <div>hi</div>; }",
		ExistingName:     "A",
		ExistingDuration: 120,
	})
	require.NoError(t, err)
	assert.False(t, res.KeptExisting)
	assert.Contains(t, res.Code, "red")
	assert.Equal(t, "Made the text red.", res.ChangesSummary)
	assert.Equal(t, 120, res.Duration)
}

func TestEditKeepsExistingWhenRepairFails(t *testing.T) {
	// The edit reply is structurally broken and the repair pass returns
	// something equally broken; the original code must survive.
	broken := `{"code": "function A() { return <div>hi</div>; }", "changesSummary": "oops"}`
	client := &fakeClient{responses: []string{broken, "still not a component"}}
	gen := NewGenerator(client, config.DefaultPipelineConfig())

	existing := "export default function A() { return <div>hi</div>; }"
	res, err := gen.Edit(context.Background(), EditRequest{
		Utterance:        "make the layout fancier",
		ExistingCode:     existing,
		ExistingName:     "A",
		ExistingDuration: 120,
	})
	require.NoError(t, err)
	assert.True(t, res.KeptExisting)
	assert.Equal(t, existing, res.Code)
}

func TestClassifyEditScope(t *testing.T) {
	tests := []struct {
		utterance string
		want      EditScope
	}{
		{"change the button color", ScopeNarrow},
		{"make it more modern", ScopeBroad},
		{"completely redesign this", ScopeBroad},
		{"update the title text", ScopeNarrow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyEditScope(tt.utterance), "utterance %q", tt.utterance)
	}
}

func TestParseDurationEdit(t *testing.T) {
	tests := []struct {
		utterance string
		want      int
		ok        bool
	}{
		{"make it 3 seconds", 90, true},
		{"set it to 2.5s", 75, true},
		{"make it 45 frames", 45, true},
		{"make the animation 2 seconds faster", 0, false},
		{"change the title", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseDurationEdit(tt.utterance, 30)
		assert.Equal(t, tt.ok, ok, "utterance %q", tt.utterance)
		if tt.ok {
			assert.Equal(t, tt.want, got, "utterance %q", tt.utterance)
		}
	}
}

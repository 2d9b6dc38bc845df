package pipeline

import (
	"strings"

	"github.com/bazaar-it/bazaar-sub004/internal/config"
	"github.com/bazaar-it/bazaar-sub004/internal/types"
)

// FallbackCode builds the minimal placeholder scene used when generation
// cannot produce acceptable code. It is deliberately simple but still
// animated and styled: the pipeline's contract is to always return
// something renderable, never an error to the end user.
func FallbackCode(utterance string, layout *types.LayoutSpec, cfg config.PipelineConfig) string {
	title := "Your scene"
	background := "linear-gradient(135deg, #0f0f23 0%, #1a1a3e 100%)"

	if layout != nil {
		if layout.Background != "" {
			background = layout.Background
		}
		for _, el := range layout.Elements {
			if el.Type == types.ElementTitle && strings.TrimSpace(el.Text) != "" {
				title = el.Text
				break
			}
		}
	}
	if title == "Your scene" && strings.TrimSpace(utterance) != "" {
		title = truncateName(utterance)
	}

	fallbackLayout := &types.LayoutSpec{
		SceneType:  "fallback",
		Background: background,
		Elements: []types.Element{
			{ID: "el-1", Type: types.ElementTitle, Text: title},
			{ID: "el-2", Type: types.ElementSubtitle, Text: "This scene is a simplified placeholder.", Color: "#9ca3af"},
		},
		Animations: map[string]types.Animation{
			"el-1": {Type: "spring", Delay: 0, Duration: 30},
			"el-2": {Type: "fadeIn", Delay: 20, Duration: 25},
		},
	}

	return GenerateCode(fallbackLayout, "Fallback "+title, cfg.DefaultSceneDuration, cfg)
}

// WelcomeScene builds the transient bootstrap scene a fresh project
// shows before the first real request. It is replaced atomically by the
// first AddScene, never appended alongside.
func WelcomeScene(cfg config.PipelineConfig) types.Scene {
	layout := &types.LayoutSpec{
		SceneType:  "welcome",
		Background: "linear-gradient(135deg, #111827 0%, #312e81 100%)",
		Elements: []types.Element{
			{ID: "el-1", Type: types.ElementTitle, Text: "Welcome to Bazaar"},
			{ID: "el-2", Type: types.ElementSubtitle, Text: "Describe the scene you want and it will appear here.", Color: "#c7d2fe"},
		},
		Animations: map[string]types.Animation{
			"el-1": {Type: "spring", Delay: 0, Duration: 30},
			"el-2": {Type: "slideUp", Delay: 18, Duration: 24, Easing: "easeOut"},
		},
	}

	return types.Scene{
		Name:     "Welcome",
		Code:     GenerateCode(layout, "Welcome", cfg.DefaultSceneDuration, cfg),
		Layout:   layout,
		Duration: cfg.DefaultSceneDuration,
	}
}

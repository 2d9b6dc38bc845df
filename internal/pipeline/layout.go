package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bazaar-it/bazaar-sub004/internal/types"
)

const layoutSystemPrompt = `You are a motion-graphics layout designer. Convert the user's request
into a JSON scene layout. Respond with a single JSON object:

{
  "sceneType": "hero" | "feature" | "cta" | "text" | "custom",
  "background": "<css color or gradient>",
  "elements": [
    {"id": "el-1", "type": "title" | "subtitle" | "button" | "text" | "icon" | "image",
     "text": "<content>", "color": "<css color>", "fontSize": <number>, "src": "<url, images only>"}
  ],
  "animations": {
    "el-1": {"type": "fadeIn" | "slideUp" | "slideLeft" | "scaleIn" | "spring",
             "delay": <frames>, "duration": <frames>, "easing": "easeOut",
             "damping": <number>, "stiffness": <number>}
  }
}

Rules:
- Use text from the request verbatim where the user quoted it.
- Keep element ids stable and unique ("el-1", "el-2", ...).
- Delays and durations are in frames at 30fps.
- Give every element an animation entry.`

// generateLayout runs step 1: natural language to LayoutSpec. Numeric
// fields supplied as numeral strings are coerced during decoding rather
// than rejected, since upstream generation is unreliable about typing.
func (g *Generator) generateLayout(ctx context.Context, req Request) (*types.LayoutSpec, error) {
	user := req.Utterance
	if req.PriorStyle != nil {
		user += fmt.Sprintf(
			"\n\nStyle context from the previous scene (keep the project visually consistent): background %q, sceneType %q.",
			req.PriorStyle.Background, req.PriorStyle.SceneType)
	}

	raw, err := g.client.CompleteJSON(ctx, layoutSystemPrompt, user)
	if err != nil {
		return nil, err
	}

	var layout types.LayoutSpec
	if err := json.Unmarshal([]byte(raw), &layout); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}

	normalizeLayout(&layout)
	return &layout, nil
}

// normalizeLayout fills gaps a lenient decode can leave behind so the
// code generator never has to defend against them.
func normalizeLayout(l *types.LayoutSpec) {
	if l.SceneType == "" {
		l.SceneType = "custom"
	}
	if l.Background == "" {
		l.Background = "#0f0f0f"
	}
	if l.Animations == nil {
		l.Animations = make(map[string]types.Animation)
	}

	for i := range l.Elements {
		el := &l.Elements[i]
		if el.ID == "" {
			el.ID = fmt.Sprintf("el-%d", i+1)
		}
		if el.Type == "" {
			el.Type = types.ElementText
		}

		anim, ok := l.Animations[el.ID]
		if !ok {
			anim = types.Animation{Type: "fadeIn"}
		}
		if anim.Type == "" {
			anim.Type = "fadeIn"
		}
		if anim.Duration <= 0 {
			anim.Duration = 20
		}
		if anim.Delay < 0 {
			anim.Delay = 0
		}
		l.Animations[el.ID] = anim
	}
}

// sceneNameFrom derives a human-readable scene name from the layout's
// title element, falling back to the utterance.
func sceneNameFrom(l *types.LayoutSpec, utterance string) string {
	for _, el := range l.Elements {
		if el.Type == types.ElementTitle && strings.TrimSpace(el.Text) != "" {
			return truncateName(el.Text)
		}
	}
	if l.SceneType != "" && l.SceneType != "custom" {
		return capitalize(l.SceneType) + " Scene"
	}
	return truncateName(utterance)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func truncateName(s string) string {
	s = strings.TrimSpace(s)
	words := strings.Fields(s)
	if len(words) > 5 {
		words = words[:5]
	}
	name := strings.Join(words, " ")
	if name == "" {
		name = "Untitled Scene"
	}
	return name
}

package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ElementType classifies a visual element within a layout.
type ElementType string

const (
	ElementTitle    ElementType = "title"
	ElementSubtitle ElementType = "subtitle"
	ElementButton   ElementType = "button"
	ElementText     ElementType = "text"
	ElementIcon     ElementType = "icon"
	ElementImage    ElementType = "image"
)

// Number is a float64 that also accepts numeral strings during JSON
// decoding. Upstream generation is unreliable about numeric typing
// ("10" vs 10), and the pipeline's contract is to coerce, not reject.
type Number float64

// UnmarshalJSON accepts both JSON numbers and numeral strings.
func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*n = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	*n = Number(f)
	return nil
}

// MarshalJSON always emits a plain JSON number.
func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(n))
}

// Float returns the underlying float64.
func (n Number) Float() float64 { return float64(n) }

// Int truncates to int.
func (n Number) Int() int { return int(n) }

// Animation describes how a single element enters and moves, in frames.
type Animation struct {
	Type     string `json:"type"`
	Delay    Number `json:"delay"`
	Duration Number `json:"duration"`
	Easing   string `json:"easing,omitempty"`
	// Spring parameters, used when Type is "spring".
	Damping   Number `json:"damping,omitempty"`
	Stiffness Number `json:"stiffness,omitempty"`
}

// Element is one typed visual item in a layout.
type Element struct {
	ID       string      `json:"id"`
	Type     ElementType `json:"type"`
	Text     string      `json:"text,omitempty"`
	Color    string      `json:"color,omitempty"`
	FontSize Number      `json:"fontSize,omitempty"`
	Src      string      `json:"src,omitempty"`
}

// LayoutSpec is the intermediate structured description produced by step 1
// of the generation pipeline and consumed by step 2. It may be persisted
// beside a scene for re-editing and style consistency, but the generated
// source code remains authoritative.
type LayoutSpec struct {
	SceneType  string               `json:"sceneType"`
	Background string               `json:"background"`
	Elements   []Element            `json:"elements"`
	Animations map[string]Animation `json:"animations,omitempty"`
}

// AnimationFor returns the animation entry for an element, if declared.
func (l *LayoutSpec) AnimationFor(elementID string) (Animation, bool) {
	if l.Animations == nil {
		return Animation{}, false
	}
	a, ok := l.Animations[elementID]
	return a, ok
}

package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bazaar-it/bazaar-sub004/internal/config"
	"github.com/bazaar-it/bazaar-sub004/internal/types"
)

// entrance is the computed timing for one element.
type entrance struct {
	element types.Element
	anim    types.Animation
	start   int
}

// ComputeEntrances resolves each element's entrance start frame. Elements
// are ordered by declared delay; ties and overlaps are staggered so no
// two elements animate in lockstep, and no element ever starts earlier
// than its declared delay. Start times are non-decreasing in declared
// delay order.
func ComputeEntrances(l *types.LayoutSpec, stagger int) []entrance {
	entrances := make([]entrance, 0, len(l.Elements))
	for _, el := range l.Elements {
		anim, _ := l.AnimationFor(el.ID)
		entrances = append(entrances, entrance{element: el, anim: anim})
	}

	sort.SliceStable(entrances, func(i, j int) bool {
		return entrances[i].anim.Delay < entrances[j].anim.Delay
	})

	prev := -stagger
	for i := range entrances {
		start := entrances[i].anim.Delay.Int()
		if start < prev+stagger {
			start = prev + stagger
		}
		entrances[i].start = start
		prev = start
	}
	return entrances
}

// sceneDuration derives the scene length from entrance timing, with a
// configurable floor.
func sceneDuration(l *types.LayoutSpec, cfg config.PipelineConfig) int {
	duration := cfg.DefaultSceneDuration
	for _, e := range ComputeEntrances(l, cfg.StaggerFrames) {
		// Leave a second of hold time after the last entrance settles.
		end := e.start + e.anim.Duration.Int() + cfg.FPS
		if end > duration {
			duration = end
		}
	}
	return duration
}

// GenerateCode runs step 2: a pure, deterministic mapping from LayoutSpec
// to a renderable React/Remotion component. No model call is involved,
// which is what makes stored layouts replayable.
func GenerateCode(l *types.LayoutSpec, name string, duration int, cfg config.PipelineConfig) string {
	component := componentName(name)
	entrances := ComputeEntrances(l, cfg.StaggerFrames)

	var b strings.Builder
	b.WriteString("const { AbsoluteFill, interpolate, spring, useCurrentFrame, useVideoConfig } = window.Remotion;\n\n")
	fmt.Fprintf(&b, "export default function %s() {\n", component)
	b.WriteString("  const frame = useCurrentFrame();\n")
	b.WriteString("  const { fps } = useVideoConfig();\n\n")

	for i, e := range entrances {
		writeAnimationVars(&b, i, e)
	}

	b.WriteString("  return (\n")
	fmt.Fprintf(&b,
		"    <AbsoluteFill style={{ background: %q, justifyContent: \"center\", alignItems: \"center\", flexDirection: \"column\", gap: \"1.5rem\" }}>\n",
		l.Background)

	for i, e := range entrances {
		writeElement(&b, i, e)
	}

	b.WriteString("    </AbsoluteFill>\n")
	b.WriteString("  );\n")
	b.WriteString("}\n")
	return b.String()
}

// writeAnimationVars emits the per-element timing computation.
func writeAnimationVars(b *strings.Builder, i int, e entrance) {
	start := e.start
	end := e.start + e.anim.Duration.Int()

	switch e.anim.Type {
	case "spring", "scaleIn":
		damping := e.anim.Damping.Float()
		if damping <= 0 {
			damping = 12
		}
		stiffness := e.anim.Stiffness.Float()
		if stiffness <= 0 {
			stiffness = 100
		}
		fmt.Fprintf(b,
			"  const scale%d = spring({ frame: frame - %d, fps, config: { damping: %g, stiffness: %g } });\n",
			i, start, damping, stiffness)
		fmt.Fprintf(b,
			"  const opacity%d = interpolate(frame, [%d, %d], [0, 1], { extrapolateLeft: \"clamp\", extrapolateRight: \"clamp\" });\n",
			i, start, end)
	case "slideUp", "slideLeft":
		axisRange := "[40, 0]"
		fmt.Fprintf(b,
			"  const offset%d = interpolate(frame, [%d, %d], %s, { extrapolateLeft: \"clamp\", extrapolateRight: \"clamp\" });\n",
			i, start, end, axisRange)
		fmt.Fprintf(b,
			"  const opacity%d = interpolate(frame, [%d, %d], [0, 1], { extrapolateLeft: \"clamp\", extrapolateRight: \"clamp\" });\n",
			i, start, end)
	default: // fadeIn and anything unrecognized degrade to a fade
		fmt.Fprintf(b,
			"  const opacity%d = interpolate(frame, [%d, %d], [0, 1], { extrapolateLeft: \"clamp\", extrapolateRight: \"clamp\" });\n",
			i, start, end)
	}
}

// writeElement emits the JSX for one element with its animated style.
func writeElement(b *strings.Builder, i int, e entrance) {
	style := animatedStyle(i, e)

	switch e.element.Type {
	case types.ElementTitle:
		fmt.Fprintf(b, "      <h1 style={{ %s }}>%s</h1>\n", style+titleStyle(e.element), jsxEscape(e.element.Text))
	case types.ElementSubtitle:
		fmt.Fprintf(b, "      <h2 style={{ %s }}>%s</h2>\n", style+subtitleStyle(e.element), jsxEscape(e.element.Text))
	case types.ElementButton:
		fmt.Fprintf(b, "      <button style={{ %s }}>%s</button>\n", style+buttonStyle(e.element), jsxEscape(e.element.Text))
	case types.ElementIcon:
		fmt.Fprintf(b, "      <span style={{ %s fontSize: \"4rem\" }}>%s</span>\n", style, jsxEscape(e.element.Text))
	case types.ElementImage:
		fmt.Fprintf(b, "      <img src=%q style={{ %s maxWidth: \"60%%\" }} />\n", e.element.Src, style)
	default:
		fmt.Fprintf(b, "      <p style={{ %s %s }}>%s</p>\n", style, textStyle(e.element), jsxEscape(e.element.Text))
	}
}

func animatedStyle(i int, e entrance) string {
	switch e.anim.Type {
	case "spring", "scaleIn":
		return fmt.Sprintf("opacity: opacity%d, transform: `scale(${scale%d})`, ", i, i)
	case "slideUp":
		return fmt.Sprintf("opacity: opacity%d, transform: `translateY(${offset%d}px)`, ", i, i)
	case "slideLeft":
		return fmt.Sprintf("opacity: opacity%d, transform: `translateX(${offset%d}px)`, ", i, i)
	default:
		return fmt.Sprintf("opacity: opacity%d, ", i)
	}
}

func titleStyle(el types.Element) string {
	return fmt.Sprintf("color: %q, fontSize: \"%s\", fontWeight: 700, margin: 0", colorOr(el, "#ffffff"), sizeOr(el, "4rem"))
}

func subtitleStyle(el types.Element) string {
	return fmt.Sprintf("color: %q, fontSize: \"%s\", fontWeight: 400, margin: 0", colorOr(el, "#d0d0d0"), sizeOr(el, "2rem"))
}

func buttonStyle(el types.Element) string {
	return fmt.Sprintf(
		"color: \"#ffffff\", background: %q, fontSize: \"%s\", padding: \"0.75rem 2rem\", borderRadius: \"8px\", border: \"none\"",
		colorOr(el, "#3b82f6"), sizeOr(el, "1.25rem"))
}

func textStyle(el types.Element) string {
	return fmt.Sprintf("color: %q, fontSize: \"%s\", margin: 0", colorOr(el, "#e0e0e0"), sizeOr(el, "1.5rem"))
}

func colorOr(el types.Element, fallback string) string {
	if el.Color != "" {
		return el.Color
	}
	return fallback
}

func sizeOr(el types.Element, fallback string) string {
	if el.FontSize > 0 {
		return fmt.Sprintf("%dpx", el.FontSize.Int())
	}
	return fallback
}

// componentName converts a scene name into a valid identifier.
func componentName(name string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			if upperNext {
				b.WriteString(strings.ToUpper(string(r)))
				upperNext = false
			} else {
				b.WriteRune(r)
			}
		case r >= '0' && r <= '9' && b.Len() > 0:
			b.WriteRune(r)
		default:
			upperNext = true
		}
	}
	if b.Len() == 0 {
		return "GeneratedScene"
	}
	return b.String() + "Scene"
}

// jsxEscape escapes characters that would break out of JSX text content.
func jsxEscape(s string) string {
	r := strings.NewReplacer("<", "&lt;", ">", "&gt;", "{", "&#123;", "}", "&#125;")
	return r.Replace(s)
}

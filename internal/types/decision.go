package types

// ToolName identifies one of the discrete operations the router can select.
type ToolName string

const (
	ToolAddScene    ToolName = "addScene"
	ToolEditScene   ToolName = "editScene"
	ToolDeleteScene ToolName = "deleteScene"
	ToolAskSpecify  ToolName = "askSpecify"
)

// KnownTool reports whether name is one of the four registered operations.
func KnownTool(name ToolName) bool {
	switch name {
	case ToolAddScene, ToolEditScene, ToolDeleteScene, ToolAskSpecify:
		return true
	default:
		return false
	}
}

// DecisionKind tags the RouteDecision union.
type DecisionKind string

const (
	DecisionSingle   DecisionKind = "single"
	DecisionWorkflow DecisionKind = "workflow"
	DecisionClarify  DecisionKind = "clarify"
)

// AmbiguityKind classifies why the router could not commit to a tool.
type AmbiguityKind string

const (
	AmbiguitySceneSelection   AmbiguityKind = "scene-selection"
	AmbiguityActionUnclear    AmbiguityKind = "action-unclear"
	AmbiguityParameterMissing AmbiguityKind = "parameter-missing"
)

// WorkflowStep is one entry of an ordered multi-step plan. Context summarizes
// what the step must accomplish; later steps may reference earlier results
// by convention ("the scene created in step 1").
type WorkflowStep struct {
	Tool          ToolName `json:"tool"`
	Context       string   `json:"context"`
	TargetSceneID string   `json:"targetSceneId,omitempty"`
}

// RouteDecision is the tagged union produced by the intent router.
// Downstream code switches exhaustively on Kind with a mandatory
// clarify default, so an unrecognized tag never escalates to an error.
type RouteDecision struct {
	Kind DecisionKind `json:"kind"`

	// Single-tool fields (Kind == DecisionSingle).
	Tool          ToolName `json:"tool,omitempty"`
	TargetSceneID string   `json:"targetSceneId,omitempty"`

	// Workflow fields (Kind == DecisionWorkflow).
	Steps []WorkflowStep `json:"steps,omitempty"`

	// Clarify fields (Kind == DecisionClarify).
	Ambiguity AmbiguityKind `json:"ambiguityKind,omitempty"`

	// Reasoning is the router's free-text explanation. Ephemeral,
	// logged but never persisted.
	Reasoning string `json:"reasoning,omitempty"`
}

// SingleDecision builds a single-tool decision.
func SingleDecision(tool ToolName, targetSceneID string) RouteDecision {
	return RouteDecision{Kind: DecisionSingle, Tool: tool, TargetSceneID: targetSceneID}
}

// ClarifyDecision builds a clarification decision.
func ClarifyDecision(kind AmbiguityKind, reasoning string) RouteDecision {
	return RouteDecision{Kind: DecisionClarify, Ambiguity: kind, Reasoning: reasoning}
}

// Package tools implements the four discrete operations the intent
// router can select: addScene, editScene, deleteScene, and askSpecify.
// Tools are typed (structured input, structured output) and persist
// their own effects through the store; the router and workflow layers
// only decide WHICH tool runs, never how.
package tools

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bazaar-it/bazaar-sub004/internal/logging"
	"github.com/bazaar-it/bazaar-sub004/internal/types"
)

// Input is the structured input every tool receives. Fields beyond
// ProjectID and Utterance are tool-specific; tools reject inputs that
// violate their contract with ErrInvalidInput.
type Input struct {
	ProjectID string
	Utterance string

	// TargetSceneID names the scene an editScene or deleteScene call
	// operates on. Required for those tools, ignored by the rest.
	TargetSceneID string

	// Ambiguity tells askSpecify why the router could not commit.
	Ambiguity types.AmbiguityKind

	// RecentHistory carries the newest conversation turns, oldest
	// first, for tools that prompt a model.
	RecentHistory []types.Message
}

// Output is the structured result of a tool execution.
type Output struct {
	// Scene is the created or updated scene (addScene, editScene).
	Scene *types.Scene

	// DeletedSceneID names the removed scene (deleteScene).
	DeletedSceneID string

	// Question is the clarifying question to ask (askSpecify).
	Question string

	// Summary is a one-sentence user-facing description of what the
	// tool did, used when composing the assistant response.
	Summary string

	// Notice, when non-empty, explains a degraded outcome (fallback
	// scene produced, edit kept existing code) in user-facing terms.
	Notice string
}

// Tool pairs a routable operation name with its implementation.
type Tool struct {
	Name        types.ToolName
	Description string
	Execute     func(ctx context.Context, in Input) (*Output, error)
}

// Validate checks the tool's structural invariants.
func (t *Tool) Validate() error {
	if t.Name == "" {
		return ErrToolNameEmpty
	}
	if t.Execute == nil {
		return fmt.Errorf("%w: %s", ErrToolExecuteNil, t.Name)
	}
	return nil
}

// run wraps Execute with shared logging. All registry executions go
// through here.
func (t *Tool) run(ctx context.Context, in Input) (*Output, error) {
	log := logging.Tools()
	start := time.Now()

	out, err := t.Execute(ctx, in)

	log.Debug("tool executed",
		zap.String("tool", string(t.Name)),
		zap.String("projectID", in.ProjectID),
		zap.Duration("took", time.Since(start)),
		zap.Bool("ok", err == nil))
	return out, err
}

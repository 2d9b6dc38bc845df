// Package store provides the persistence adapter for projects, scenes,
// and messages. The orchestration core treats the store as an external
// transactional collaborator: every write here is a single atomic
// operation, and the core layers no locking of its own on top.
package store

import (
	"context"
	"errors"

	"github.com/bazaar-it/bazaar-sub004/internal/types"
)

var (
	// ErrNotFound is returned when a project or scene does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotPlaceholder is returned when a placeholder replacement is
	// requested for a project that is not in placeholder state.
	ErrNotPlaceholder = errors.New("project is not in placeholder state")
)

// ScenePatch describes a partial scene update. Nil fields are left
// untouched.
type ScenePatch struct {
	Name     *string
	Code     *string
	Duration *int
	Layout   *types.LayoutSpec
}

// Store is the persistence boundary of the orchestration engine.
type Store interface {
	// CreateProject persists a new project seeded with the given
	// welcome scene and marks it as being in placeholder state.
	CreateProject(ctx context.Context, title string, welcome types.Scene) (*types.Project, error)
	GetProject(ctx context.Context, projectID string) (*types.Project, error)
	GetProjectFlags(ctx context.Context, projectID string) (types.ProjectFlags, error)

	// CreateScene appends a scene at order len(scenes).
	CreateScene(ctx context.Context, projectID string, scene types.Scene) (*types.Scene, error)
	// ReplacePlaceholder atomically swaps the bootstrap scene for the
	// first real one and clears the placeholder flag. This is the only
	// multi-statement transaction in the engine.
	ReplacePlaceholder(ctx context.Context, projectID string, scene types.Scene) (*types.Scene, error)
	UpdateScene(ctx context.Context, sceneID string, patch ScenePatch) (*types.Scene, error)
	// DeleteScene removes a scene and resequences the remaining order
	// indices so they stay dense.
	DeleteScene(ctx context.Context, sceneID string) error
	ListScenes(ctx context.Context, projectID string) ([]types.Scene, error)

	// AppendMessage persists one conversation turn. Content is stored
	// verbatim and never mutated afterwards.
	AppendMessage(ctx context.Context, projectID string, role types.Role, content string) (*types.Message, error)
	// ListMessages returns the newest messages, oldest first, capped at
	// limit (0 means no cap).
	ListMessages(ctx context.Context, projectID string, limit int) ([]types.Message, error)
}

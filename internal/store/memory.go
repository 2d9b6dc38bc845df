package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bazaar-it/bazaar-sub004/internal/types"
)

// MemoryStore is an in-memory Store used by tests and by components that
// need store semantics without a database. It mirrors SQLiteStore's
// behavior, including dense order resequencing and atomic placeholder
// replacement.
type MemoryStore struct {
	mu          sync.Mutex
	projects    map[string]*types.Project
	placeholder map[string]bool
	scenes      map[string][]types.Scene // projectID -> ordered scenes
	messages    map[string][]types.Message
	seq         int64 // monotonic tiebreaker for message ordering
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects:    make(map[string]*types.Project),
		placeholder: make(map[string]bool),
		scenes:      make(map[string][]types.Scene),
		messages:    make(map[string][]types.Message),
	}
}

// CreateProject persists a project seeded with the welcome scene.
func (s *MemoryStore) CreateProject(_ context.Context, title string, welcome types.Scene) (*types.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	p := &types.Project{
		ID:        uuid.NewString(),
		Title:     title,
		Duration:  welcome.Duration,
		CreatedAt: now,
		UpdatedAt: now,
	}
	welcome.ID = uuid.NewString()
	welcome.ProjectID = p.ID
	welcome.Order = 0
	welcome.CreatedAt = now
	welcome.UpdatedAt = now

	s.projects[p.ID] = p
	s.placeholder[p.ID] = true
	s.scenes[p.ID] = []types.Scene{welcome}
	return p, nil
}

// GetProject loads a project with its aggregate duration.
func (s *MemoryStore) GetProject(_ context.Context, projectID string) (*types.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	cp := *p
	cp.Duration = types.TotalDuration(s.scenes[projectID])
	return &cp, nil
}

// GetProjectFlags reports per-project orchestration flags.
func (s *MemoryStore) GetProjectFlags(_ context.Context, projectID string) (types.ProjectFlags, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[projectID]; !ok {
		return types.ProjectFlags{}, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	return types.ProjectFlags{IsPlaceholderState: s.placeholder[projectID]}, nil
}

// CreateScene appends a scene at the next order index.
func (s *MemoryStore) CreateScene(_ context.Context, projectID string, scene types.Scene) (*types.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[projectID]; !ok {
		return nil, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}

	now := time.Now().UTC()
	scene.ID = uuid.NewString()
	scene.ProjectID = projectID
	scene.Order = len(s.scenes[projectID])
	scene.CreatedAt = now
	scene.UpdatedAt = now

	s.scenes[projectID] = append(s.scenes[projectID], scene)
	s.projects[projectID].UpdatedAt = now
	return &scene, nil
}

// ReplacePlaceholder swaps the bootstrap scene for the first real scene.
func (s *MemoryStore) ReplacePlaceholder(_ context.Context, projectID string, scene types.Scene) (*types.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[projectID]; !ok {
		return nil, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	if !s.placeholder[projectID] {
		return nil, ErrNotPlaceholder
	}

	now := time.Now().UTC()
	scene.ID = uuid.NewString()
	scene.ProjectID = projectID
	scene.Order = 0
	scene.CreatedAt = now
	scene.UpdatedAt = now

	s.scenes[projectID] = []types.Scene{scene}
	s.placeholder[projectID] = false
	s.projects[projectID].UpdatedAt = now
	return &scene, nil
}

// UpdateScene applies a partial update.
func (s *MemoryStore) UpdateScene(_ context.Context, sceneID string, patch ScenePatch) (*types.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for projectID, list := range s.scenes {
		for i := range list {
			if list[i].ID != sceneID {
				continue
			}
			if patch.Name != nil {
				list[i].Name = *patch.Name
			}
			if patch.Code != nil {
				list[i].Code = *patch.Code
			}
			if patch.Duration != nil {
				list[i].Duration = *patch.Duration
			}
			if patch.Layout != nil {
				list[i].Layout = patch.Layout
			}
			list[i].UpdatedAt = time.Now().UTC()
			s.scenes[projectID] = list
			cp := list[i]
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("scene %s: %w", sceneID, ErrNotFound)
}

// DeleteScene removes a scene and keeps order indices dense.
func (s *MemoryStore) DeleteScene(_ context.Context, sceneID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for projectID, list := range s.scenes {
		for i := range list {
			if list[i].ID != sceneID {
				continue
			}
			list = append(list[:i], list[i+1:]...)
			for j := range list {
				list[j].Order = j
			}
			s.scenes[projectID] = list
			return nil
		}
	}
	return fmt.Errorf("scene %s: %w", sceneID, ErrNotFound)
}

// ListScenes returns a copy of the project's scenes in order.
func (s *MemoryStore) ListScenes(_ context.Context, projectID string) ([]types.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.scenes[projectID]
	out := make([]types.Scene, len(list))
	copy(out, list)
	return out, nil
}

// AppendMessage persists one conversation turn verbatim.
func (s *MemoryStore) AppendMessage(_ context.Context, projectID string, role types.Role, content string) (*types.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[projectID]; !ok {
		return nil, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}

	s.seq++
	m := types.Message{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC().Add(time.Duration(s.seq) * time.Nanosecond),
	}
	s.messages[projectID] = append(s.messages[projectID], m)
	return &m, nil
}

// ListMessages returns the newest messages oldest-first.
func (s *MemoryStore) ListMessages(_ context.Context, projectID string, limit int) ([]types.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.messages[projectID]
	out := make([]types.Message, len(list))
	copy(out, list)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

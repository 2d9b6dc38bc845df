// Package types defines the core domain model shared across the orchestration
// engine: projects, scenes, messages, routing decisions, and layout specs.
package types

import "time"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Project is a persisted container of ordered scenes plus metadata.
// Its duration always equals the sum of its scenes' durations once
// scenes exist.
type Project struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Background string    `json:"background,omitempty"`
	Duration   int       `json:"duration"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Scene is one unit of generated content. Order indices are unique and
// dense within a project. The generated source code is authoritative;
// Layout is a weak, optional reference to the LayoutSpec it was built from.
type Scene struct {
	ID        string      `json:"id"`
	ProjectID string      `json:"projectId"`
	Order     int         `json:"order"`
	Name      string      `json:"name"`
	Code      string      `json:"code"`
	Layout    *LayoutSpec `json:"layout,omitempty"`
	Duration  int         `json:"duration"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Message records one turn of the conversation. Content is immutable once
// persisted and always equals the verbatim user or assistant text;
// scene-reference resolution travels as derived context, never by
// rewriting Content.
type Message struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProjectFlags carries per-project state the tool layer needs to make
// structural decisions.
type ProjectFlags struct {
	// IsPlaceholderState is true while the project's sole scene is the
	// welcome bootstrap scene. The first real AddScene replaces it
	// atomically instead of appending.
	IsPlaceholderState bool `json:"isPlaceholderState"`
}

// TotalDuration sums scene durations.
func TotalDuration(scenes []Scene) int {
	total := 0
	for _, s := range scenes {
		total += s.Duration
	}
	return total
}

package api

import (
	"github.com/bazaar-it/bazaar-sub004/internal/types"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

// CreateProjectRequest is the body of POST /projects.
type CreateProjectRequest struct {
	Title string `json:"title"`
}

// ProjectResponse is a project plus its current scene list.
type ProjectResponse struct {
	Project *types.Project `json:"project"`
	Scenes  []types.Scene  `json:"scenes"`
}

// ChatRequest is the body of POST /projects/{projectID}/chat.
// SelectedSceneID optionally carries the scene selected in the client
// editor; the router uses it to resolve ambiguous targets.
type ChatRequest struct {
	Message         string `json:"message"`
	SelectedSceneID string `json:"selectedSceneId,omitempty"`
}

// ChatResponse is one processed conversation turn. NeedsClarification
// lets clients branch without matching on the decision kind.
type ChatResponse struct {
	Reply              string        `json:"reply"`
	DecisionKind       string        `json:"decisionKind"`
	NeedsClarification bool          `json:"needsClarification"`
	Scenes             []types.Scene `json:"scenes"`
}

// MessagesResponse lists conversation turns, oldest first.
type MessagesResponse struct {
	Messages []types.Message `json:"messages"`
}

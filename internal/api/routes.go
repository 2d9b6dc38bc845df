package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bazaar-it/bazaar-sub004/internal/store"
	"github.com/bazaar-it/bazaar-sub004/internal/types"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/healthz", healthHandler(cfg))
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/projects", createProjectHandler(cfg))
	r.Get("/projects/{projectID}", getProjectHandler(cfg))
	r.Get("/projects/{projectID}/messages", listMessagesHandler(cfg))
	r.Post("/projects/{projectID}/chat", chatHandler(cfg))

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Version,
			UptimeS: int64(time.Since(cfg.StartTime).Seconds()),
		})
	}
}

func createProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid JSON body", "BAD_REQUEST")
			return
		}

		project, err := cfg.Orchestrator.CreateProject(r.Context(), strings.TrimSpace(req.Title))
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to create project", "INTERNAL_ERROR")
			return
		}

		scenes, err := cfg.Store.ListScenes(r.Context(), project.ID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to load scenes", "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusCreated, ProjectResponse{Project: project, Scenes: scenes})
	}
}

func getProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")

		project, err := cfg.Store.GetProject(r.Context(), projectID)
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "project not found", "NOT_FOUND")
			return
		}
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to load project", "INTERNAL_ERROR")
			return
		}

		scenes, err := cfg.Store.ListScenes(r.Context(), projectID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to load scenes", "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusOK, ProjectResponse{Project: project, Scenes: scenes})
	}
}

func listMessagesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")

		if _, err := cfg.Store.GetProject(r.Context(), projectID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				WriteError(w, http.StatusNotFound, "project not found", "NOT_FOUND")
				return
			}
			WriteError(w, http.StatusInternalServerError, "failed to load project", "INTERNAL_ERROR")
			return
		}

		messages, err := cfg.Store.ListMessages(r.Context(), projectID, 0)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to load messages", "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusOK, MessagesResponse{Messages: messages})
	}
}

func chatHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid JSON body", "BAD_REQUEST")
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			WriteError(w, http.StatusBadRequest, "message is required", "BAD_REQUEST")
			return
		}

		reply, err := cfg.Orchestrator.ProcessUtterance(r.Context(), projectID, req.Message, req.SelectedSceneID)
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "project not found", "NOT_FOUND")
			return
		}
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to process message", "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusOK, ChatResponse{
			Reply:              reply.Message.Content,
			DecisionKind:       string(reply.Decision.Kind),
			NeedsClarification: reply.Decision.Kind == types.DecisionClarify,
			Scenes:             reply.Scenes,
		})
	}
}

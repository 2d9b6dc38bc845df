package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/bazaar-it/bazaar-sub004/internal/pipeline"
	"github.com/bazaar-it/bazaar-sub004/internal/store"
	"github.com/bazaar-it/bazaar-sub004/internal/types"
)

// NewEditScene builds the editScene tool. It requires a resolved target
// scene whose code exists; routing to editScene without one is a
// contract violation, not a user-level ambiguity.
func NewEditScene(st store.Store, gen *pipeline.Generator) *Tool {
	return &Tool{
		Name:        types.ToolEditScene,
		Description: "Apply the requested change to an existing scene.",
		Execute: func(ctx context.Context, in Input) (*Output, error) {
			if strings.TrimSpace(in.Utterance) == "" {
				return nil, fmt.Errorf("%w: editScene requires an utterance", ErrInvalidInput)
			}
			if in.TargetSceneID == "" {
				return nil, fmt.Errorf("%w: editScene requires a target scene", ErrInvalidInput)
			}

			target, err := findScene(ctx, st, in.ProjectID, in.TargetSceneID)
			if err != nil {
				return nil, err
			}
			if strings.TrimSpace(target.Code) == "" {
				return nil, fmt.Errorf("%w: target scene %s has no code", ErrInvalidInput, target.ID)
			}

			result, err := gen.Edit(ctx, pipeline.EditRequest{
				Utterance:        in.Utterance,
				ExistingCode:     target.Code,
				ExistingName:     target.Name,
				ExistingDuration: target.Duration,
				RecentHistory:    in.RecentHistory,
			})
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
			}

			if result.KeptExisting {
				// Nothing changed on disk; report the outcome without a write.
				return &Output{
					Scene:   target,
					Summary: result.ChangesSummary,
					Notice:  result.ChangesSummary,
				}, nil
			}

			updated, err := st.UpdateScene(ctx, target.ID, store.ScenePatch{
				Code:     &result.Code,
				Duration: &result.Duration,
			})
			if err != nil {
				return nil, err
			}

			return &Output{
				Scene:   updated,
				Summary: result.ChangesSummary,
			}, nil
		},
	}
}

// findScene resolves a scene by ID within a project.
func findScene(ctx context.Context, st store.Store, projectID, sceneID string) (*types.Scene, error) {
	scenes, err := st.ListScenes(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for i := range scenes {
		if scenes[i].ID == sceneID {
			return &scenes[i], nil
		}
	}
	return nil, fmt.Errorf("%w: scene %s", store.ErrNotFound, sceneID)
}

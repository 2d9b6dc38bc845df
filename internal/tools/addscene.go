package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bazaar-it/bazaar-sub004/internal/pipeline"
	"github.com/bazaar-it/bazaar-sub004/internal/store"
	"github.com/bazaar-it/bazaar-sub004/internal/types"
)

// NewAddScene builds the addScene tool. It runs the full generation
// pipeline and appends the result to the project's scene list — unless
// the project is still in placeholder state, in which case the welcome
// scene is atomically replaced and the list length stays 1.
func NewAddScene(st store.Store, gen *pipeline.Generator) *Tool {
	return &Tool{
		Name:        types.ToolAddScene,
		Description: "Generate a new scene from the request and add it to the project.",
		Execute: func(ctx context.Context, in Input) (*Output, error) {
			if strings.TrimSpace(in.Utterance) == "" {
				return nil, fmt.Errorf("%w: addScene requires an utterance", ErrInvalidInput)
			}

			scenes, err := st.ListScenes(ctx, in.ProjectID)
			if err != nil {
				return nil, err
			}
			flags, err := st.GetProjectFlags(ctx, in.ProjectID)
			if err != nil {
				return nil, err
			}

			req := pipeline.Request{Utterance: in.Utterance}
			if !flags.IsPlaceholderState {
				req.PriorStyle = newestLayout(scenes)
			}

			result, err := gen.Generate(ctx, req)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
			}

			scene := types.Scene{
				Name:     result.Name,
				Code:     result.Code,
				Layout:   result.Layout,
				Duration: result.Duration,
			}

			var created *types.Scene
			if flags.IsPlaceholderState {
				created, err = st.ReplacePlaceholder(ctx, in.ProjectID, scene)
				if errors.Is(err, store.ErrNotPlaceholder) {
					// The flag was cleared between the read and the swap;
					// append instead.
					created, err = st.CreateScene(ctx, in.ProjectID, scene)
				}
			} else {
				created, err = st.CreateScene(ctx, in.ProjectID, scene)
			}
			if err != nil {
				return nil, err
			}

			return &Output{
				Scene:   created,
				Summary: fmt.Sprintf("Added %q as scene %d.", created.Name, created.Order+1),
				Notice:  result.Notice,
			}, nil
		},
	}
}

// newestLayout returns the layout of the most recently created scene
// that still carries one, so new scenes inherit the project's style.
func newestLayout(scenes []types.Scene) *types.LayoutSpec {
	var newest *types.Scene
	for i := range scenes {
		s := &scenes[i]
		if s.Layout == nil {
			continue
		}
		if newest == nil || s.CreatedAt.After(newest.CreatedAt) {
			newest = s
		}
	}
	if newest == nil {
		return nil
	}
	return newest.Layout
}

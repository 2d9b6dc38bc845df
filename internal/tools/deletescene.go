package tools

import (
	"context"
	"fmt"

	"github.com/bazaar-it/bazaar-sub004/internal/store"
	"github.com/bazaar-it/bazaar-sub004/internal/types"
)

// NewDeleteScene builds the deleteScene tool. It is the one tool with
// no generation step: a resolved target in, a removal plus order
// resequencing out.
func NewDeleteScene(st store.Store) *Tool {
	return &Tool{
		Name:        types.ToolDeleteScene,
		Description: "Remove a scene from the project.",
		Execute: func(ctx context.Context, in Input) (*Output, error) {
			if in.TargetSceneID == "" {
				return nil, fmt.Errorf("%w: deleteScene requires a target scene", ErrInvalidInput)
			}

			target, err := findScene(ctx, st, in.ProjectID, in.TargetSceneID)
			if err != nil {
				return nil, err
			}
			if err := st.DeleteScene(ctx, target.ID); err != nil {
				return nil, err
			}

			return &Output{
				DeletedSceneID: target.ID,
				Summary:        fmt.Sprintf("Deleted %q.", target.Name),
			}, nil
		},
	}
}

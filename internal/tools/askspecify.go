package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/bazaar-it/bazaar-sub004/internal/store"
	"github.com/bazaar-it/bazaar-sub004/internal/types"
)

// NewAskSpecify builds the askSpecify tool. It never calls a model: the
// question is composed from the ambiguity kind and the project's scene
// list, so a clarification turn is always cheap and always succeeds.
func NewAskSpecify(st store.Store) *Tool {
	return &Tool{
		Name:        types.ToolAskSpecify,
		Description: "Ask the user a clarifying question instead of acting.",
		Execute: func(ctx context.Context, in Input) (*Output, error) {
			question := ""
			switch in.Ambiguity {
			case types.AmbiguitySceneSelection:
				scenes, err := st.ListScenes(ctx, in.ProjectID)
				if err != nil {
					return nil, err
				}
				question = sceneSelectionQuestion(scenes)
			case types.AmbiguityParameterMissing:
				question = "Could you give me a bit more detail? For example, which value or style you'd like."
			default:
				// action-unclear, and any kind added later.
				question = "I'm not sure what you'd like me to do. Would you like to add a new scene, or change an existing one?"
			}

			return &Output{Question: question, Summary: question}, nil
		},
	}
}

// sceneSelectionQuestion enumerates the project's scenes so the user
// can answer by number or by name.
func sceneSelectionQuestion(scenes []types.Scene) string {
	if len(scenes) == 0 {
		return "There are no scenes in this project yet. Would you like me to create one?"
	}

	var b strings.Builder
	b.WriteString("Which scene do you mean?")
	for _, s := range scenes {
		fmt.Fprintf(&b, "\n%d. %s", s.Order+1, s.Name)
	}
	return b.String()
}

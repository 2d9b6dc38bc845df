package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaar-it/bazaar-sub004/internal/types"
)

// openStores builds each Store implementation; every test below runs
// against both so the memory store cannot drift from the SQLite one.
func openStores(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func welcome() types.Scene {
	return types.Scene{Name: "Welcome", Code: "export default function WelcomeScene() { return null; }", Duration: 120}
}

func scene(name string) types.Scene {
	return types.Scene{Name: name, Code: "export default function S() { return null; }", Duration: 150}
}

func TestCreateProjectStartsInPlaceholderState(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p, err := st.CreateProject(ctx, "Demo", welcome())
			require.NoError(t, err)

			flags, err := st.GetProjectFlags(ctx, p.ID)
			require.NoError(t, err)
			assert.True(t, flags.IsPlaceholderState)

			scenes, err := st.ListScenes(ctx, p.ID)
			require.NoError(t, err)
			require.Len(t, scenes, 1)
			assert.Equal(t, "Welcome", scenes[0].Name)
			assert.Equal(t, 0, scenes[0].Order)
		})
	}
}

func TestReplacePlaceholderKeepsSingleScene(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p, err := st.CreateProject(ctx, "Demo", welcome())
			require.NoError(t, err)

			created, err := st.ReplacePlaceholder(ctx, p.ID, scene("Hero"))
			require.NoError(t, err)
			assert.Equal(t, 0, created.Order)

			scenes, err := st.ListScenes(ctx, p.ID)
			require.NoError(t, err)
			require.Len(t, scenes, 1)
			assert.Equal(t, "Hero", scenes[0].Name)

			flags, err := st.GetProjectFlags(ctx, p.ID)
			require.NoError(t, err)
			assert.False(t, flags.IsPlaceholderState)

			_, err = st.ReplacePlaceholder(ctx, p.ID, scene("Again"))
			assert.ErrorIs(t, err, ErrNotPlaceholder)
		})
	}
}

func TestCreateSceneAppendsDenseOrders(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p, err := st.CreateProject(ctx, "Demo", welcome())
			require.NoError(t, err)
			_, err = st.ReplacePlaceholder(ctx, p.ID, scene("A"))
			require.NoError(t, err)

			for _, n := range []string{"B", "C", "D"} {
				_, err = st.CreateScene(ctx, p.ID, scene(n))
				require.NoError(t, err)
			}

			scenes, err := st.ListScenes(ctx, p.ID)
			require.NoError(t, err)
			require.Len(t, scenes, 4)
			for i, s := range scenes {
				assert.Equal(t, i, s.Order)
			}
		})
	}
}

func TestDeleteSceneResequences(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p, err := st.CreateProject(ctx, "Demo", welcome())
			require.NoError(t, err)
			a, err := st.ReplacePlaceholder(ctx, p.ID, scene("A"))
			require.NoError(t, err)
			b, err := st.CreateScene(ctx, p.ID, scene("B"))
			require.NoError(t, err)
			_, err = st.CreateScene(ctx, p.ID, scene("C"))
			require.NoError(t, err)

			require.NoError(t, st.DeleteScene(ctx, b.ID))

			scenes, err := st.ListScenes(ctx, p.ID)
			require.NoError(t, err)
			require.Len(t, scenes, 2)
			assert.Equal(t, "A", scenes[0].Name)
			assert.Equal(t, 0, scenes[0].Order)
			assert.Equal(t, "C", scenes[1].Name)
			assert.Equal(t, 1, scenes[1].Order)

			assert.ErrorIs(t, st.DeleteScene(ctx, b.ID), ErrNotFound)

			// Deleting the head shifts every remaining row down one.
			require.NoError(t, st.DeleteScene(ctx, a.ID))
			scenes, err = st.ListScenes(ctx, p.ID)
			require.NoError(t, err)
			require.Len(t, scenes, 1)
			assert.Equal(t, "C", scenes[0].Name)
			assert.Equal(t, 0, scenes[0].Order)
		})
	}
}

func TestUpdateScenePartialPatch(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p, err := st.CreateProject(ctx, "Demo", welcome())
			require.NoError(t, err)
			created, err := st.ReplacePlaceholder(ctx, p.ID, scene("A"))
			require.NoError(t, err)

			newDuration := 90
			updated, err := st.UpdateScene(ctx, created.ID, ScenePatch{Duration: &newDuration})
			require.NoError(t, err)
			assert.Equal(t, 90, updated.Duration)
			assert.Equal(t, created.Code, updated.Code, "unpatched fields stay untouched")
			assert.Equal(t, created.Name, updated.Name)

			_, err = st.UpdateScene(ctx, "missing", ScenePatch{Duration: &newDuration})
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestProjectDurationTracksScenes(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p, err := st.CreateProject(ctx, "Demo", welcome())
			require.NoError(t, err)
			_, err = st.ReplacePlaceholder(ctx, p.ID, scene("A"))
			require.NoError(t, err)
			_, err = st.CreateScene(ctx, p.ID, scene("B"))
			require.NoError(t, err)

			got, err := st.GetProject(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, 300, got.Duration)
		})
	}
}

func TestMessagesVerbatimAndOrdered(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p, err := st.CreateProject(ctx, "Demo", welcome())
			require.NoError(t, err)

			content := `make it "pop", and fast\n`
			_, err = st.AppendMessage(ctx, p.ID, types.RoleUser, content)
			require.NoError(t, err)
			_, err = st.AppendMessage(ctx, p.ID, types.RoleAssistant, "Done.")
			require.NoError(t, err)
			_, err = st.AppendMessage(ctx, p.ID, types.RoleUser, "thanks")
			require.NoError(t, err)

			all, err := st.ListMessages(ctx, p.ID, 0)
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, content, all[0].Content)
			assert.Equal(t, types.RoleAssistant, all[1].Role)

			capped, err := st.ListMessages(ctx, p.ID, 2)
			require.NoError(t, err)
			require.Len(t, capped, 2)
			assert.Equal(t, "Done.", capped[0].Content, "cap keeps the newest messages, oldest first")
			assert.Equal(t, "thanks", capped[1].Content)
		})
	}
}

func TestUnknownProjectErrors(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := st.GetProject(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = st.GetProjectFlags(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = st.ReplacePlaceholder(ctx, "missing", scene("A"))
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, st.DeleteScene(ctx, "missing"), ErrNotFound)
		})
	}
}

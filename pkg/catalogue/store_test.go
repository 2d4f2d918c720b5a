package catalogue_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apigovau/service-catalogue/pkg/auth"
	"github.com/apigovau/service-catalogue/pkg/catalogue"
	"github.com/apigovau/service-catalogue/pkg/catalogue/adapters/memory"
)

// gateFunc adapts a function to the auth.Gate interface.
type gateFunc func(ctx context.Context, creds auth.Credentials, space string) bool

func (f gateFunc) CanWrite(ctx context.Context, creds auth.Credentials, space string) bool {
	return f(ctx, creds, space)
}

func allowAll() gateFunc {
	return func(context.Context, auth.Credentials, string) bool { return true }
}

func denyAll() gateFunc {
	return func(context.Context, auth.Credentials, string) bool { return false }
}

// allowSpaces permits writes only to the listed spaces and records every
// space the store asked about.
func allowSpaces(asked *[]string, spaces ...string) gateFunc {
	allowed := make(map[string]bool, len(spaces))
	for _, s := range spaces {
		allowed[s] = true
	}
	return func(_ context.Context, _ auth.Credentials, space string) bool {
		*asked = append(*asked, space)
		return allowed[space]
	}
}

func TestStore_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with default content in the given space", func(t *testing.T) {
		store := catalogue.NewStore(memory.NewRepository(), allowAll(), nil, nil)

		sd, err := store.Create(ctx, auth.Credentials{}, "team1")
		require.NoError(t, err)

		assert.Equal(t, "team1", sd.Metadata.Space)
		require.Len(t, sd.History, 1)
		assert.Equal(t, catalogue.DefaultServiceName, sd.CurrentContent().Name)
		assert.Empty(t, sd.Tags)
	})

	t.Run("denial persists nothing", func(t *testing.T) {
		repo := memory.NewRepository()
		store := catalogue.NewStore(repo, denyAll(), nil, nil)

		_, err := store.Create(ctx, auth.Credentials{}, "team1")
		require.ErrorIs(t, err, catalogue.ErrForbidden)

		docs, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})
}

func TestStore_CreateReviseFetch(t *testing.T) {
	ctx := context.Background()
	store := catalogue.NewStore(
		memory.NewRepository(), allowAll(), []string{"team1"}, nil)

	sd, err := store.CreateWithContent(ctx, auth.Credentials{},
		catalogue.Content{Name: "A", Description: "d", Pages: []string{"p1"}},
		"team1")
	require.NoError(t, err)

	_, err = store.Revise(ctx, auth.Credentials{}, sd.ID,
		catalogue.Content{Name: "A2", Description: "d", Pages: []string{"p1"}})
	require.NoError(t, err)

	content, err := store.Fetch(ctx, sd.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "A2", content.Name)

	docs, err := store.BackupAll(ctx, auth.Credentials{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Len(t, docs[0].History, 2)
	assert.Equal(t, "A", docs[0].History[0].Name)
}

func TestStore_Revise(t *testing.T) {
	ctx := context.Background()

	t.Run("gated against the document's current space", func(t *testing.T) {
		var asked []string
		repo := memory.NewRepository()
		store := catalogue.NewStore(
			repo, allowSpaces(&asked, "team1"), nil, nil)

		sd, err := store.Create(ctx, auth.Credentials{}, "team1")
		require.NoError(t, err)

		asked = nil
		_, err = store.Revise(ctx, auth.Credentials{}, sd.ID,
			catalogue.Content{Name: "B"})
		require.NoError(t, err)
		assert.Equal(t, []string{"team1"}, asked)
	})

	t.Run("denial leaves history untouched", func(t *testing.T) {
		repo := memory.NewRepository()
		allowStore := catalogue.NewStore(repo, allowAll(), nil, nil)
		denyStore := catalogue.NewStore(repo, denyAll(), nil, nil)

		sd, err := allowStore.Create(ctx, auth.Credentials{}, "team1")
		require.NoError(t, err)

		_, err = denyStore.Revise(ctx, auth.Credentials{}, sd.ID,
			catalogue.Content{Name: "B"})
		require.ErrorIs(t, err, catalogue.ErrForbidden)

		stored, err := repo.FindByID(ctx, sd.ID)
		require.NoError(t, err)
		assert.Len(t, stored.History, 1)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		store := catalogue.NewStore(memory.NewRepository(), allowAll(), nil, nil)
		_, err := store.Revise(ctx, auth.Credentials{}, "no-such-id",
			catalogue.Content{Name: "B"})
		require.ErrorIs(t, err, catalogue.ErrNotFound)
	})

	t.Run("concurrent revisions are never lost", func(t *testing.T) {
		store := catalogue.NewStore(memory.NewRepository(), allowAll(), nil, nil)

		sd, err := store.Create(ctx, auth.Credentials{}, "team1")
		require.NoError(t, err)

		const writers = 20
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := store.Revise(ctx, auth.Credentials{}, sd.ID,
					catalogue.Content{Name: fmt.Sprintf("rev-%d", i)})
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		docs, err := store.BackupAll(ctx, auth.Credentials{})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Len(t, docs[0].History, writers+1)
	})
}

func TestStore_SetMetadata(t *testing.T) {
	ctx := context.Background()

	t.Run("gated against the admin space", func(t *testing.T) {
		var asked []string
		repo := memory.NewRepository()
		setup := catalogue.NewStore(repo, allowAll(), nil, nil)
		sd, err := setup.Create(ctx, auth.Credentials{}, "team1")
		require.NoError(t, err)

		store := catalogue.NewStore(
			repo, allowSpaces(&asked, catalogue.AdminSpace), nil, nil)
		updated, err := store.SetMetadata(ctx, auth.Credentials{}, sd.ID,
			catalogue.Metadata{Space: "team2"})
		require.NoError(t, err)
		assert.Equal(t, "team2", updated.Space)
		assert.Equal(t, []string{catalogue.AdminSpace}, asked)
	})

	t.Run("space reassignment moves the revise boundary", func(t *testing.T) {
		var asked []string
		repo := memory.NewRepository()
		setup := catalogue.NewStore(repo, allowAll(), nil, nil)
		sd, err := setup.Create(ctx, auth.Credentials{}, "team1")
		require.NoError(t, err)
		_, err = setup.SetMetadata(ctx, auth.Credentials{}, sd.ID,
			catalogue.Metadata{Space: "team2"})
		require.NoError(t, err)

		// A gate that only allows team1 must now deny revisions.
		store := catalogue.NewStore(
			repo, allowSpaces(&asked, "team1"), nil, nil)
		_, err = store.Revise(ctx, auth.Credentials{}, sd.ID,
			catalogue.Content{Name: "B"})
		require.ErrorIs(t, err, catalogue.ErrForbidden)
		assert.Equal(t, []string{"team2"}, asked)
	})

	t.Run("history is untouched", func(t *testing.T) {
		repo := memory.NewRepository()
		store := catalogue.NewStore(repo, allowAll(), nil, nil)
		sd, err := store.Create(ctx, auth.Credentials{}, "team1")
		require.NoError(t, err)

		_, err = store.SetMetadata(ctx, auth.Credentials{}, sd.ID,
			catalogue.Metadata{Space: "team2"})
		require.NoError(t, err)

		stored, err := repo.FindByID(ctx, sd.ID)
		require.NoError(t, err)
		assert.Len(t, stored.History, 1)
	})

	t.Run("denied for non-admin", func(t *testing.T) {
		store := catalogue.NewStore(memory.NewRepository(), denyAll(), nil, nil)
		_, err := store.SetMetadata(ctx, auth.Credentials{}, "any",
			catalogue.Metadata{Space: "team2"})
		require.ErrorIs(t, err, catalogue.ErrForbidden)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		store := catalogue.NewStore(memory.NewRepository(), allowAll(), nil, nil)
		_, err := store.SetMetadata(ctx, auth.Credentials{}, "no-such-id",
			catalogue.Metadata{Space: "team2"})
		require.ErrorIs(t, err, catalogue.ErrNotFound)
	})
}

func TestStore_Fetch(t *testing.T) {
	ctx := context.Background()
	store := catalogue.NewStore(
		memory.NewRepository(), allowAll(), []string{"public"}, nil)

	restricted, err := store.Create(ctx, auth.Credentials{}, "secret-team")
	require.NoError(t, err)
	public, err := store.Create(ctx, auth.Credentials{}, "public")
	require.NoError(t, err)

	t.Run("missing and restricted are indistinguishable", func(t *testing.T) {
		_, errMissing := store.Fetch(ctx, "no-such-id", false)
		_, errRestricted := store.Fetch(ctx, restricted.ID, false)

		require.ErrorIs(t, errMissing, catalogue.ErrUnauthorizedToView)
		require.ErrorIs(t, errRestricted, catalogue.ErrUnauthorizedToView)
		assert.Equal(t, errMissing, errRestricted)
	})

	t.Run("public space is visible unprivileged", func(t *testing.T) {
		_, err := store.Fetch(ctx, public.ID, false)
		assert.NoError(t, err)
	})

	t.Run("privileged sees restricted spaces", func(t *testing.T) {
		_, err := store.Fetch(ctx, restricted.ID, true)
		assert.NoError(t, err)
	})
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	store := catalogue.NewStore(
		memory.NewRepository(), allowAll(), []string{"public"}, nil)

	_, err := store.Create(ctx, auth.Credentials{}, "secret-team")
	require.NoError(t, err)
	pub, err := store.Create(ctx, auth.Credentials{}, "public")
	require.NoError(t, err)

	t.Run("unprivileged sees only public spaces", func(t *testing.T) {
		summaries, err := store.List(ctx, false)
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, pub.ID, summaries[0].ID)
	})

	t.Run("privileged sees everything", func(t *testing.T) {
		summaries, err := store.List(ctx, true)
		require.NoError(t, err)
		assert.Len(t, summaries, 2)
	})

	t.Run("summary carries current content", func(t *testing.T) {
		_, err := store.Revise(ctx, auth.Credentials{}, pub.ID,
			catalogue.Content{Name: "renamed"})
		require.NoError(t, err)

		summaries, err := store.List(ctx, false)
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, "renamed", summaries[0].Name)
	})
}

func TestStore_BackupAll(t *testing.T) {
	ctx := context.Background()

	t.Run("requires admin authorization", func(t *testing.T) {
		var asked []string
		store := catalogue.NewStore(
			memory.NewRepository(), allowSpaces(&asked), nil, nil)

		_, err := store.BackupAll(ctx, auth.Credentials{})
		require.ErrorIs(t, err, catalogue.ErrForbidden)
		assert.Equal(t, []string{catalogue.AdminSpace}, asked)
	})
}

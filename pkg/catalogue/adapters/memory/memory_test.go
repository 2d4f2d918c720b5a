package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apigovau/service-catalogue/pkg/catalogue"
)

func TestRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	t.Run("unknown id returns ErrNotFound", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "missing")
		require.ErrorIs(t, err, catalogue.ErrNotFound)
	})

	t.Run("round-trips a saved document", func(t *testing.T) {
		sd := catalogue.NewServiceDescription(
			catalogue.Content{Name: "A", Pages: []string{"p1"}}, "team1")
		require.NoError(t, repo.SaveOrReplace(ctx, sd))

		got, err := repo.FindByID(ctx, sd.ID)
		require.NoError(t, err)
		assert.Equal(t, sd.ID, got.ID)
		assert.Equal(t, sd.History, got.History)
	})
}

func TestRepository_DeepCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	sd := catalogue.NewServiceDescription(
		catalogue.Content{Name: "A", Pages: []string{"p1"}}, "team1")
	require.NoError(t, repo.SaveOrReplace(ctx, sd))

	t.Run("mutating the saved aggregate does not affect the store", func(t *testing.T) {
		sd.Revise(catalogue.Content{Name: "mutated"})

		got, err := repo.FindByID(ctx, sd.ID)
		require.NoError(t, err)
		assert.Len(t, got.History, 1)
	})

	t.Run("mutating a returned aggregate does not affect the store", func(t *testing.T) {
		got, err := repo.FindByID(ctx, sd.ID)
		require.NoError(t, err)
		got.History[0].Pages[0] = "mutated"
		got.Tags = append(got.Tags, "mutated")

		again, err := repo.FindByID(ctx, sd.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"p1"}, again.History[0].Pages)
		assert.Empty(t, again.Tags)
	})
}

func TestRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	first := catalogue.NewServiceDescription(catalogue.Content{Name: "first"}, "s")
	second := catalogue.NewServiceDescription(catalogue.Content{Name: "second"}, "s")
	second.CreatedAt = first.CreatedAt.Add(time.Second)

	require.NoError(t, repo.SaveOrReplace(ctx, second))
	require.NoError(t, repo.SaveOrReplace(ctx, first))

	docs, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, first.ID, docs[0].ID, "creation order")
	assert.Equal(t, second.ID, docs[1].ID)
}

package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/herostore/pkg/types"
)

const dbJSON = `{
  "heroes": [
    {"id": "HeroAslaug", "name": "Aslaug", "description": "warrior queen"},
    {"id": "HeroBjorn", "name": "Bjorn Ironside", "description": "king of 9th century Sweden"}
  ],
  "villains": [
    {"id": "VillainMadelyn", "name": "Madelyn", "description": "the cat whisperer"}
  ],
  "boys": [
    {"name": "Barry", "description": "the leader"}
  ],
  "sidekicks": [
    {"id": "ignored", "name": "not registered"}
  ]
}`

func writeDBJSON(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(dbJSON), 0o644))
	return path
}

func TestSeedFile(t *testing.T) {
	ctx := context.Background()
	b, _ := setupBackend(t)
	path := writeDBJSON(t)

	inserted, err := b.SeedFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"heroes": 2, "villains": 1, "boys": 1}, inserted)

	heroes, err := b.List(ctx, types.CollectionHeroes)
	require.NoError(t, err)
	assert.Equal(t, "HeroAslaug", heroes[0].ID)
	assert.Equal(t, "HeroBjorn", heroes[1].ID)

	boys, err := b.List(ctx, types.CollectionBoys)
	require.NoError(t, err)
	require.Len(t, boys, 1)
	assert.NotEmpty(t, boys[0].ID, "missing ids are generated")

	t.Run("seeding twice skips existing ids", func(t *testing.T) {
		again, err := b.SeedFile(ctx, path)
		require.NoError(t, err)
		assert.Zero(t, again[types.CollectionHeroes])
		assert.Zero(t, again[types.CollectionVillains])
		// Boys without ids get fresh ones every time.
		assert.Equal(t, 1, again[types.CollectionBoys])
	})
}

func TestSeedErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		b, _ := setupBackend(t)
		_, err := b.SeedFile(ctx, filepath.Join(t.TempDir(), "missing.json"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed file", func(t *testing.T) {
		b, _ := setupBackend(t)
		path := filepath.Join(t.TempDir(), "db.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
		_, err := b.SeedFile(ctx, path)
		assert.Error(t, err)
	})

	invalid := []struct {
		name string
		doc  string
	}{
		{"collection is not an array", `{"heroes": {"id": "h1"}}`},
		{"numeric id", `{"heroes": [{"id": 7, "name": "Aslaug"}]}`},
		{"missing name", `{"villains": [{"id": "v1", "description": "nameless"}]}`},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := setupBackend(t)
			path := filepath.Join(t.TempDir(), "db.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.doc), 0o644))
			_, err := b.SeedFile(ctx, path)
			assert.ErrorIs(t, err, types.ErrInvalidData)

			heroes, err := b.List(ctx, types.CollectionHeroes)
			require.NoError(t, err)
			assert.Empty(t, heroes)
		})
	}

	t.Run("failed write rolls back every collection", func(t *testing.T) {
		b, dir := setupBackend(t)
		// heroes is written before villains, so its file must be restored.
		unblock := blockJSONL(t, dir, types.CollectionVillains)
		defer unblock()

		inserted, err := b.SeedFile(ctx, writeDBJSON(t))
		require.Error(t, err)
		assert.Nil(t, inserted)

		for _, collection := range []string{types.CollectionHeroes, types.CollectionVillains, types.CollectionBoys} {
			list, err := b.List(ctx, collection)
			require.NoError(t, err)
			assert.Empty(t, list, collection)
		}

		data, err := os.ReadFile(filepath.Join(dir, "heroes.jsonl"))
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("detached backend", func(t *testing.T) {
		b := NewBackend()
		_, err := b.Seed(ctx, Document{})
		assert.ErrorIs(t, err, types.ErrBackendDetached)
	})
}

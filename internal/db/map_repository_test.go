//go:build integration

package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/terrainpath/internal/terrain"
)

// ridge has samples with no exact float32 form; they must come back unchanged.
func ridge(t *testing.T, name string) *terrain.MapDefinition {
	t.Helper()
	m, err := terrain.NewMapDefinition(name, 3, 2, 0.5, terrain.Vec3{X: -4, Y: 1.5, Z: 8}, []float64{
		0, 2.5, 0.1,
		0.3, 2.5, 0.75,
	})
	require.NoError(t, err)
	return m
}

func TestMapRepositorySaveLoad(t *testing.T) {
	repo := NewMapRepository(setupTestDB(t))
	ctx := context.Background()
	m := ridge(t, "ridge")

	changed, err := repo.Save(ctx, m)
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := repo.Load(ctx, "ridge")
	require.NoError(t, err)
	assert.Equal(t, "ridge", got.Name())
	assert.Equal(t, m.Digest(), got.Digest())
	assert.Equal(t, m.Heights(), got.Heights())
	assert.Equal(t, m.Origin(), got.Origin())

	changed, err = repo.Save(ctx, m)
	require.NoError(t, err)
	assert.False(t, changed, "same terrain is not rewritten")

	flat, err := terrain.NewFlatMap("ridge", 4, 4, 1, 0)
	require.NoError(t, err)
	changed, err = repo.Save(ctx, flat)
	require.NoError(t, err)
	assert.True(t, changed)

	got, err = repo.Load(ctx, "ridge")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Width())
}

func TestMapRepositoryNotFound(t *testing.T) {
	repo := NewMapRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.Load(ctx, "absent")
	require.ErrorIs(t, err, ErrMapNotFound)

	err = repo.Delete(ctx, "absent")
	require.ErrorIs(t, err, ErrMapNotFound)
}

func TestMapRepositoryLoadAllListDelete(t *testing.T) {
	repo := NewMapRepository(setupTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"b", "a", "c"} {
		_, err := repo.Save(ctx, ridge(t, name))
		require.NoError(t, err)
	}

	maps, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, maps, 3)
	assert.Equal(t, "a", maps[0].Name())
	assert.Equal(t, "c", maps[2].Name())

	infos, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, "a", infos[0].Name)
	assert.Equal(t, 3, infos[0].Width)
	assert.Equal(t, 2, infos[0].Depth)
	assert.Equal(t, 0.5, infos[0].TileSize)
	source := ridge(t, "a").Digest()
	digest := maps[0].Digest()
	assert.Equal(t, source, digest)
	assert.Equal(t, digest[:], infos[0].Digest)
	assert.False(t, infos[0].UpdatedAt.IsZero())

	require.NoError(t, repo.Delete(ctx, "b"))

	catalog := terrain.NewCatalog()
	n, err := repo.LoadInto(ctx, catalog)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"a", "c"}, catalog.Names())
}

func TestRunMigrationsIdempotent(t *testing.T) {
	require.NoError(t, RunMigrations(context.Background(), testDSN))

	d, err := New(context.Background(), testDSN)
	require.NoError(t, err)
	defer d.Close()

	setupTestDB(t)
	_, err = d.Maps().Save(context.Background(), ridge(t, "x"))
	require.NoError(t, err)
	assert.NotNil(t, d.Pool())
}

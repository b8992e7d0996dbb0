package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/terrainpath/internal/terrain"
)

func TestExportMaps(t *testing.T) {
	ridge, err := terrain.NewMapDefinition("ridge", 2, 2, 1, terrain.Vec3{}, []float64{0, 1.5, 0.25, 0})
	require.NoError(t, err)
	flat, err := terrain.NewFlatMap("flat", 3, 1, 2, 4)
	require.NoError(t, err)

	catalog := terrain.NewCatalog()
	catalog.Put(ridge, flat)

	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, exportMaps(catalog, dir))

	loaded := terrain.NewCatalog()
	n, err := loaded.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, ok := loaded.Get("ridge")
	require.True(t, ok)
	assert.Equal(t, ridge.Digest(), got.Digest())

	_, err = os.Stat(filepath.Join(dir, "flat"+terrain.HeightmapExt))
	assert.NoError(t, err)
}
